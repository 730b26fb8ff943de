package core

import (
	"reflect"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

// DefaultIndexCapacity and DefaultUseIndexingThreshold size a Registry's
// query caches when no options override them. The threshold keeps small
// registries (the common case in tests and short-lived scripts) doing a
// plain linear scan instead of paying for cache bookkeeping that never
// pays for itself.
const (
	DefaultIndexCapacity        = 512
	DefaultUseIndexingThreshold = 64
)

// Registry is the authoritative, deduplicated store of every type and
// function a runtime knows about. Lookups are by query rather than by
// handle, since callers (the script interpreter, native call sites, CLI
// introspection) generally know a name and module rather than a pointer.
//
// A Registry is safe for concurrent use; registration is exclusive but
// lookups proceed in parallel under a read lock.
type Registry struct {
	mu        sync.RWMutex
	types     []*TypeDescriptor
	functions []*Function

	typeByGoType map[reflect.Type]*TypeDescriptor

	typeCache     *lru.Cache[uint64, []*TypeDescriptor]
	functionCache *lru.Cache[uint64, []*Function]

	indexCapacity        int
	useIndexingThreshold int
	logger                *zap.Logger
}

// RegistryOption configures a Registry at construction time.
type RegistryOption func(*Registry)

// WithIndexCapacity overrides the LRU query cache capacity (default
// DefaultIndexCapacity).
func WithIndexCapacity(capacity int) RegistryOption {
	return func(r *Registry) { r.indexCapacity = capacity }
}

// WithUseIndexingThreshold overrides the minimum registry size below which
// FindType/FindFunction skip the cache and scan directly (default
// DefaultUseIndexingThreshold).
func WithUseIndexingThreshold(threshold int) RegistryOption {
	return func(r *Registry) { r.useIndexingThreshold = threshold }
}

// WithLogger attaches a zap logger for registration diagnostics (each
// newly stored type or function is logged at debug level). Defaults to
// zap.NewNop().
func WithLogger(logger *zap.Logger) RegistryOption {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithBasicTypes registers the fundamental native types (bool, signed and
// unsigned integers, floats, string) that scripts and host functions can
// assume are always present, the way a language runtime preloads its
// primitive type table before user code runs.
func WithBasicTypes() RegistryOption {
	return func(r *Registry) { r.registerBasicTypes() }
}

// NewRegistry constructs an empty registry. Options are applied in order,
// so WithBasicTypes sees any earlier WithIndexCapacity/WithLogger options.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		typeByGoType:          make(map[reflect.Type]*TypeDescriptor),
		indexCapacity:         DefaultIndexCapacity,
		useIndexingThreshold:  DefaultUseIndexingThreshold,
		logger:                zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.typeCache, _ = lru.New[uint64, []*TypeDescriptor](r.indexCapacity)
	r.functionCache, _ = lru.New[uint64, []*Function](r.indexCapacity)
	return r
}

func (r *Registry) registerBasicTypes() {
	r.AddType(NewNativeTypeBuilder[bool]().WithName("bool").Build())
	r.AddType(NewNativeTypeBuilder[int32]().WithName("i32").Build())
	r.AddType(NewNativeTypeBuilder[int64]().WithName("i64").Build())
	r.AddType(NewNativeTypeBuilder[uint32]().WithName("u32").Build())
	r.AddType(NewNativeTypeBuilder[uint64]().WithName("u64").Build())
	r.AddType(NewNativeTypeBuilder[float32]().WithName("f32").Build())
	r.AddType(NewNativeTypeBuilder[float64]().WithName("f64").Build())
	r.AddType(NewNativeTypeBuilder[string]().WithName("string").Build())
}

// AddType registers d, unless a structurally equal descriptor already
// exists, in which case the existing handle is returned and d is
// discarded. Either way the returned handle is the canonical one to use
// going forward.
func (r *Registry) AddType(d *TypeDescriptor) *TypeDescriptor {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.types {
		if existing.Equal(d) {
			return existing
		}
	}
	r.types = append(r.types, d)
	if d.goType != nil {
		r.typeByGoType[d.goType] = d
	}
	// typeCache is still nil while NewRegistry applies options such as
	// WithBasicTypes; there is nothing to invalidate yet.
	if r.typeCache != nil {
		r.typeCache.Purge()
	}
	r.logger.Debug("type registered", zap.String("name", d.Name), zap.String("module", d.ModuleName))
	return d
}

// AddFunction registers f, unless a function with an equal signature
// already exists, in which case the existing handle is returned.
func (r *Registry) AddFunction(f *Function) *Function {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.functions {
		if existing.Signature.Equal(&f.Signature) {
			return existing
		}
	}
	r.functions = append(r.functions, f)
	r.functionCache.Purge()
	r.logger.Debug("function registered", zap.String("name", f.Signature.Name), zap.String("module", f.Signature.ModuleName))
	return f
}

// TypeForGoType looks up the native type descriptor registered for a Go
// type, used by the generic Call protocol to resolve argument/result
// types reflectively.
func (r *Registry) TypeForGoType(t reflect.Type) (*TypeDescriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.typeByGoType[t]
	return d, ok
}

// FindType returns the first registered type matching query.
func (r *Registry) FindType(query TypeQuery) (*TypeDescriptor, bool) {
	matches := r.FindTypes(query)
	if len(matches) == 0 {
		return nil, false
	}
	return matches[0], true
}

// FindTypes returns every registered type matching query. Below
// useIndexingThreshold registrations it scans directly; above it, results
// are cached by query hash until the next registration invalidates them.
func (r *Registry) FindTypes(query TypeQuery) []*TypeDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.types) < r.useIndexingThreshold {
		return scanTypes(r.types, query)
	}
	key := query.Hash()
	if cached, ok := r.typeCache.Get(key); ok {
		return cached
	}
	matches := scanTypes(r.types, query)
	r.typeCache.Add(key, matches)
	return matches
}

func scanTypes(types []*TypeDescriptor, query TypeQuery) []*TypeDescriptor {
	var matches []*TypeDescriptor
	for _, d := range types {
		if query.Matches(d) {
			matches = append(matches, d)
		}
	}
	return matches
}

// FindFunction returns the first registered function matching query.
func (r *Registry) FindFunction(query FunctionQuery) (*Function, bool) {
	matches := r.FindFunctions(query)
	if len(matches) == 0 {
		return nil, false
	}
	return matches[0], true
}

// FindFunctions returns every registered function matching query, with the
// same scan-or-cache behavior as FindTypes.
func (r *Registry) FindFunctions(query FunctionQuery) []*Function {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.functions) < r.useIndexingThreshold {
		return scanFunctions(r.functions, query)
	}
	key := query.Hash()
	if cached, ok := r.functionCache.Get(key); ok {
		return cached
	}
	matches := scanFunctions(r.functions, query)
	r.functionCache.Add(key, matches)
	return matches
}

func scanFunctions(functions []*Function, query FunctionQuery) []*Function {
	var matches []*Function
	for _, f := range functions {
		if query.Matches(&f.Signature) {
			matches = append(matches, f)
		}
	}
	return matches
}

// RemoveType removes every registered type matching query and reports
// whether any were removed.
func (r *Registry) RemoveType(query TypeQuery) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.types[:0]
	removed := false
	for _, d := range r.types {
		if query.Matches(d) {
			removed = true
			if d.goType != nil {
				delete(r.typeByGoType, d.goType)
			}
			continue
		}
		kept = append(kept, d)
	}
	r.types = kept
	if removed {
		r.typeCache.Purge()
	}
	return removed
}

// RemoveFunction removes every registered function matching query and
// reports whether any were removed.
func (r *Registry) RemoveFunction(query FunctionQuery) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.functions[:0]
	removed := false
	for _, f := range r.functions {
		if query.Matches(&f.Signature) {
			removed = true
			continue
		}
		kept = append(kept, f)
	}
	r.functions = kept
	if removed {
		r.functionCache.Purge()
	}
	return removed
}

// TypeCount and FunctionCount report the registry's current size, used by
// callers deciding whether indexing has kicked in.
func (r *Registry) TypeCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.types)
}

func (r *Registry) FunctionCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.functions)
}
