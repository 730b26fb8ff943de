package core

import (
	"reflect"
	"unsafe"

	"github.com/PsichiX/Intuicio-sub002/pkg/data"
)

// Finalizable is implemented by native Go types that own a resource needing
// explicit release. NativeTypeBuilder wires it in automatically, the way
// the Rust core wires in a type's Drop impl.
type Finalizable interface {
	Finalize()
}

// FieldDescriptor describes one field of a composite type: its name,
// visibility, byte offset within the parent, and the field's own type.
type FieldDescriptor struct {
	Name       string
	Visibility Visibility
	Offset     uintptr
	Type       *TypeDescriptor
}

// TypeDescriptor is an immutable, shared description of a native or
// runtime-assembled composite type: its identity, memory layout, field
// list, lifecycle hooks, and capability bits. Two descriptors are equal iff
// their (Name, ModuleName) match.
type TypeDescriptor struct {
	Name       string
	ModuleName string
	Visibility Visibility
	Layout     data.Layout
	Fields     []FieldDescriptor
	Initializer data.FinalizerFunc
	Finalizer   data.FinalizerFunc
	Send        bool
	Sync        bool
	Copy        bool

	hash   data.TypeHash
	goType reflect.Type
}

// TypeHandle is a shared reference to a TypeDescriptor. Descriptors are
// immutable after construction, so Go's ordinary pointer sharing plays the
// role the Rust core gives an Arc handle: the registry deduplicates by
// value equality and hands back the same pointer for equal descriptors.
type TypeHandle = *TypeDescriptor

// TypeHash returns the descriptor's stable 64-bit fingerprint.
func (d *TypeDescriptor) TypeHash() data.TypeHash {
	return d.hash
}

// Equal reports structural equality: identical (Name, ModuleName).
func (d *TypeDescriptor) Equal(other *TypeDescriptor) bool {
	if d == nil || other == nil {
		return d == other
	}
	return d.Name == other.Name && d.ModuleName == other.ModuleName
}

// FindField locates the first field matching query.
func (d *TypeDescriptor) FindField(query FieldQuery) *FieldDescriptor {
	for i := range d.Fields {
		if query.Matches(&d.Fields[i]) {
			return &d.Fields[i]
		}
	}
	return nil
}

func (d *TypeDescriptor) finish() *TypeDescriptor {
	d.hash = data.ComputeTypeHash(d.Name, d.ModuleName)
	return d
}

// NativeTypeBuilder constructs a TypeDescriptor from a Go type T, the way
// the Rust core's NativeStructBuilder derives a descriptor from a
// language-level type at build time: layout comes from unsafe.Sizeof/
// Alignof, and the initializer/finalizer wrap T's zero value and (if T
// implements Finalizable) its Finalize method.
type NativeTypeBuilder[T any] struct {
	name        string
	moduleName  string
	visibility  Visibility
	initializer func(*T)
	finalizer   func(*T)
	send        bool
	sync        bool
	copy        bool
}

// NewNativeTypeBuilder starts building a native type descriptor for T,
// defaulting its name to T's Go type name, public visibility, and
// send+sync capability (matching ordinary Go values, which are safely
// passed across goroutines once copied).
func NewNativeTypeBuilder[T any]() *NativeTypeBuilder[T] {
	var zero T
	return &NativeTypeBuilder[T]{
		name:       reflect.TypeOf(zero).String(),
		visibility: VisibilityPublic,
		send:       true,
		sync:       true,
	}
}

func (b *NativeTypeBuilder[T]) WithName(name string) *NativeTypeBuilder[T] {
	b.name = name
	return b
}

func (b *NativeTypeBuilder[T]) WithModule(moduleName string) *NativeTypeBuilder[T] {
	b.moduleName = moduleName
	return b
}

func (b *NativeTypeBuilder[T]) WithVisibility(visibility Visibility) *NativeTypeBuilder[T] {
	b.visibility = visibility
	return b
}

func (b *NativeTypeBuilder[T]) WithInitializer(f func(*T)) *NativeTypeBuilder[T] {
	b.initializer = f
	return b
}

func (b *NativeTypeBuilder[T]) WithFinalizer(f func(*T)) *NativeTypeBuilder[T] {
	b.finalizer = f
	return b
}

func (b *NativeTypeBuilder[T]) WithCapabilities(send, sync, copy bool) *NativeTypeBuilder[T] {
	b.send, b.sync, b.copy = send, sync, copy
	return b
}

// Build produces the descriptor.
func (b *NativeTypeBuilder[T]) Build() *TypeDescriptor {
	layout := data.NativeLayout[T]()

	var initializer data.FinalizerFunc
	if b.initializer != nil {
		init := b.initializer
		initializer = func(p unsafe.Pointer) { init((*T)(p)) }
	}

	finalizer := b.finalizer
	var finalizerFn data.FinalizerFunc
	if finalizer != nil {
		finalizerFn = func(p unsafe.Pointer) { finalizer((*T)(p)) }
	} else if _, ok := any((*T)(nil)).(Finalizable); ok {
		finalizerFn = func(p unsafe.Pointer) { (*T)(p).Finalize() }
	}

	d := &TypeDescriptor{
		Name:        b.name,
		ModuleName:  b.moduleName,
		Visibility:  b.visibility,
		Layout:      layout,
		Initializer: initializer,
		Finalizer:   finalizerFn,
		Send:        b.send,
		Sync:        b.sync,
		Copy:        b.copy,
		goType:      reflect.TypeOf((*T)(nil)).Elem(),
	}
	return d.finish()
}

// RuntimeFieldSpec describes one field to include in a runtime-assembled
// type, before offsets are computed.
type RuntimeFieldSpec struct {
	Name       string
	Visibility Visibility
	Type       *TypeDescriptor
}

// RuntimeTypeBuilder assembles a TypeDescriptor from a list of fields:
// offsets are computed by greedy packing with alignment padding, and the
// overall layout is the smallest size containing every field, rounded up to
// the overall alignment.
type RuntimeTypeBuilder struct {
	name       string
	moduleName string
	visibility Visibility
	fields     []RuntimeFieldSpec
	send       bool
	sync       bool
	copy       bool
}

func NewRuntimeTypeBuilder(name string) *RuntimeTypeBuilder {
	return &RuntimeTypeBuilder{
		name:       name,
		visibility: VisibilityPublic,
		send:       true,
		sync:       true,
	}
}

func (b *RuntimeTypeBuilder) WithModule(moduleName string) *RuntimeTypeBuilder {
	b.moduleName = moduleName
	return b
}

func (b *RuntimeTypeBuilder) WithVisibility(visibility Visibility) *RuntimeTypeBuilder {
	b.visibility = visibility
	return b
}

func (b *RuntimeTypeBuilder) WithField(name string, visibility Visibility, typ *TypeDescriptor) *RuntimeTypeBuilder {
	b.fields = append(b.fields, RuntimeFieldSpec{Name: name, Visibility: visibility, Type: typ})
	return b
}

func (b *RuntimeTypeBuilder) WithCapabilities(send, sync, copy bool) *RuntimeTypeBuilder {
	b.send, b.sync, b.copy = send, sync, copy
	return b
}

// Build packs the declared fields and produces the descriptor. It returns
// ErrInvalidLayout if a field has no type or an invalid layout.
func (b *RuntimeTypeBuilder) Build() (*TypeDescriptor, error) {
	layouts := make([]data.Layout, len(b.fields))
	for i, f := range b.fields {
		if f.Type == nil || !f.Type.Layout.Valid() {
			return nil, ErrInvalidLayout
		}
		layouts[i] = f.Type.Layout
	}
	offsets, overall := data.PackFields(layouts)

	fields := make([]FieldDescriptor, len(b.fields))
	for i, f := range b.fields {
		fields[i] = FieldDescriptor{
			Name:       f.Name,
			Visibility: f.Visibility,
			Offset:     offsets[i],
			Type:       f.Type,
		}
	}

	d := &TypeDescriptor{
		Name:       b.name,
		ModuleName: b.moduleName,
		Visibility: b.visibility,
		Layout:     overall,
		Fields:     fields,
		Send:       b.send,
		Sync:       b.sync,
		Copy:       b.copy,
	}
	d.Initializer = compositeInitializer(fields)
	d.Finalizer = compositeFinalizer(fields)
	return d.finish(), nil
}

func compositeInitializer(fields []FieldDescriptor) data.FinalizerFunc {
	hasWork := false
	for _, f := range fields {
		if f.Type.Initializer != nil {
			hasWork = true
			break
		}
	}
	if !hasWork {
		return nil
	}
	return func(base unsafe.Pointer) {
		for _, f := range fields {
			if f.Type.Initializer != nil {
				f.Type.Initializer(unsafe.Add(base, f.Offset))
			}
		}
	}
}

func compositeFinalizer(fields []FieldDescriptor) data.FinalizerFunc {
	hasWork := false
	for _, f := range fields {
		if f.Type.Finalizer != nil {
			hasWork = true
			break
		}
	}
	if !hasWork {
		return nil
	}
	return func(base unsafe.Pointer) {
		for _, f := range fields {
			if f.Type.Finalizer != nil {
				f.Type.Finalizer(unsafe.Add(base, f.Offset))
			}
		}
	}
}
