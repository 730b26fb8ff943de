// Package host provides the facade a front-end embeds: a Context paired
// with the Registry it runs against, plus a process-wide stack of
// ambient hosts for scripts that need to reach "the current host" without
// threading a parameter through every call.
package host

import (
	"sync"

	"github.com/PsichiX/Intuicio-sub002/pkg/core"
)

// Host pairs an execution context with the registry it resolves types and
// functions against. It is the unit front-ends construct once per script
// run (or once per long-lived VM instance reused across many runs).
type Host struct {
	Context  *core.Context
	Registry *core.Registry
}

// NewHost pairs an existing context and registry.
func NewHost(ctx *core.Context, registry *core.Registry) *Host {
	return &Host{Context: ctx, Registry: registry}
}

// HostProducer builds a fresh Host on demand, the way a server might mint
// one per incoming request while sharing a single long-lived Registry.
type HostProducer func() (*Host, error)

// CallFunction resolves query against h.Registry and invokes it through
// core.Call, the convenience a native call site reaches for instead of
// resolving and calling by hand.
func CallFunction[I any, O any](h *Host, query core.FunctionQuery, inputs I, storeRegisters bool) (O, error) {
	var zero O
	fn, ok := h.Registry.FindFunction(query)
	if !ok {
		return zero, core.ErrNoSuchFunction
	}
	return core.Call[I, O](fn, h.Context, h.Registry, inputs, storeRegisters)
}

// globalHosts is the process-wide ambient host stack. The Rust original
// keys this off thread-local storage; Go has no first-class analogue
// (goroutines are not threads and are not enumerable), so this is a single
// mutex-guarded stack shared by the whole process. Callers that need
// per-goroutine isolation should carry a *Host explicitly instead of
// relying on the global stack - see DESIGN.md for the tradeoff.
var (
	globalMu    sync.Mutex
	globalHosts []*Host
)

// PushGlobal makes h the current ambient host, nesting over whatever was
// there before.
func PushGlobal(h *Host) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalHosts = append(globalHosts, h)
}

// PopGlobal removes and returns the current ambient host. It returns
// ErrNoGlobalHost if the stack is empty.
func PopGlobal() (*Host, error) {
	globalMu.Lock()
	defer globalMu.Unlock()
	if len(globalHosts) == 0 {
		return nil, ErrNoGlobalHost
	}
	top := globalHosts[len(globalHosts)-1]
	globalHosts = globalHosts[:len(globalHosts)-1]
	return top, nil
}

// CurrentGlobal returns the current ambient host without removing it.
func CurrentGlobal() (*Host, bool) {
	globalMu.Lock()
	defer globalMu.Unlock()
	if len(globalHosts) == 0 {
		return nil, false
	}
	return globalHosts[len(globalHosts)-1], true
}

// RemoveGlobal pops the ambient host stack and discards the result,
// reporting whether there was one to remove.
func RemoveGlobal() bool {
	_, err := PopGlobal()
	return err == nil
}

// WithGlobal pushes h, runs fn, then pops - restoring the previous ambient
// host even if fn panics is out of scope here (the core treats a panicking
// front-end call as a programmer error, not something to recover from);
// fn's error return propagates to the caller rather than being swallowed,
// per the resolved open question on global host error handling.
func WithGlobal(h *Host, fn func() error) error {
	PushGlobal(h)
	err := fn()
	if _, popErr := PopGlobal(); popErr != nil && err == nil {
		err = popErr
	}
	return err
}
