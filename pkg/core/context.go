package core

import (
	"github.com/PsichiX/Intuicio-sub002/pkg/data"
)

// DefaultStackCapacity and DefaultRegisterCapacity size a Context's two
// byte stacks when NewContext is not given explicit capacities. Both are
// generous enough for the depth of a typical script call without forcing
// every caller to reason about byte budgets up front.
const (
	DefaultStackCapacity    = 64 * 1024
	DefaultRegisterCapacity = 64 * 1024
)

// Context is the per-call execution state threaded through every function
// invocation and script operation: a value stack used as a calling
// convention (arguments and results pass through it), a register stack used
// for named locals, a stack of register-count barriers marking where each
// nested scope's registers begin, and a bag of custom, caller-defined
// extensions keyed by string.
//
// A Context is not safe for concurrent use; each goroutine executing a
// script or native call needs its own.
type Context struct {
	stack     *data.DataStack
	registers *data.DataStack
	barriers  []int
	custom    map[string]any

	// Strict enables debug-build argument checking: Call compares each
	// pushed argument's computed type hash against the callee's declared
	// signature before invocation, instead of trusting the stack's own
	// PushRaw/PopRaw mismatch checks to catch it after the fact.
	Strict bool
}

// NewContext allocates a context with the given stack and register
// capacities, in bytes.
func NewContext(stackCapacity, registerCapacity uintptr) *Context {
	return &Context{
		stack:     data.NewDataStack(stackCapacity, data.ModeValues),
		registers: data.NewDataStack(registerCapacity, data.ModeRegisters),
		custom:    make(map[string]any),
	}
}

// NewDefaultContext allocates a context with DefaultStackCapacity and
// DefaultRegisterCapacity.
func NewDefaultContext() *Context {
	return NewContext(DefaultStackCapacity, DefaultRegisterCapacity)
}

// Stack returns the value stack used to pass call arguments and results.
func (c *Context) Stack() *data.DataStack {
	return c.stack
}

// Registers returns the register store used for named scope locals.
func (c *Context) Registers() *data.DataStack {
	return c.registers
}

// StoreRegisters pushes a barrier at the register store's current depth.
// Every register defined after this call belongs to the scope that opened
// it, until a matching RestoreRegisters.
func (c *Context) StoreRegisters() error {
	c.barriers = append(c.barriers, c.registers.RegistersCount())
	return nil
}

// RestoreRegisters drops every register defined since the most recent
// StoreRegisters and pops that barrier. It returns ErrNoRegisterBarrier if
// there is no open barrier, which indicates a miscompiled script popping
// more scopes than it opened.
func (c *Context) RestoreRegisters() error {
	if len(c.barriers) == 0 {
		return ErrNoRegisterBarrier
	}
	floor := c.barriers[len(c.barriers)-1]
	c.barriers = c.barriers[:len(c.barriers)-1]
	for c.registers.RegistersCount() > floor {
		if err := c.registers.DropRegister(c.registers.RegistersCount() - 1); err != nil {
			return err
		}
	}
	return nil
}

// BarrierDepth reports how many register barriers are currently open.
func (c *Context) BarrierDepth() int {
	return len(c.barriers)
}

// AbsoluteRegisterIndex converts a register index relative to the
// innermost open barrier (the current scope's local register 0) into an
// absolute index into the register store. With no open barrier the
// relative and absolute indices coincide.
func (c *Context) AbsoluteRegisterIndex(relative int) int {
	if len(c.barriers) == 0 {
		return relative
	}
	return c.barriers[len(c.barriers)-1] + relative
}

// AccessRegister returns the type hash, layout, and current bytes stored at
// the register located by a scope-relative index, and whether it holds a
// valid (initialized) value.
func (c *Context) AccessRegister(relative int) (data.TypeHash, data.Layout, []byte, bool, error) {
	abs := c.AbsoluteRegisterIndex(relative)
	hash, layout, valid, ok := c.registers.RegisterInfo(abs)
	if !ok {
		return 0, data.Layout{}, nil, false, data.ErrInvalidRegister
	}
	bytes, err := c.registers.RegisterBytes(abs)
	if err != nil {
		return 0, data.Layout{}, nil, false, err
	}
	return hash, layout, bytes, valid, nil
}

// SetCustom attaches a caller-defined extension value under name, the way
// host integrations stash interpreter-specific state (e.g. a source map or
// debugger hook) alongside the otherwise host-agnostic Context.
func (c *Context) SetCustom(name string, value any) {
	c.custom[name] = value
}

// Custom retrieves a previously attached extension value.
func (c *Context) Custom(name string) (any, bool) {
	v, ok := c.custom[name]
	return v, ok
}

// Fork produces a fresh context with the same stack/register capacities
// and a copy of the custom extension bag, but empty stacks - used when a
// host needs an isolated call frame (e.g. running a nested script on its
// own goroutine) that still shares the caller's custom extensions.
func (c *Context) Fork() *Context {
	forked := NewContext(c.stack.Size(), c.registers.Size())
	for k, v := range c.custom {
		forked.custom[k] = v
	}
	return forked
}
