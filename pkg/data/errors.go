package data

import "errors"

// Sentinel errors surfaced by DataStack. Callers compare with errors.Is;
// core returns these unwrapped.
var (
	// ErrCapacityExhausted is returned when a push would grow the stack
	// past its preallocated byte capacity. The stack never grows silently.
	ErrCapacityExhausted = errors.New("stack exhausted")

	// ErrTypeMismatch is returned when a pop, register access, or register
	// write observes a type hash different from the one it expected.
	ErrTypeMismatch = errors.New("type does not match")

	// ErrEmpty is returned when an operation requires a value that is not
	// there (popping an empty value stack, dropping a register when none
	// are allocated). This signals a miscompiled script.
	ErrEmpty = errors.New("stack is empty")

	// ErrInvalidRegister is returned for an out-of-range register index or
	// an attempt to drop a register that is not the topmost one.
	ErrInvalidRegister = errors.New("invalid register index")

	// ErrRegisterUninitialized is returned when reading a register that
	// was defined but never written.
	ErrRegisterUninitialized = errors.New("register has not been initialized")
)
