package core

import "errors"

// Error taxonomy surfaced to callers (spec.md section 7). Resolution,
// type-mismatch, and capacity errors are ordinary result values; invariant
// violations indicate a miscompiled script and are treated as fatal by the
// VM (they still come back as errors - "fatal" here means the core makes no
// attempt to recover script state, not that the process panics).
var (
	// ErrNoSuchType is returned when a type query matches no descriptor.
	ErrNoSuchType = errors.New("no such type")

	// ErrNoSuchFunction is returned when a function query matches no
	// descriptor.
	ErrNoSuchFunction = errors.New("no such function")

	// ErrArgumentsDoNotMatch is returned by Call when the input or output
	// struct does not have one field per signature parameter, and, in
	// strict mode, when an argument's type does not match the resolved
	// signature.
	ErrArgumentsDoNotMatch = errors.New("function arguments do not match signature")

	// ErrFieldNotFound is returned when a field query matches no field on
	// an object's type.
	ErrFieldNotFound = errors.New("field not found")

	// ErrTypeAssertion is returned when Object.ReadAs/WriteAs is called
	// with a type parameter that does not match the object's own type.
	ErrTypeAssertion = errors.New("object does not hold the requested type")

	// ErrNoRegisterBarrier is returned by RestoreRegisters when the
	// barrier stack is empty - a miscompiled script popping more scopes
	// than it pushed.
	ErrNoRegisterBarrier = errors.New("no register barrier to restore")

	// ErrInvalidLayout is returned by runtime type construction when a
	// field has no type or its type's layout is not valid (zero size or
	// alignment, or a size that is not a multiple of the alignment).
	ErrInvalidLayout = errors.New("invalid type layout")
)
