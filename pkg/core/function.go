package core

import (
	"reflect"
	"unsafe"
)

// Parameter is one positional input or output of a function signature.
type Parameter struct {
	Name string
	Type *TypeDescriptor
}

// Signature is a function's identity and contract: name, owning module,
// visibility, an optional owner type for methods, and ordered input/output
// parameter lists.
type Signature struct {
	Name       string
	ModuleName string
	Visibility Visibility
	OwnerType  *TypeDescriptor
	Inputs     []Parameter
	Outputs    []Parameter
}

// Equal reports whether two signatures describe the same callable: same
// name, module, owner type, and parameter types in the same order. Parameter
// names are documentation only and do not participate in equality.
func (s *Signature) Equal(other *Signature) bool {
	if s == nil || other == nil {
		return s == other
	}
	if s.Name != other.Name || s.ModuleName != other.ModuleName {
		return false
	}
	if !s.OwnerType.Equal(other.OwnerType) {
		return false
	}
	if len(s.Inputs) != len(other.Inputs) || len(s.Outputs) != len(other.Outputs) {
		return false
	}
	for i := range s.Inputs {
		if !s.Inputs[i].Type.Equal(other.Inputs[i].Type) {
			return false
		}
	}
	for i := range s.Outputs {
		if !s.Outputs[i].Type.Equal(other.Outputs[i].Type) {
			return false
		}
	}
	return true
}

// FunctionBody is the executable content of a Function: either a native Go
// closure wrapping a host routine, or a closure generated by the script
// interpreter that drives a VmScope over a Script's operations. Both shapes
// read their arguments off ctx's value stack and push their results back
// onto it - the body has no other calling convention.
type FunctionBody func(ctx *Context, registry *Registry) error

// Function pairs a Signature with the body that implements it.
type Function struct {
	Signature Signature
	Body      FunctionBody
}

// FunctionHandle is a shared reference to a Function, handed out by the
// registry the same way TypeHandle is handed out for types.
type FunctionHandle = *Function

// NewFunction constructs a function from a signature and body.
func NewFunction(signature Signature, body FunctionBody) *Function {
	return &Function{Signature: signature, Body: body}
}

// Invoke runs the function body directly against ctx, with arguments
// already staged on ctx's value stack and results expected to land there.
func (f *Function) Invoke(ctx *Context, registry *Registry) error {
	return f.Body(ctx, registry)
}

// Call implements the struct-in, struct-out invocation protocol used by
// native Go call sites: it pushes the fields of inputs onto ctx's value
// stack in reverse declared order (so the first declared input ends up on
// top, ready for the callee to pop first), invokes fn, then pops results
// off the stack in declared order into a zero-valued O.
//
// Every field type participating in I or O must have been registered with
// registry as a native type (Call looks each field's TypeDescriptor up by
// its Go type); runtime-assembled types have no Go type and cannot be used
// here. storeRegisters wraps the call with a register barrier so the
// callee's local registers cannot leak into the caller's.
func Call[I any, O any](fn *Function, ctx *Context, registry *Registry, inputs I, storeRegisters bool) (O, error) {
	var zero O

	inputsVal := reflect.ValueOf(&inputs).Elem()
	if inputsVal.Kind() != reflect.Struct || inputsVal.NumField() != len(fn.Signature.Inputs) {
		return zero, ErrArgumentsDoNotMatch
	}

	stack := ctx.Stack()
	for i := inputsVal.NumField() - 1; i >= 0; i-- {
		field := inputsVal.Field(i)
		td, ok := registry.TypeForGoType(field.Type())
		if !ok {
			return zero, ErrNoSuchType
		}
		if ctx.Strict && !td.Equal(fn.Signature.Inputs[i].Type) {
			return zero, ErrArgumentsDoNotMatch
		}
		bytes := unsafe.Slice((*byte)(unsafe.Pointer(field.UnsafeAddr())), td.Layout.Size)
		if err := stack.PushRaw(td.TypeHash(), td.Layout, td.Finalizer, bytes); err != nil {
			return zero, err
		}
	}

	if storeRegisters {
		if err := ctx.StoreRegisters(); err != nil {
			return zero, err
		}
	}

	err := fn.Body(ctx, registry)

	if storeRegisters {
		if restoreErr := ctx.RestoreRegisters(); restoreErr != nil && err == nil {
			err = restoreErr
		}
	}
	if err != nil {
		return zero, err
	}

	if len(fn.Signature.Outputs) != 0 {
		outputsVal := reflect.ValueOf(&zero).Elem()
		if outputsVal.Kind() != reflect.Struct || outputsVal.NumField() != len(fn.Signature.Outputs) {
			return zero, ErrArgumentsDoNotMatch
		}
		for i := 0; i < outputsVal.NumField(); i++ {
			expected := fn.Signature.Outputs[i].Type.TypeHash()
			layout, bytes, popErr := stack.PopRaw(expected)
			if popErr != nil {
				return zero, popErr
			}
			field := outputsVal.Field(i)
			dst := unsafe.Slice((*byte)(unsafe.Pointer(field.UnsafeAddr())), layout.Size)
			copy(dst, bytes)
		}
	}

	return zero, nil
}
