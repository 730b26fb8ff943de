package core

import (
	"reflect"
	"unsafe"

	"github.com/PsichiX/Intuicio-sub002/pkg/data"
)

// objectHeap backs every Object's storage. Its pages are bump-allocated and
// never relocated, so an Object's address stays stable for as long as the
// process keeps the heap alive - the "outlives its pushing scope" property
// that sets an Object apart from a value merely pushed onto a Context's
// stacks, which is reclaimed the moment its scope unwinds.
var objectHeap = data.NewHeap(0)

// allocObjectMemory reserves layout.Size zero-filled bytes from objectHeap,
// or nil for a zero-sized layout (Heap.Alloc requires a non-empty region).
func allocObjectMemory(layout data.Layout) []byte {
	if layout.Size == 0 {
		return nil
	}
	ptr := objectHeap.Alloc(layout)
	return unsafe.Slice((*byte)(ptr), layout.Size)
}

// Object is a dynamic instance of a native or runtime type: a heap-backed
// byte buffer sized to the type's layout, plus a drop flag controlling
// whether Close runs the type's finalizer chain. Ownership is exclusive -
// an Object is meant to be moved (assigned, returned, pushed onto a stack),
// never aliased, except through the explicitly unsafe FieldMemory
// accessors.
//
// Go has no destructors, so unlike the Rust core's Drop impl, callers are
// responsible for calling Close (typically via defer) when they are done
// with an Object they own outright.
type Object struct {
	handle *TypeDescriptor
	memory []byte
	drop   bool
}

// NewObject allocates handle.Layout.Size bytes from objectHeap, zero-filled,
// then runs every field's initializer at its offset (or the native type's
// own initializer).
func NewObject(handle *TypeDescriptor) *Object {
	o := &Object{handle: handle, memory: allocObjectMemory(handle.Layout), drop: true}
	if handle.Initializer != nil && len(o.memory) > 0 {
		handle.Initializer(unsafe.Pointer(&o.memory[0]))
	}
	return o
}

// NewUninitializedObject allocates the buffer without running any
// initializer. The caller takes on the obligation to initialize every
// field before reading it.
func NewUninitializedObject(handle *TypeDescriptor) *Object {
	return &Object{handle: handle, memory: allocObjectMemory(handle.Layout), drop: true}
}

// TypeDescriptor returns the object's type.
func (o *Object) TypeDescriptor() *TypeDescriptor {
	return o.handle
}

// Close runs every field's finalizer in field order (or the native type's
// own finalizer) if the drop flag is still set, then marks the object
// finalized. Safe to call more than once.
func (o *Object) Close() error {
	if o.drop && o.handle.Finalizer != nil && len(o.memory) > 0 {
		o.handle.Finalizer(unsafe.Pointer(&o.memory[0]))
	}
	o.drop = false
	return nil
}

// PreventDrop clears the drop flag without running finalizers, for
// transferring finalization responsibility elsewhere (e.g. to a stack cell
// that took ownership of the bytes).
func (o *Object) PreventDrop() {
	o.drop = false
}

// FieldMemory returns a slice into the object's buffer at the field located
// by query. The slice aliases the object's own storage; writing through it
// bypasses the type system and is the caller's responsibility to use
// correctly.
func (o *Object) FieldMemory(query FieldQuery) ([]byte, error) {
	f := o.handle.FindField(query)
	if f == nil {
		return nil, ErrFieldNotFound
	}
	return o.memory[f.Offset : f.Offset+f.Type.Layout.Size], nil
}

// Memory returns the object's whole backing buffer. Like FieldMemory, this
// is an unsafe escape hatch.
func (o *Object) Memory() []byte {
	return o.memory
}

// ReadAs returns a typed pointer into the object's buffer if the object's
// type is the native type T, or ErrTypeAssertion otherwise.
func ReadAs[T any](o *Object) (*T, error) {
	want := reflect.TypeOf((*T)(nil)).Elem()
	if o.handle.goType != want || len(o.memory) == 0 {
		return nil, ErrTypeAssertion
	}
	return (*T)(unsafe.Pointer(&o.memory[0])), nil
}

// WriteAs is ReadAs's mutable counterpart; in Go both return the same kind
// of pointer, so it is provided for API parity with the spec's read/write
// pair.
func WriteAs[T any](o *Object) (*T, error) {
	return ReadAs[T](o)
}

// ReadField locates a field by name and returns a typed pointer to it if
// the field's type is the native type T.
func ReadField[T any](o *Object, name string) (*T, error) {
	want := reflect.TypeOf((*T)(nil)).Elem()
	f := o.handle.FindField(FieldQuery{Name: &name})
	if f == nil {
		return nil, ErrFieldNotFound
	}
	if f.Type.goType != want {
		return nil, ErrTypeAssertion
	}
	return (*T)(unsafe.Pointer(&o.memory[f.Offset])), nil
}

// WriteField is ReadField's mutable counterpart.
func WriteField[T any](o *Object, name string) (*T, error) {
	return ReadField[T](o, name)
}

// DynamicObject is a name-to-Object property bag used by some front-ends
// for ad-hoc data. It is semantically independent from Object.
type DynamicObject struct {
	properties map[string]*Object
}

func NewDynamicObject() *DynamicObject {
	return &DynamicObject{properties: map[string]*Object{}}
}

func (d *DynamicObject) Get(name string) (*Object, bool) {
	o, ok := d.properties[name]
	return o, ok
}

func (d *DynamicObject) Set(name string, value *Object) {
	d.properties[name] = value
}

func (d *DynamicObject) Delete(name string) (*Object, bool) {
	o, ok := d.properties[name]
	if ok {
		delete(d.properties, name)
	}
	return o, ok
}

func (d *DynamicObject) PropertyNames() []string {
	names := make([]string, 0, len(d.properties))
	for name := range d.properties {
		names = append(names, name)
	}
	return names
}
