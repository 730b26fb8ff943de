package data

import (
	"unsafe"
)

// FinalizerFunc runs a value's destructor in place, given a pointer to its
// first byte. It must not retain the pointer past the call.
type FinalizerFunc func(unsafe.Pointer)

// Mode selects how a DataStack accounts for the cells it holds. Values mode
// is a strict LIFO byte stack; Registers mode additionally supports
// allocate-by-query, read/write by index, and out-of-order validity
// tracking for the register file.
type Mode int

const (
	ModeValues Mode = iota
	ModeRegisters
)

type cell struct {
	typeHash  TypeHash
	layout    Layout
	finalizer FinalizerFunc
	offset    uintptr
	valid     bool
}

// DataStack is a contiguous, preallocated byte buffer holding a sequence of
// typed cells. It never reallocates: exhausting its capacity fails push
// deterministically instead of growing.
type DataStack struct {
	mode     Mode
	buffer   []byte
	position uintptr
	cells    []cell
}

// NewDataStack allocates a stack with the given byte capacity operating in
// the given mode.
func NewDataStack(capacity uintptr, mode Mode) *DataStack {
	return &DataStack{
		mode:   mode,
		buffer: make([]byte, capacity),
	}
}

// Mode reports whether this stack operates as a value stack or a register
// file.
func (s *DataStack) Mode() Mode {
	return s.mode
}

// Size returns the stack's total byte capacity.
func (s *DataStack) Size() uintptr {
	return uintptr(len(s.buffer))
}

// Position returns the number of bytes currently occupied.
func (s *DataStack) Position() uintptr {
	return s.position
}

// Depth returns the number of cells currently on the stack (value-stack
// depth, or register count in Registers mode).
func (s *DataStack) Depth() int {
	return len(s.cells)
}

// RegistersCount is an alias for Depth used by register-file callers.
func (s *DataStack) RegistersCount() int {
	return len(s.cells)
}

// AsBytes exposes the occupied prefix of the underlying buffer, for
// diagnostics only.
func (s *DataStack) AsBytes() []byte {
	return s.buffer[:s.position]
}

func (s *DataStack) cellBytes(c *cell) []byte {
	return s.buffer[c.offset : c.offset+c.layout.Size]
}

// PushRaw pushes an arbitrary-layout value onto a value-mode stack. value
// must contain exactly layout.Size bytes.
func (s *DataStack) PushRaw(typeHash TypeHash, layout Layout, finalizer FinalizerFunc, value []byte) error {
	offset := s.position
	end := offset + layout.Size
	if end > uintptr(len(s.buffer)) {
		return ErrCapacityExhausted
	}
	copy(s.buffer[offset:end], value)
	s.cells = append(s.cells, cell{
		typeHash:  typeHash,
		layout:    layout,
		finalizer: finalizer,
		offset:    offset,
		valid:     true,
	})
	s.position = end
	return nil
}

// PeekRaw returns the top cell's metadata and a slice into the live buffer,
// without popping it.
func (s *DataStack) PeekRaw() (typeHash TypeHash, layout Layout, bytes []byte, ok bool) {
	if len(s.cells) == 0 {
		return 0, Layout{}, nil, false
	}
	top := &s.cells[len(s.cells)-1]
	return top.typeHash, top.layout, s.cellBytes(top), true
}

// PopRaw pops the top cell after checking its type hash matches expected.
// Ownership of the bytes moves to the caller: no finalizer runs. The
// returned slice is a copy, stable past the pop.
func (s *DataStack) PopRaw(expected TypeHash) (layout Layout, bytes []byte, err error) {
	if len(s.cells) == 0 {
		return Layout{}, nil, ErrEmpty
	}
	top := s.cells[len(s.cells)-1]
	if top.typeHash != expected {
		return Layout{}, nil, ErrTypeMismatch
	}
	out := make([]byte, top.layout.Size)
	copy(out, s.cellBytes(&top))
	s.cells = s.cells[:len(s.cells)-1]
	s.position = top.offset
	return top.layout, out, nil
}

// Push copies value's representation onto a value-mode stack.
func Push[T any](s *DataStack, typeHash TypeHash, finalizer FinalizerFunc, value T) error {
	layout := NativeLayout[T]()
	bytes := unsafe.Slice((*byte)(unsafe.Pointer(&value)), layout.Size)
	return s.PushRaw(typeHash, layout, finalizer, bytes)
}

// Pop pops the top cell as a T after checking its type hash matches
// expected.
func Pop[T any](s *DataStack, expected TypeHash) (T, error) {
	var zero T
	_, bytes, err := s.PopRaw(expected)
	if err != nil {
		return zero, err
	}
	return *(*T)(unsafe.Pointer(&bytes[0])), nil
}

// Clear finalizes and drops every remaining cell, top to bottom, and resets
// the stack to empty. Used to recover a stack after an invariant violation.
func (s *DataStack) Clear() {
	for i := len(s.cells) - 1; i >= 0; i-- {
		c := &s.cells[i]
		if c.finalizer != nil && c.valid {
			c.finalizer(unsafe.Pointer(&s.buffer[c.offset]))
		}
	}
	s.cells = s.cells[:0]
	s.position = 0
}

// DefineRegister allocates an uninitialized register of the given layout at
// the next index and returns that index.
func (s *DataStack) DefineRegister(typeHash TypeHash, layout Layout, finalizer FinalizerFunc) (int, error) {
	offset := s.position
	end := offset + layout.Size
	if end > uintptr(len(s.buffer)) {
		return 0, ErrCapacityExhausted
	}
	for i := range s.buffer[offset:end] {
		s.buffer[offset+uintptr(i)] = 0
	}
	s.cells = append(s.cells, cell{
		typeHash:  typeHash,
		layout:    layout,
		finalizer: finalizer,
		offset:    offset,
		valid:     false,
	})
	s.position = end
	return len(s.cells) - 1, nil
}

// DropRegister finalizes (if initialized) and releases the register at
// index. Registers can only be dropped in reverse allocation order: index
// must name the topmost register.
func (s *DataStack) DropRegister(index int) error {
	if len(s.cells) == 0 {
		return ErrEmpty
	}
	top := len(s.cells) - 1
	if index != top {
		return ErrInvalidRegister
	}
	c := s.cells[top]
	if c.valid && c.finalizer != nil {
		c.finalizer(unsafe.Pointer(&s.buffer[c.offset]))
	}
	s.cells = s.cells[:top]
	s.position = c.offset
	return nil
}

// RegisterInfo reports a register's type hash, layout, and whether it has
// been written since allocation.
func (s *DataStack) RegisterInfo(index int) (typeHash TypeHash, layout Layout, valid bool, ok bool) {
	if index < 0 || index >= len(s.cells) {
		return 0, Layout{}, false, false
	}
	c := &s.cells[index]
	return c.typeHash, c.layout, c.valid, true
}

// RegisterBytes returns a mutable slice into a register's live bytes.
func (s *DataStack) RegisterBytes(index int) ([]byte, error) {
	if index < 0 || index >= len(s.cells) {
		return nil, ErrInvalidRegister
	}
	c := &s.cells[index]
	return s.cellBytes(c), nil
}

// WriteRegisterRaw overwrites a register's contents, finalizing whatever
// was previously stored there if it was valid, and marks it valid.
func (s *DataStack) WriteRegisterRaw(index int, typeHash TypeHash, finalizer FinalizerFunc, value []byte) error {
	if index < 0 || index >= len(s.cells) {
		return ErrInvalidRegister
	}
	c := &s.cells[index]
	if c.typeHash != typeHash {
		return ErrTypeMismatch
	}
	if c.valid && c.finalizer != nil {
		c.finalizer(unsafe.Pointer(&s.buffer[c.offset]))
	}
	copy(s.cellBytes(c), value)
	c.finalizer = finalizer
	c.valid = true
	return nil
}

// SwapRegisters exchanges the contents (bytes, type hash, finalizer,
// validity) of two registers without running either finalizer. This
// implements MoveRegister's resolved swap semantics.
func (s *DataStack) SwapRegisters(a, b int) error {
	if a < 0 || a >= len(s.cells) || b < 0 || b >= len(s.cells) {
		return ErrInvalidRegister
	}
	if a == b {
		return nil
	}
	ca, cb := s.cells[a], s.cells[b]
	if ca.layout.Size != cb.layout.Size {
		// Offsets never change once allocated; a size mismatch between the
		// two registers being swapped would corrupt neighboring cells, so
		// this is an invariant the VM front-end must uphold (registers are
		// always defined with the declared type's own layout).
		return ErrTypeMismatch
	}
	abytes := make([]byte, ca.layout.Size)
	copy(abytes, s.cellBytes(&ca))
	bbytes := make([]byte, cb.layout.Size)
	copy(bbytes, s.cellBytes(&cb))

	s.cells[a].typeHash, s.cells[b].typeHash = cb.typeHash, ca.typeHash
	s.cells[a].layout, s.cells[b].layout = cb.layout, ca.layout
	s.cells[a].finalizer, s.cells[b].finalizer = cb.finalizer, ca.finalizer
	s.cells[a].valid, s.cells[b].valid = cb.valid, ca.valid

	copy(s.cellBytes(&s.cells[a]), bbytes)
	copy(s.cellBytes(&s.cells[b]), abytes)
	return nil
}

// Visit walks every cell bottom-to-top, reporting its type hash, layout,
// live bytes, byte range, and (for registers) validity. Used by debuggers.
func (s *DataStack) Visit(f func(typeHash TypeHash, layout Layout, bytes []byte, byteRange [2]uintptr, valid bool)) {
	for i := range s.cells {
		c := &s.cells[i]
		f(c.typeHash, c.layout, s.cellBytes(c), [2]uintptr{c.offset, c.offset + c.layout.Size}, c.valid)
	}
}
