// Package data implements the type-erased, byte-level storage the core runs
// on: memory layouts, stable type fingerprints, the typed LIFO byte stack
// used for both the value stack and the register file, and a page-allocating
// heap for values that must outlive the scope that created them.
package data

import "unsafe"

// Layout describes the size and alignment of a value's in-memory
// representation. Both fields must be non-zero for any value actually
// stored on a stack or inside an object.
type Layout struct {
	Size  uintptr
	Align uintptr
}

// Valid reports whether the layout could back a real value: non-zero size
// and alignment, with size a multiple of alignment (as it would be after the
// compiler pads a struct to its alignment).
func (l Layout) Valid() bool {
	return l.Size > 0 && l.Align > 0 && l.Size%l.Align == 0
}

// NativeLayout computes the layout of a Go type the way the runtime lays it
// out, for use as a native type descriptor's layout.
func NativeLayout[T any]() Layout {
	var zero T
	return Layout{
		Size:  unsafe.Sizeof(zero),
		Align: uintptr(unsafe.Alignof(zero)),
	}
}

// AlignUp rounds n up to the next multiple of align. align must be a power
// of two greater than zero.
func AlignUp(n, align uintptr) uintptr {
	if align <= 1 {
		return n
	}
	return (n + align - 1) &^ (align - 1)
}

// PackFields computes field byte offsets by greedy packing: each field is
// placed at the next offset aligned to its own requirement, in the order
// given. It returns the offsets (matching the input order) and the overall
// layout, whose size is rounded up to the largest field alignment so the
// type tiles correctly in arrays.
func PackFields(fields []Layout) (offsets []uintptr, overall Layout) {
	offsets = make([]uintptr, len(fields))
	var cursor uintptr
	var maxAlign uintptr = 1
	for i, f := range fields {
		if f.Align > maxAlign {
			maxAlign = f.Align
		}
		cursor = AlignUp(cursor, f.Align)
		offsets[i] = cursor
		cursor += f.Size
	}
	size := AlignUp(cursor, maxAlign)
	if size == 0 {
		size = maxAlign
	}
	return offsets, Layout{Size: size, Align: maxAlign}
}
