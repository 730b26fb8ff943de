package data

import "unsafe"

// DefaultPageSize is the page size new Heap values use unless configured
// otherwise.
const DefaultPageSize = 64 * 1024

// Heap is a page-allocating arena for values that must outlive the scope
// that created them. Pages are bump-allocated and never relocated or freed
// individually, so a pointer returned by Alloc stays valid for the Heap's
// whole lifetime - callers may safely retain it past the allocating frame.
type Heap struct {
	pageSize uintptr
	pages    [][]byte
	cursor   uintptr
}

// NewHeap creates an empty heap that allocates pages of pageSize bytes (or
// DefaultPageSize if zero).
func NewHeap(pageSize uintptr) *Heap {
	if pageSize == 0 {
		pageSize = DefaultPageSize
	}
	return &Heap{pageSize: pageSize}
}

// Alloc reserves layout.Size bytes aligned to layout.Align and returns a
// stable pointer to them, zero-filled. It allocates a fresh page when the
// current page lacks room, or an oversized dedicated page when layout is
// larger than the configured page size.
func (h *Heap) Alloc(layout Layout) unsafe.Pointer {
	if len(h.pages) == 0 || !h.fits(layout) {
		h.growFor(layout)
	}
	page := h.pages[len(h.pages)-1]
	offset := AlignUp(h.cursor, layout.Align)
	h.cursor = offset + layout.Size
	return unsafe.Pointer(&page[offset])
}

func (h *Heap) fits(layout Layout) bool {
	page := h.pages[len(h.pages)-1]
	offset := AlignUp(h.cursor, layout.Align)
	return offset+layout.Size <= uintptr(len(page))
}

func (h *Heap) growFor(layout Layout) {
	size := h.pageSize
	if layout.Size > size {
		size = layout.Size
	}
	h.pages = append(h.pages, make([]byte, size))
	h.cursor = 0
}

// PageCount reports how many pages have been allocated, for diagnostics and
// tests.
func (h *Heap) PageCount() int {
	return len(h.pages)
}
