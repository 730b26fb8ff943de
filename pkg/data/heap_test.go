package data_test

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"

	"github.com/PsichiX/Intuicio-sub002/pkg/data"
)

func TestHeapAllocStable(t *testing.T) {
	heap := data.NewHeap(64)
	layout := data.NativeLayout[int64]()

	ptr := heap.Alloc(layout)
	*(*int64)(ptr) = 42
	assert.Equal(t, int64(42), *(*int64)(ptr))

	// Allocating more does not relocate the first pointer.
	for i := 0; i < 8; i++ {
		heap.Alloc(layout)
	}
	assert.Equal(t, int64(42), *(*int64)(ptr))
}

func TestHeapGrowsForOversizedValue(t *testing.T) {
	heap := data.NewHeap(16)
	layout := data.Layout{Size: 256, Align: 8}

	ptr := heap.Alloc(layout)
	assert.NotEqual(t, unsafe.Pointer(nil), ptr)
	assert.Equal(t, 1, heap.PageCount())
}

func TestHeapAlignment(t *testing.T) {
	heap := data.NewHeap(64)
	_ = heap.Alloc(data.Layout{Size: 1, Align: 1})
	ptr := heap.Alloc(data.Layout{Size: 8, Align: 8})
	assert.Equal(t, uintptr(0), uintptr(ptr)%8)
}
