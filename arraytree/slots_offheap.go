//go:build cgo

package arraytree

/*
#include <stdlib.h>
*/
import "C"

import (
	"runtime"
	"unsafe"
)

// offheapSlots is a slot array allocated with C.calloc, outside the GC heap.
type offheapSlots struct {
	ptr unsafe.Pointer
	n   int
}

func newOffheapSlots(capacity int) *offheapSlots {
	if capacity <= 0 {
		return nil
	}
	ptr := C.calloc(C.size_t(capacity), C.size_t(4)) // sizeof(int32)
	if ptr == nil {
		return nil
	}
	s := &offheapSlots{ptr: unsafe.Pointer(ptr), n: capacity}
	runtime.SetFinalizer(s, (*offheapSlots).Close)
	return s
}

func (s *offheapSlots) Len() int { return s.n }

// Data returns a slice view of the off-heap memory.
func (s *offheapSlots) Data() []int32 {
	if s.ptr == nil {
		return nil
	}
	return unsafe.Slice((*int32)(s.ptr), s.n)
}

// Close frees the C.calloc-allocated memory.
func (s *offheapSlots) Close() {
	if s.ptr != nil {
		C.free(s.ptr)
		s.ptr = nil
		s.n = 0
	}
	runtime.SetFinalizer(s, nil)
}

// allocSlotsOffheap allocates off-heap slots (only present in CGO builds).
func allocSlotsOffheap(capacity int) Slots {
	if s := newOffheapSlots(capacity); s != nil {
		return s
	}
	return nil
}
