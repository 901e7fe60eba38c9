package arraytree

// Slots is the backing storage interface, supporting heap, off-heap and mmap implementations.
type Slots interface {
	// Len returns the number of slots.
	Len() int
	// Data returns the slot array. Writes are only valid for writable backings.
	Data() []int32
	// Close releases resources; no-op for heap slots, C.free for off-heap.
	Close()
}

// heapSlots stores the slot array in Go heap memory.
type heapSlots struct {
	data []int32
}

func newHeapSlots(capacity int) *heapSlots {
	return &heapSlots{data: make([]int32, capacity)}
}

func (s *heapSlots) Len() int      { return len(s.data) }
func (s *heapSlots) Data() []int32 { return s.data }
func (s *heapSlots) Close()        { s.data = nil }

// allocSlots allocates zeroed storage. Uses off-heap when offheap is true and
// CGO is available, otherwise falls back to the heap.
func allocSlots(capacity int, offheap bool) Slots {
	if offheap {
		if s := allocSlotsOffheap(capacity); s != nil {
			return s
		}
	}
	return newHeapSlots(capacity)
}
