//go:build !cgo

package arraytree

// allocSlotsOffheap returns nil when CGO is disabled, falling back to heap slots.
func allocSlotsOffheap(capacity int) Slots {
	return nil
}
