package store

// SlotStore provides read-only access to persisted slots.
type SlotStore interface {
	// SlotView returns an []int32 view of n slots starting at the given file offset.
	// The slice is valid until Close is called. Caller must not modify it.
	SlotView(offset int64, n int) []int32
	// Bytes returns the full mapped file as []byte, or nil if not available.
	Bytes() []byte
	// Close releases resources (e.g. unmaps the file).
	Close() error
}
