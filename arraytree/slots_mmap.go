package arraytree

// mmapSlots is a read-only view over an mmap'd persist file.
// The store that owns the mapping is closed by Tree.ClosePersisted.
type mmapSlots struct {
	view []int32
}

func (s *mmapSlots) Len() int      { return len(s.view) }
func (s *mmapSlots) Data() []int32 { return s.view }
func (s *mmapSlots) Close()        { s.view = nil }
