package store

import (
	"os"
	"unsafe"

	"github.com/edsrzf/mmap-go"
)

// MmapSlotStore is a SlotStore backed by an mmap'd file.
type MmapSlotStore struct {
	f    *os.File
	data mmap.MMap
}

// OpenMmap opens a file and returns a read-only SlotStore.
func OpenMmap(path string) (SlotStore, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &MmapSlotStore{f: f, data: m}, nil
}

// Bytes returns the full mapped file.
func (s *MmapSlotStore) Bytes() []byte {
	return s.data
}

// SlotView returns an []int32 view of n slots at offset.
// Slots are stored little-endian; the view assumes a little-endian host.
func (s *MmapSlotStore) SlotView(offset int64, n int) []int32 {
	if s.data == nil || n <= 0 {
		return nil
	}
	if offset < 0 || offset%SlotBytes != 0 || offset+int64(n)*SlotBytes > int64(len(s.data)) {
		return nil
	}
	ptr := unsafe.Pointer(&s.data[offset])
	return unsafe.Slice((*int32)(ptr), n)
}

// Close unmaps the file and closes it.
func (s *MmapSlotStore) Close() error {
	if s.data != nil {
		if err := s.data.Unmap(); err != nil {
			return err
		}
		s.data = nil
	}
	if s.f != nil {
		err := s.f.Close()
		s.f = nil
		return err
	}
	return nil
}
