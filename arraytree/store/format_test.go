package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeader_EncodeDecode(t *testing.T) {
	h := &Header{Capacity: 1024, Size: 7, HighWater: 15, DataOffset: PageAlign}
	b, err := EncodeHeader(h)
	require.NoError(t, err)
	assert.Len(t, b, HeaderSize)

	got, err := DecodeHeader(b)
	require.NoError(t, err)
	assert.Equal(t, Magic, string(got.Magic[:]))
	assert.Equal(t, FormatVersion, got.Version)
	assert.Equal(t, uint16(SlotBytes), got.SlotBytes)
	assert.Equal(t, uint64(1024), got.Capacity)
	assert.Equal(t, uint64(7), got.Size)
	assert.Equal(t, uint64(15), got.HighWater)
	assert.Equal(t, uint64(PageAlign), got.DataOffset)
}

func TestHeader_DecodeErrors(t *testing.T) {
	_, err := DecodeHeader(make([]byte, 10))
	assert.ErrorIs(t, err, ErrHeaderTooShort)

	_, err = DecodeHeader(make([]byte, HeaderSize))
	assert.ErrorIs(t, err, ErrInvalidMagic)

	b, err := EncodeHeader(&Header{})
	require.NoError(t, err)
	b[4] = 9 // version low byte
	_, err = DecodeHeader(b)
	assert.ErrorIs(t, err, ErrUnsupportedVersion)

	b, err = EncodeHeader(&Header{})
	require.NoError(t, err)
	b[6] = 8 // slot width low byte
	_, err = DecodeHeader(b)
	assert.ErrorIs(t, err, ErrSlotWidth)
}

func TestAlignUp(t *testing.T) {
	assert.Equal(t, int64(0), AlignUp(0, PageAlign))
	assert.Equal(t, int64(PageAlign), AlignUp(1, PageAlign))
	assert.Equal(t, int64(PageAlign), AlignUp(PageAlign, PageAlign))
	assert.Equal(t, int64(2*PageAlign), AlignUp(PageAlign+1, PageAlign))
}

func TestMmapSlotStore_SlotView(t *testing.T) {
	slots := []int32{0, 1, 2, 3, -4, 5}
	path := filepath.Join(t.TempDir(), "slots.bin")
	require.NoError(t, os.WriteFile(path, EncodeSlots(nil, slots), 0644))

	s, err := OpenMmap(path)
	require.NoError(t, err)
	defer s.Close()

	assert.Len(t, s.Bytes(), len(slots)*SlotBytes)
	assert.Equal(t, slots, s.SlotView(0, len(slots)))
	assert.Equal(t, slots[2:], s.SlotView(2*SlotBytes, 4))
	assert.Nil(t, s.SlotView(0, len(slots)+1), "view past end")
	assert.Nil(t, s.SlotView(1, 1), "unaligned offset")
	assert.Nil(t, s.SlotView(-4, 1))
}
