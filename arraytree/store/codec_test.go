package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countingBytes(n int) []byte {
	slots := make([]int32, n)
	for i := 1; i < n; i++ {
		slots[i] = int32(i)
	}
	return EncodeSlots(nil, slots)
}

func TestCompressBlock_RoundTrip(t *testing.T) {
	data := countingBytes(4096)
	for _, c := range []Compression{CompressionNone, CompressionLZ4, CompressionZSTD} {
		t.Run(c.String(), func(t *testing.T) {
			block, err := CompressBlock(data, c)
			require.NoError(t, err)
			got, err := DecompressBlock(block, c)
			require.NoError(t, err)
			assert.Equal(t, data, got)
		})
	}
}

func TestCompressBlock_ZeroRunsShrink(t *testing.T) {
	data := make([]byte, 64*1024)
	block, err := CompressBlock(data, CompressionZSTD)
	require.NoError(t, err)
	assert.Less(t, len(block), len(data)/10)
}

func TestCompressBlock_Incompressible(t *testing.T) {
	data := []byte{1, 2, 3}
	block, err := CompressBlock(data, CompressionLZ4)
	require.NoError(t, err)
	assert.Len(t, block, BlockHeaderSize+len(data), "stored raw")
	got, err := DecompressBlock(block, CompressionLZ4)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestDecompressBlock_Truncated(t *testing.T) {
	_, err := DecompressBlock([]byte{1, 2}, CompressionZSTD)
	assert.ErrorIs(t, err, ErrBlockTooSmall)

	block, err := CompressBlock(make([]byte, 4096), CompressionZSTD)
	require.NoError(t, err)
	_, err = DecompressBlock(block[:len(block)-1], CompressionZSTD)
	assert.ErrorIs(t, err, ErrBlockTooSmall)
}

func TestParseCompression(t *testing.T) {
	for _, c := range []Compression{CompressionNone, CompressionLZ4, CompressionZSTD} {
		got, err := ParseCompression(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
	_, err := ParseCompression("brotli")
	assert.Error(t, err)
}

func TestEncodeDecodeSlots(t *testing.T) {
	slots := []int32{0, 1, -1, 1 << 30, -(1 << 31)}
	b := EncodeSlots(nil, slots)
	assert.Len(t, b, len(slots)*SlotBytes)
	dst := make([]int32, len(slots))
	assert.Equal(t, len(slots), DecodeSlots(dst, b))
	assert.Equal(t, slots, dst)
}
