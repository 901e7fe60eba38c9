package arraytree

import (
	"bytes"
	"testing"

	"github.com/ic-timon/arraytree/arraytree/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot_RoundTrip(t *testing.T) {
	tree := builtTree(t, 1<<12, 1500)
	for _, c := range []store.Compression{store.CompressionNone, store.CompressionLZ4, store.CompressionZSTD} {
		t.Run(c.String(), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, tree.WriteSnapshot(&buf, c))

			restored, err := ReadSnapshot(&buf, nil)
			require.NoError(t, err)
			defer restored.Close()

			assert.False(t, restored.ReadOnly())
			assert.Equal(t, tree.Capacity(), restored.Capacity())
			assert.Equal(t, tree.Size(), restored.Size())
			assert.Equal(t, tree.HighWater(), restored.HighWater())
			assert.Equal(t, snapshotSlots(tree), snapshotSlots(restored))
			assert.True(t, restored.Contains(3001))
			assert.ErrorIs(t, restored.SetRoot(1), ErrAlreadyInitialized)
		})
	}
}

func TestSnapshot_EmptyTree(t *testing.T) {
	tree := newTestTree(t, 16)
	var buf bytes.Buffer
	require.NoError(t, tree.WriteSnapshot(&buf, store.CompressionZSTD))
	restored, err := ReadSnapshot(&buf, nil)
	require.NoError(t, err)
	defer restored.Close()
	assert.Equal(t, 0, restored.Occupied())
	require.NoError(t, restored.Build(3))
}

func TestSnapshot_Corrupt(t *testing.T) {
	tree := builtTree(t, 64, 20)
	var buf bytes.Buffer
	require.NoError(t, tree.WriteSnapshot(&buf, store.CompressionNone))
	b := buf.Bytes()

	_, err := ReadSnapshot(bytes.NewReader(b[:10]), nil)
	assert.Error(t, err)

	_, err = ReadSnapshot(bytes.NewReader(b[:len(b)-4]), nil)
	assert.ErrorIs(t, err, store.ErrBlockTooSmall)
}

func TestSnapshot_CapacityTooLarge(t *testing.T) {
	hb, err := store.EncodeHeader(&store.Header{
		Capacity:   1 << 50,
		DataOffset: store.HeaderSize,
	})
	require.NoError(t, err)
	block, err := store.CompressBlock(store.EncodeSlots(nil, []int32{0}), store.CompressionNone)
	require.NoError(t, err)

	_, err = ReadSnapshot(bytes.NewReader(append(hb, block...)), nil)
	assert.ErrorIs(t, err, ErrInvalidCapacity)
}
