package arraytree

import (
	"context"
	"fmt"
	"io"
	"math"

	"github.com/ic-timon/arraytree/arraytree/store"
)

// WriteSnapshot writes the populated range [0, HighWater] to w as a single
// codec block behind a store.Header. Unlike SaveTo the output is not
// mmap-able; ReadSnapshot restores it into a writable heap tree.
func (t *Tree) WriteSnapshot(w io.Writer, c store.Compression) error {
	err := t.writeSnapshot(w, c)
	t.log.LogSave(context.Background(), "snapshot:"+c.String(), err)
	return err
}

func (t *Tree) writeSnapshot(w io.Writer, c store.Compression) error {
	d := t.slots.Data()
	n := t.highWater + 1
	if uint64(n)*store.SlotBytes > math.MaxUint32 {
		return fmt.Errorf("snapshot of %d slots exceeds block limit", n)
	}
	h := &store.Header{
		Compression: uint8(c),
		Capacity:    uint64(len(d)),
		Size:        uint64(t.size),
		HighWater:   uint64(t.highWater),
		DataOffset:  store.HeaderSize,
	}
	headerBytes, err := store.EncodeHeader(h)
	if err != nil {
		return err
	}
	block, err := store.CompressBlock(store.EncodeSlots(make([]byte, 0, n*store.SlotBytes), d[:n]), c)
	if err != nil {
		return err
	}
	if _, err := w.Write(headerBytes); err != nil {
		return err
	}
	_, err = w.Write(block)
	return err
}

// ReadSnapshot restores a tree written by WriteSnapshot. The capacity recorded
// in the snapshot overrides cfg.Capacity; cfg.PersistPath is ignored.
func ReadSnapshot(r io.Reader, cfg *Config) (*Tree, error) {
	c := *cfg.OrDefault()
	c.PersistPath = ""
	log := c.Logger
	if log == nil {
		log = NoopLogger()
	}
	t, err := readSnapshot(r, &c)
	capacity := 0
	if t != nil {
		capacity = t.Capacity()
	}
	log.LogLoad(context.Background(), "snapshot", capacity, err)
	return t, err
}

func readSnapshot(r io.Reader, cfg *Config) (*Tree, error) {
	hb := make([]byte, store.HeaderSize)
	if _, err := io.ReadFull(r, hb); err != nil {
		return nil, fmt.Errorf("snapshot header: %w", err)
	}
	h, err := store.DecodeHeader(hb)
	if err != nil {
		return nil, err
	}
	if err := validateHeader(h); err != nil {
		return nil, err
	}
	block, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	raw, err := store.DecompressBlock(block, store.Compression(h.Compression))
	if err != nil {
		return nil, fmt.Errorf("snapshot block: %w", err)
	}
	want := (h.HighWater + 1) * store.SlotBytes
	if uint64(len(raw)) != want {
		return nil, fmt.Errorf("snapshot block holds %d bytes, want %d", len(raw), want)
	}

	cfg.Capacity = int(h.Capacity)
	t, err := NewTree(cfg)
	if err != nil {
		return nil, err
	}
	store.DecodeSlots(t.slots.Data(), raw)
	t.size = int(h.Size)
	t.highWater = int(h.HighWater)
	return t, nil
}
