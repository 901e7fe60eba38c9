package arraytree

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/ic-timon/arraytree/arraytree/store"
)

// writeChunkSlots bounds the staging buffer used when writing slots.
const writeChunkSlots = 1 << 16

// NewTreeFromFile loads a tree from file (mmap). cfg may be nil to use DefaultConfig().
// The returned tree is read-only; call Close (or ClosePersisted) when done.
func NewTreeFromFile(path string, cfg *Config) (*Tree, error) {
	c := *cfg.OrDefault()
	c.PersistPath = path
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	return NewTree(&c)
}

// SaveToAtomic writes the tree to a file atomically (write to path+".tmp", then rename).
// On Windows, the target must not exist for Rename to succeed; remove it first.
func (t *Tree) SaveToAtomic(path string) error {
	err := t.saveToAtomic(path)
	t.log.LogSave(context.Background(), path, err)
	return err
}

// SaveTo writes the tree to a file. The tree must not be modified during save.
// A tree loaded from a file always saves through a temp file and rename, so
// the mapped file is never truncated underneath it.
func (t *Tree) SaveTo(path string) error {
	var err error
	if t.persistedStore != nil {
		err = t.saveToAtomic(path)
	} else {
		err = t.saveTo(path)
	}
	t.log.LogSave(context.Background(), path, err)
	return err
}

func (t *Tree) saveToAtomic(path string) error {
	tmp := path + ".tmp"
	if err := t.saveTo(tmp); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	_ = os.Remove(path) // ignore error if not exists
	return os.Rename(tmp, path)
}

func (t *Tree) saveTo(path string) error {
	d := t.slots.Data()
	dataStart := store.AlignUp(store.HeaderSize, store.PageAlign)
	h := &store.Header{
		Capacity:   uint64(len(d)),
		Size:       uint64(t.size),
		HighWater:  uint64(t.highWater),
		DataOffset: uint64(dataStart),
	}
	headerBytes, err := store.EncodeHeader(h)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriterSize(f, writeChunkSlots*store.SlotBytes)
	if _, err := w.Write(headerBytes); err != nil {
		return err
	}
	// Pad to dataStart (4KB aligned)
	if pad := dataStart - int64(len(headerBytes)); pad > 0 {
		if _, err := w.Write(make([]byte, pad)); err != nil {
			return err
		}
	}
	buf := make([]byte, 0, writeChunkSlots*store.SlotBytes)
	for off := 0; off < len(d); off += writeChunkSlots {
		end := min(off+writeChunkSlots, len(d))
		buf = store.EncodeSlots(buf[:0], d[off:end])
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return f.Sync()
}

// LoadFrom replaces the tree's storage with a read-only mmap view of the file
// at path. Caller must call ClosePersisted (or Close) when done.
func (t *Tree) LoadFrom(path string) error {
	err := t.loadFrom(path)
	capacity := 0
	if err == nil {
		capacity = t.slots.Len()
	}
	t.log.LogLoad(context.Background(), path, capacity, err)
	return err
}

func (t *Tree) loadFrom(path string) error {
	slotStore, err := store.OpenMmap(path)
	if err != nil {
		return err
	}

	data := slotStore.Bytes()
	if len(data) < store.HeaderSize {
		slotStore.Close()
		return errors.New("tree file too small")
	}
	h, err := store.DecodeHeader(data[:store.HeaderSize])
	if err != nil {
		slotStore.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := validateHeader(h); err != nil {
		slotStore.Close()
		return fmt.Errorf("%s: %w", path, err)
	}

	dataEnd := h.DataOffset + h.Capacity*store.SlotBytes
	if uint64(len(data)) < dataEnd {
		slotStore.Close()
		return fmt.Errorf("%s: tree file truncated", path)
	}
	view := slotStore.SlotView(int64(h.DataOffset), int(h.Capacity))
	if view == nil {
		slotStore.Close()
		return fmt.Errorf("%s: slot data not addressable", path)
	}

	if t.slots != nil {
		t.slots.Close()
	}
	if t.persistedStore != nil {
		t.persistedStore.Close()
	}
	t.slots = &mmapSlots{view: view}
	t.size = int(h.Size)
	t.highWater = int(h.HighWater)
	t.readOnly = true
	t.persistedStore = slotStore
	t.cfg.Capacity = int(h.Capacity)
	return nil
}

func validateHeader(h *store.Header) error {
	if h.Capacity < minCapacity || h.Capacity > MaxCapacity {
		return fmt.Errorf("%w: %d", ErrInvalidCapacity, h.Capacity)
	}
	if h.HighWater >= h.Capacity {
		return fmt.Errorf("high water %d beyond capacity %d", h.HighWater, h.Capacity)
	}
	if h.Size > MaxSize || (h.Size > 0 && uint64(RightChild(int(h.Size))) > h.HighWater) {
		return fmt.Errorf("%w: %d", ErrInvalidSize, h.Size)
	}
	return nil
}

// ClosePersisted releases the mmap for a tree loaded via LoadFrom. No-op if not loaded from file.
func (t *Tree) ClosePersisted() error {
	if t.persistedStore != nil {
		err := t.persistedStore.Close()
		t.persistedStore = nil
		if t.slots != nil {
			t.slots.Close()
		}
		return err
	}
	return nil
}
