package arraytree

import (
	"context"
	"fmt"
	"math"
	"os"
	"time"
)

const (
	// Sentinel marks an unoccupied slot.
	Sentinel int32 = 0
	// RootIndex is the slot of the root node. Slot 0 is never written.
	RootIndex = 1
	// MaxSize is the largest build size whose keys (up to 2*size+1) fit in int32.
	MaxSize = (math.MaxInt32 - 1) / 2
	// MaxCapacity is one past the last slot a build of MaxSize can reach.
	MaxCapacity = 2*MaxSize + 2
)

// LeftChild returns the implicit index of i's left child.
func LeftChild(i int) int { return 2 * i }

// RightChild returns the implicit index of i's right child.
func RightChild(i int) int { return 2*i + 1 }

// Parent returns the implicit index of i's parent (0 for the root).
func Parent(i int) int { return i / 2 }

// Tree is a fixed-capacity slot array addressed as an implicit binary tree.
// Build and the setters are single-writer; searches are safe for concurrent
// use once writes have finished.
type Tree struct {
	cfg            *Config
	slots          Slots
	size           int
	highWater      int
	readOnly       bool
	searchPool     *scanPool
	persistedStore interface{ Close() error } // set by LoadFrom, used by ClosePersisted
	log            *Logger
}

// NewTree creates a tree. Uses default config if cfg is nil.
// If cfg.PersistPath is non-empty and the file exists, loads from file (mmap, read-only).
// Otherwise allocates Capacity zeroed slots.
func NewTree(cfg *Config) (*Tree, error) {
	cfg = cfg.OrDefault()
	if cfg.Capacity < minCapacity || int64(cfg.Capacity) > MaxCapacity {
		return nil, fmt.Errorf("%w: %d (need %d..%d)", ErrInvalidCapacity, cfg.Capacity, minCapacity, int64(MaxCapacity))
	}
	t := &Tree{cfg: cfg, log: cfg.Logger}
	if t.log == nil {
		t.log = NoopLogger()
	}
	if cfg.PersistPath != "" {
		if _, err := os.Stat(cfg.PersistPath); err == nil {
			if err := t.LoadFrom(cfg.PersistPath); err != nil {
				return nil, err
			}
			t.start()
			return t, nil
		}
	}
	t.slots = allocSlots(cfg.Capacity, cfg.UseOffheap)
	t.start()
	return t, nil
}

func (t *Tree) start() {
	t.log = t.log.WithCapacity(t.slots.Len())
	t.startSearchPool()
}

func (t *Tree) startSearchPool() {
	if t.cfg.SearchWorkers > 0 {
		t.searchPool = newScanPool(t.cfg.SearchWorkers, 64)
	}
}

// Config returns the current configuration.
func (t *Tree) Config() *Config {
	return t.cfg
}

// Capacity returns the number of slots, including the unused slot 0.
func (t *Tree) Capacity() int {
	return t.slots.Len()
}

// Size returns the size passed to the last successful Build.
func (t *Tree) Size() int {
	return t.size
}

// HighWater returns the highest slot index ever written (0 for an empty tree).
func (t *Tree) HighWater() int {
	return t.highWater
}

// ReadOnly reports whether the tree is backed by a persisted file.
func (t *Tree) ReadOnly() bool {
	return t.readOnly
}

// Slot returns the value stored at index i.
func (t *Tree) Slot(i int) (int32, error) {
	d := t.slots.Data()
	if i < 0 || i >= len(d) {
		return 0, &OutOfBoundsError{Index: i, Capacity: len(d)}
	}
	return d[i], nil
}

// Occupied returns the number of slots not holding Sentinel.
func (t *Tree) Occupied() int {
	n := 0
	for _, v := range t.slots.Data()[:t.highWater+1] {
		if v != Sentinel {
			n++
		}
	}
	return n
}

func (t *Tree) checkWrite(key int32) error {
	if t.readOnly {
		return ErrReadOnly
	}
	if key == Sentinel {
		return ErrSentinelKey
	}
	return nil
}

func (t *Tree) mark(i int) {
	if i > t.highWater {
		t.highWater = i
	}
}

// SetRoot writes key into the root slot. Fails with ErrAlreadyInitialized if
// the root is occupied; storage is left unchanged on any error.
func (t *Tree) SetRoot(key int32) error {
	if err := t.checkWrite(key); err != nil {
		return err
	}
	d := t.slots.Data()
	if d[RootIndex] != Sentinel {
		return ErrAlreadyInitialized
	}
	d[RootIndex] = key
	t.mark(RootIndex)
	return nil
}

// SetLeft writes key into the left child of parent.
func (t *Tree) SetLeft(key int32, parent int) error {
	return t.setChild(key, parent, LeftChild)
}

// SetRight writes key into the right child of parent.
func (t *Tree) SetRight(key int32, parent int) error {
	return t.setChild(key, parent, RightChild)
}

func (t *Tree) setChild(key int32, parent int, child func(int) int) error {
	if err := t.checkWrite(key); err != nil {
		return err
	}
	d := t.slots.Data()
	if parent < 0 || parent >= len(d) {
		return &OutOfBoundsError{Index: parent, Capacity: len(d)}
	}
	if d[parent] == Sentinel {
		return ErrParentNotFound
	}
	c := child(parent)
	if c >= len(d) {
		return &OutOfBoundsError{Index: c, Capacity: len(d)}
	}
	d[c] = key
	t.mark(c)
	return nil
}

// Build sets the root to 1 and then, for every parent in [1, size], sets its
// left child to 2*parent and its right child to 2*parent+1, leaving slot i
// holding i for all i in [1, 2*size+1]. The whole range is bounds-checked up
// front; the first failing write aborts the build and is returned.
func (t *Tree) Build(size int) error {
	start := time.Now()
	err := t.build(size)
	t.log.LogBuild(context.Background(), size, time.Since(start), err)
	return err
}

func (t *Tree) build(size int) error {
	if t.readOnly {
		return ErrReadOnly
	}
	if size < 0 || size > MaxSize {
		return fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	if last := RightChild(size); last >= t.slots.Len() {
		return fmt.Errorf("build %d: %w", size, &OutOfBoundsError{Index: last, Capacity: t.slots.Len()})
	}
	if err := t.SetRoot(RootIndex); err != nil {
		return fmt.Errorf("build %d: %w", size, err)
	}
	for p := 1; p <= size; p++ {
		if err := t.SetLeft(int32(LeftChild(p)), p); err != nil {
			return fmt.Errorf("build %d: left of %d: %w", size, p, err)
		}
		if err := t.SetRight(int32(RightChild(p)), p); err != nil {
			return fmt.Errorf("build %d: right of %d: %w", size, p, err)
		}
	}
	t.size = size
	return nil
}

// Close stops the scan pool and releases the slot storage. It must not run
// concurrently with searches, and the tree must not be used afterwards.
func (t *Tree) Close() error {
	if t.searchPool != nil {
		t.searchPool.Close()
		t.searchPool = nil
	}
	if t.persistedStore != nil {
		return t.ClosePersisted()
	}
	if t.slots != nil {
		t.slots.Close()
	}
	return nil
}
