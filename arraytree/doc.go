// Package arraytree provides a fixed-capacity int32 store addressed as an
// implicit complete binary tree: slot i has children 2i and 2i+1, the root
// lives at slot 1 and slot 0 is unused. A slot holding Sentinel (0) is
// unoccupied.
//
// Quick start:
//
//	cfg := arraytree.DefaultConfig()
//	cfg.Capacity = 1 << 20
//	t, err := arraytree.NewTree(cfg)
//	if err != nil { ... }
//	defer t.Close()
//	err = t.Build(1000)          // slot i == i for i in [1, 2001]
//	found := t.Contains(2001)
//
// A built tree can be saved with SaveToAtomic and reopened read-only via mmap
// with NewTreeFromFile, or exported as a compressed snapshot with WriteSnapshot.
package arraytree
