package arraytree

import "github.com/ic-timon/arraytree/scan"

// Contains reports whether target is stored anywhere in the populated range
// [0, HighWater()]. The scan is linear in index order and ignores the tree
// shape. Sentinel is never a stored key, so Contains(Sentinel) is false.
func (t *Tree) Contains(target int32) bool {
	return t.IndexOf(target) >= 0
}

// IndexOf returns the lowest index holding target, or -1.
func (t *Tree) IndexOf(target int32) int {
	return t.indexWithin(target, t.highWater)
}

// ContainsWithin scans [0, upto] inclusive, clamped to capacity. With
// upto == Size() it reproduces the reference benchmark's scan bound, which
// stops short of the right half of the written slots.
func (t *Tree) ContainsWithin(target int32, upto int) bool {
	return t.indexWithin(target, upto) >= 0
}

func (t *Tree) indexWithin(target int32, upto int) int {
	if target == Sentinel || upto < 0 {
		return -1
	}
	d := t.slots.Data()
	if len(d) == 0 {
		return -1
	}
	upto = min(upto, len(d)-1)
	return scan.IndexOf(d[:upto+1], target)
}
