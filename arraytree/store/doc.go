// Package store provides the persist file format, the mmap-backed slot store
// and the snapshot block codec for arraytree. It is used internally by
// arraytree.SaveTo, arraytree.LoadFrom and arraytree.ReadSnapshot.
//
// The persist file consists of:
//   - Header (64 bytes): magic, version, slot width, capacity, size, high water
//   - Zero padding up to DataOffset (4 KiB aligned)
//   - Slot data: Capacity little-endian int32 values
//
// A snapshot is the same header followed by one codec block holding the
// slots [0, HighWater].
package store
