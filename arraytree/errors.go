package arraytree

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadyInitialized is returned when the root is set a second time.
	ErrAlreadyInitialized = errors.New("root already initialized")

	// ErrParentNotFound is returned when a child is set under an unoccupied parent.
	ErrParentNotFound = errors.New("parent not found")

	// ErrOutOfBounds matches every *OutOfBoundsError.
	ErrOutOfBounds = errors.New("index out of bounds")

	// ErrSentinelKey is returned when a key equal to Sentinel is written.
	ErrSentinelKey = errors.New("key equals the unoccupied sentinel")

	// ErrReadOnly is returned when mutating a tree loaded from a file.
	ErrReadOnly = errors.New("tree is read-only")

	// ErrInvalidCapacity is returned for a capacity that cannot hold the root.
	ErrInvalidCapacity = errors.New("invalid capacity")

	// ErrInvalidSize is returned for a negative build size or one whose keys overflow int32.
	ErrInvalidSize = errors.New("invalid build size")
)

// OutOfBoundsError reports an index outside [0, Capacity).
type OutOfBoundsError struct {
	Index    int
	Capacity int
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("index %d out of bounds for capacity %d", e.Index, e.Capacity)
}

// Is makes errors.Is(err, ErrOutOfBounds) hold.
func (e *OutOfBoundsError) Is(target error) bool { return target == ErrOutOfBounds }
