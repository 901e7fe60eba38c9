package metrics

import (
	"fmt"
	"time"
)

// Clock returns a monotonic reading; only differences between readings are meaningful.
type Clock interface {
	Now() time.Duration
	Name() string
}

// WallClock measures elapsed wall time.
type WallClock struct {
	origin time.Time
}

// NewWallClock returns a wall clock anchored at the current instant.
func NewWallClock() *WallClock {
	return &WallClock{origin: time.Now()}
}

func (c *WallClock) Now() time.Duration { return time.Since(c.origin) }
func (c *WallClock) Name() string       { return "wall" }

// CPUClock measures user+system CPU time of the process, like C clock().
type CPUClock struct{}

func (CPUClock) Now() time.Duration {
	d, _ := processCPUTime()
	return d
}

func (CPUClock) Name() string { return "cpu" }

// ParseClock maps "cpu" or "wall" to a Clock. "cpu" degrades to the wall
// clock on platforms without a process CPU counter.
func ParseClock(name string) (Clock, error) {
	switch name {
	case "wall":
		return NewWallClock(), nil
	case "", "cpu":
		if _, ok := processCPUTime(); ok {
			return CPUClock{}, nil
		}
		return NewWallClock(), nil
	}
	return nil, fmt.Errorf("unknown clock %q (want cpu|wall)", name)
}

// Since returns the non-negative time elapsed on c since start.
func Since(c Clock, start time.Duration) time.Duration {
	if d := c.Now() - start; d > 0 {
		return d
	}
	return 0
}
