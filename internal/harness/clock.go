package harness

import "sync/atomic"

// Clock stamps stage transitions with strictly increasing sequence numbers.
type Clock interface {
	Next() int64
}

// logicalClock is the default Clock, starting at 1.
type logicalClock struct {
	seq atomic.Int64
}

func (c *logicalClock) Next() int64 {
	return c.seq.Add(1)
}
