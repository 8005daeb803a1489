package memory

import "sync/atomic"

// IDGenerator hands out record identifiers. Implementations must never return
// the same value twice.
type IDGenerator interface {
	Next() int64
}

// Counter is a monotonic IDGenerator starting at 1.
type Counter struct {
	last atomic.Int64
}

// NewCounter returns a counter whose first id is 1.
func NewCounter() *Counter { return &Counter{} }

// Next returns the next identifier.
func (c *Counter) Next() int64 { return c.last.Add(1) }

// IDFunc adapts a function to IDGenerator.
type IDFunc func() int64

// Next calls f.
func (f IDFunc) Next() int64 { return f() }
