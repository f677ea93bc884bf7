package ledger

import "sync/atomic"

// IDAllocator issues strictly increasing transaction identifiers. The zero
// value is ready to use and starts counting from 1.
type IDAllocator struct {
	last atomic.Int64
}

// NewIDAllocator creates an allocator whose first identifier is 1.
func NewIDAllocator() *IDAllocator {
	return &IDAllocator{}
}

// Next increments the counter and returns the new identifier.
func (a *IDAllocator) Next() int64 {
	return a.last.Add(1)
}

// Last returns the most recently issued identifier, 0 if none.
func (a *IDAllocator) Last() int64 {
	return a.last.Load()
}
