package account

import "sync/atomic"

// FirstNumber is the number given to the first account opened.
const FirstNumber = 1001

// Sequence hands out account numbers in opening order.
type Sequence struct {
	last atomic.Int64
}

// NewSequence returns a sequence starting at FirstNumber.
func NewSequence() *Sequence {
	s := &Sequence{}
	s.last.Store(FirstNumber - 1)
	return s
}

// Next returns the next unused account number.
func (s *Sequence) Next() int {
	return int(s.last.Add(1))
}
