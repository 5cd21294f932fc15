package sequence

import "sync/atomic"

// Sequencer hands out strictly increasing uint64 values. The engine
// owns one instance for order ids and one for arrival ticks, so
// multiple engines (one per instrument) stay independent.
type Sequencer struct {
	next atomic.Uint64
}

// New creates a sequencer whose first Next() returns start+1.
func New(start uint64) *Sequencer {
	s := &Sequencer{}
	s.next.Store(start)
	return s
}

// Next returns the next value.
func (s *Sequencer) Next() uint64 {
	return s.next.Add(1)
}

// Current returns the last issued value.
func (s *Sequencer) Current() uint64 {
	return s.next.Load()
}
