package sequence

import "sync/atomic"

// Sequencer hands out strictly monotonic arrival sequence numbers. The
// book uses them as the time half of its (price, seq) sort key, so FIFO
// at equal price is explicit rather than a by-product of a stable sort.
type Sequencer struct {
	next atomic.Uint64
}

func New() *Sequencer {
	return &Sequencer{}
}

// Next returns the next arrival sequence number, starting from 1.
func (s *Sequencer) Next() uint64 {
	return s.next.Add(1)
}

// Current returns the last issued sequence number.
func (s *Sequencer) Current() uint64 {
	return s.next.Load()
}
