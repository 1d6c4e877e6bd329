package sequence

import "sync/atomic"

// Sequencer numbers the operations of a run. IDs are strictly
// increasing and start after the value given to New, so a run seeded
// the same way numbers its operations the same way.
type Sequencer struct {
	start uint64
	last  atomic.Uint64
}

// New creates a sequencer whose first ID is start+1.
func New(start uint64) *Sequencer {
	s := &Sequencer{start: start}
	s.last.Store(start)
	return s
}

// Next issues the next operation ID.
func (s *Sequencer) Next() uint64 {
	return s.last.Add(1)
}

// Current returns the last issued ID, or the start value if none was
// issued.
func (s *Sequencer) Current() uint64 {
	return s.last.Load()
}

// Issued is the number of IDs handed out since New. A run reports it as
// its operation count.
func (s *Sequencer) Issued() uint64 {
	return s.last.Load() - s.start
}
