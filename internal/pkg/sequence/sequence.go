// Package sequence provides the id counters owned by each registry.
package sequence

import "sync"

// Sequence hands out strictly increasing ids starting at the configured value.
type Sequence struct {
	mu   sync.Mutex
	next int64
}

func New(start int64) *Sequence {
	return &Sequence{next: start}
}

// Next returns the current value and advances the counter.
func (s *Sequence) Next() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.next
	s.next++
	return id
}
