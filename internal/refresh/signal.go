// Package refresh holds the manual refresh counter: a coarse "re-check
// everything" trigger for live queries that may have missed a change
// notification.
package refresh

import (
	"sync"
	"sync/atomic"
)

// Signal is a monotonically increasing counter starting at 0. Queries that
// depend on it subscribe explicitly; there is no package-level instance.
type Signal struct {
	version atomic.Uint64

	mu   sync.Mutex
	subs map[uint64]chan uint64
	next uint64
}

func New() *Signal {
	return &Signal{subs: make(map[uint64]chan uint64)}
}

func (s *Signal) Version() uint64 {
	return s.version.Load()
}

// Bump increments the counter and notifies every subscriber. It returns the
// new value.
func (s *Signal) Bump() uint64 {
	v := s.version.Add(1)

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subs {
		// Keep only the latest value pending; a subscriber behind by several
		// bumps needs to re-run once.
		select {
		case <-ch:
		default:
		}
		ch <- v
	}
	return v
}

// Subscribe delivers each new counter value. cancel closes the channel.
func (s *Signal) Subscribe() (<-chan uint64, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.next
	s.next++
	ch := make(chan uint64, 1)
	s.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs, id)
			close(ch)
		})
	}
}
