package inmem

import (
	"context"
	"sync"
)

// Signal is a trigger delivered to everyone waiting at the time it fires. A trigger nobody is
// waiting for is dropped.
type Signal struct {
	mu      sync.Mutex
	ch      chan struct{}
	waiting int
}

// NewSignal returns a signal with no waiters.
func NewSignal() *Signal {
	return &Signal{ch: make(chan struct{})}
}

// Wait blocks until the next Trigger or until ctx is done.
func (s *Signal) Wait(ctx context.Context) error {
	s.mu.Lock()
	ch := s.ch
	s.waiting++
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		// a trigger already zeroed the count for this round
		if s.ch == ch {
			s.waiting--
		}
		s.mu.Unlock()
	}()

	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Trigger wakes every current waiter and returns how many there were.
func (s *Signal) Trigger() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	woken := s.waiting
	close(s.ch)
	s.ch = make(chan struct{})
	s.waiting = 0
	return woken
}

// Waiting returns the number of callers blocked in Wait.
func (s *Signal) Waiting() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.waiting
}
