package monotonic

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrQueueFull is returned by Arm while a wake-up is still outstanding.
	ErrQueueFull = errors.New("monotonic: a deadline is already armed")
	// ErrInvalidDeadline is returned by Arm for a deadline that does not
	// come after the previously armed one.
	ErrInvalidDeadline = errors.New("monotonic: deadline is not after the previous deadline")
	// ErrDeadlineMissed is returned by Arm when the counter has already
	// reached the deadline.
	ErrDeadlineMissed = errors.New("monotonic: deadline already passed")
	// ErrNotArmed is returned by Next when nothing was armed.
	ErrNotArmed = errors.New("monotonic: no deadline armed")
)

// Scheduler holds at most one pending wake-up for a single recurring task.
//
// The task arms the first deadline, then each call to Next returns the
// scheduled instant and leaves the slot empty until the task arms again.
type Scheduler struct {
	clock Clock

	mu      sync.Mutex
	pending bool
	next    Instant
	last    Instant
}

func NewScheduler(clock Clock) *Scheduler {
	return &Scheduler{clock: clock}
}

func (s *Scheduler) Clock() Clock {
	return s.clock
}

// Arm requests one wake-up at deadline.
func (s *Scheduler) Arm(deadline Instant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending {
		return fmt.Errorf("%w (pending %s, requested %s)", ErrQueueFull, s.next, deadline)
	}
	if deadline <= s.last {
		return fmt.Errorf("%w (previous %s, requested %s)", ErrInvalidDeadline, s.last, deadline)
	}
	if now := s.clock.Now(); now >= deadline {
		return fmt.Errorf("%w (now %s, requested %s, late by %d cycles)", ErrDeadlineMissed, now, deadline, now.Sub(deadline))
	}
	s.pending = true
	s.next = deadline
	s.last = deadline
	return nil
}

// Pending returns the armed deadline, if any.
func (s *Scheduler) Pending() (Instant, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next, s.pending
}

// Next blocks until the armed deadline and returns it. The returned value is
// the scheduled instant, not the time the wait actually ended.
func (s *Scheduler) Next(ctx context.Context) (Instant, error) {
	s.mu.Lock()
	if !s.pending {
		s.mu.Unlock()
		return 0, ErrNotArmed
	}
	deadline := s.next
	s.mu.Unlock()

	if err := s.clock.Wait(ctx, deadline); err != nil {
		return 0, err
	}

	s.mu.Lock()
	s.pending = false
	s.mu.Unlock()
	return deadline, nil
}
