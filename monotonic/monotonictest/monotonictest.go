// Package monotonictest provides a simulated cycle counter for tests.
package monotonictest

import (
	"context"
	"sync"

	"github.com/coreman2200/ledwalk/monotonic"
)

// Clock is a monotonic.Clock that only moves when told to.
//
// Wait does not sleep: it jumps the counter forward to the deadline, so a
// loop driven by it runs as fast as the code under test allows.
type Clock struct {
	mu  sync.Mutex
	now monotonic.Instant
	// Waits counts the calls to Wait that returned without error.
	Waits int
}

func New(start monotonic.Instant) *Clock {
	return &Clock{now: start}
}

func (c *Clock) Now() monotonic.Instant {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the counter forward by d, as if a task body took d cycles.
func (c *Clock) Advance(d monotonic.Cycles) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func (c *Clock) Wait(ctx context.Context, deadline monotonic.Instant) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.now < deadline {
		c.now = deadline
	}
	c.Waits++
	return nil
}
