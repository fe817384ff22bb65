// Package monotonic provides a free-running cycle counter and a single-slot
// scheduler that wakes one recurring task at absolute deadlines on that counter.
package monotonic

import (
	"context"
	"strconv"
	"time"

	"periph.io/x/conn/v3/physic"
)

// Instant is a point in time, in cycles of the counter since its epoch.
type Instant uint64

// Cycles is a span between two Instants.
type Cycles uint64

// Add returns i+c.
func (i Instant) Add(c Cycles) Instant {
	return i + Instant(c)
}

// Sub returns the cycles from j to i, 0 if j is after i.
func (i Instant) Sub(j Instant) Cycles {
	if j >= i {
		return 0
	}
	return Cycles(i - j)
}

func (i Instant) String() string {
	return strconv.FormatUint(uint64(i), 10) + "cyc"
}

// CyclesOf returns the number of cycles in d at freq.
func CyclesOf(d time.Duration, freq physic.Frequency) Cycles {
	if d <= 0 {
		return 0
	}
	hz := uint64(freq / physic.Hertz)
	s := uint64(d / time.Second)
	ns := uint64(d % time.Second)
	return Cycles(s*hz + ns*hz/uint64(time.Second))
}

// Duration returns the time c cycles take at freq, rounded down to the
// nanosecond.
func (c Cycles) Duration(freq physic.Frequency) time.Duration {
	hz := uint64(freq / physic.Hertz)
	if hz == 0 {
		return 0
	}
	s := uint64(c) / hz
	rem := uint64(c) % hz
	return time.Duration(s)*time.Second + time.Duration(rem*uint64(time.Second)/hz)
}

// Clock is a monotonic cycle counter.
type Clock interface {
	Now() Instant
	// Wait blocks until Now() reaches deadline or ctx is done.
	Wait(ctx context.Context, deadline Instant) error
}

// Counter is a Clock backed by the host monotonic clock, counting at Freq
// from the moment it was created.
type Counter struct {
	Freq  physic.Frequency
	epoch time.Time
}

// NewCounter starts a counter at freq. Its first reading is 0.
func NewCounter(freq physic.Frequency) *Counter {
	return &Counter{Freq: freq, epoch: time.Now()}
}

func (c *Counter) Now() Instant {
	return Instant(CyclesOf(time.Since(c.epoch), c.Freq))
}

// Until returns how long until deadline, 0 if it already passed.
func (c *Counter) Until(deadline Instant) time.Duration {
	return deadline.Sub(c.Now()).Duration(c.Freq)
}

func (c *Counter) Wait(ctx context.Context, deadline Instant) error {
	for c.Now() < deadline {
		d := c.Until(deadline)
		if d <= 0 {
			// less than a nanosecond left
			d = time.Nanosecond
		}
		t := time.NewTimer(d)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
	return nil
}
