package monotonic_test

import (
	"context"
	"testing"
	"time"

	"github.com/coreman2200/ledwalk/monotonic"
	"github.com/coreman2200/ledwalk/monotonic/monotonictest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/physic"
)

func TestCyclesOf(t *testing.T) {
	for _, tc := range []struct {
		d      time.Duration
		f      physic.Frequency
		expect monotonic.Cycles
	}{
		{time.Second, 48 * physic.MegaHertz, 48_000_000},
		{500 * time.Millisecond, 48 * physic.MegaHertz, 24_000_000},
		{time.Microsecond, 48 * physic.MegaHertz, 48},
		{24 * time.Hour, 48 * physic.MegaHertz, 48_000_000 * 86400},
		{-time.Second, 48 * physic.MegaHertz, 0},
	} {
		assert.Equal(t, tc.expect, monotonic.CyclesOf(tc.d, tc.f), tc.d.String())
	}
}

func TestCyclesDuration(t *testing.T) {
	f := 48 * physic.MegaHertz
	assert.Equal(t, 500*time.Millisecond, monotonic.Cycles(24_000_000).Duration(f))
	assert.Equal(t, 24*time.Hour, monotonic.Cycles(48_000_000*86400).Duration(f))
	assert.Equal(t, time.Duration(0), monotonic.Cycles(0).Duration(f))
	assert.Equal(t, time.Duration(0), monotonic.Cycles(10).Duration(0))
}

func TestInstantArithmetic(t *testing.T) {
	i := monotonic.Instant(100)
	assert.Equal(t, monotonic.Instant(150), i.Add(50))
	assert.Equal(t, monotonic.Cycles(50), i.Add(50).Sub(i))
	assert.Equal(t, monotonic.Cycles(0), i.Sub(i.Add(50)))
	assert.Equal(t, "100cyc", i.String())
}

func TestCounter(t *testing.T) {
	c := monotonic.NewCounter(physic.MegaHertz)
	a := c.Now()
	deadline := a.Add(monotonic.CyclesOf(2*time.Millisecond, c.Freq))
	require.NoError(t, c.Wait(context.Background(), deadline))
	assert.GreaterOrEqual(t, c.Now(), deadline)
	assert.Equal(t, time.Duration(0), c.Until(deadline))
}

func TestCounterWaitCancelled(t *testing.T) {
	c := monotonic.NewCounter(physic.MegaHertz)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()
	err := c.Wait(ctx, c.Now().Add(monotonic.CyclesOf(time.Hour, c.Freq)))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSchedulerArmNext(t *testing.T) {
	clock := monotonictest.New(0)
	s := monotonic.NewScheduler(clock)

	require.NoError(t, s.Arm(100))
	next, ok := s.Pending()
	assert.True(t, ok)
	assert.Equal(t, monotonic.Instant(100), next)

	got, err := s.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, monotonic.Instant(100), got)
	assert.Equal(t, monotonic.Instant(100), clock.Now())

	_, ok = s.Pending()
	assert.False(t, ok)
}

func TestSchedulerReturnsScheduledInstantNotNow(t *testing.T) {
	clock := monotonictest.New(0)
	s := monotonic.NewScheduler(clock)

	require.NoError(t, s.Arm(100))
	clock.Advance(130)
	got, err := s.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, monotonic.Instant(100), got)
	assert.Equal(t, monotonic.Instant(130), clock.Now())
}

func TestSchedulerSingleSlot(t *testing.T) {
	s := monotonic.NewScheduler(monotonictest.New(0))
	require.NoError(t, s.Arm(100))
	assert.ErrorIs(t, s.Arm(200), monotonic.ErrQueueFull)
}

func TestSchedulerRejectsNonIncreasingDeadline(t *testing.T) {
	s := monotonic.NewScheduler(monotonictest.New(0))
	assert.ErrorIs(t, s.Arm(0), monotonic.ErrInvalidDeadline)

	require.NoError(t, s.Arm(100))
	_, err := s.Next(context.Background())
	require.NoError(t, err)
	assert.ErrorIs(t, s.Arm(100), monotonic.ErrInvalidDeadline)
	assert.ErrorIs(t, s.Arm(50), monotonic.ErrInvalidDeadline)
}

func TestSchedulerRejectsPastDeadline(t *testing.T) {
	clock := monotonictest.New(0)
	s := monotonic.NewScheduler(clock)
	clock.Advance(500)

	assert.ErrorIs(t, s.Arm(400), monotonic.ErrDeadlineMissed)
	assert.ErrorIs(t, s.Arm(500), monotonic.ErrDeadlineMissed)
	assert.NoError(t, s.Arm(501))
}

func TestSchedulerNextNotArmed(t *testing.T) {
	s := monotonic.NewScheduler(monotonictest.New(0))
	_, err := s.Next(context.Background())
	assert.ErrorIs(t, err, monotonic.ErrNotArmed)
}

func TestSchedulerNextCancelled(t *testing.T) {
	s := monotonic.NewScheduler(monotonictest.New(0))
	require.NoError(t, s.Arm(10))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Next(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	next, ok := s.Pending()
	assert.True(t, ok, "a cancelled wait leaves the deadline armed")
	assert.Equal(t, monotonic.Instant(10), next)
}

func TestSchedulerWithCounter(t *testing.T) {
	c := monotonic.NewCounter(physic.MegaHertz)
	s := monotonic.NewScheduler(c)
	period := monotonic.CyclesOf(20*time.Millisecond, c.Freq)

	deadline := c.Now().Add(period)
	for i := 0; i < 3; i++ {
		require.NoError(t, s.Arm(deadline))
		got, err := s.Next(context.Background())
		require.NoError(t, err)
		assert.Equal(t, deadline, got)
		assert.GreaterOrEqual(t, c.Now(), got)
		deadline = got.Add(period)
	}
}
