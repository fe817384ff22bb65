// Package app runs the fade walk: a strip seeded once, then decayed and
// retransmitted by a single task firing every Period cycles.
package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"periph.io/x/conn/v3/physic"

	"github.com/coreman2200/ledwalk/model"
	"github.com/coreman2200/ledwalk/monotonic"
	"github.com/coreman2200/ledwalk/spi"
)

// CoreClock is the rate of the cycle counter deadlines are expressed in.
const CoreClock = 48 * physic.MegaHertz

// Period is the number of cycles between two firings, half a second.
const Period = monotonic.Cycles(CoreClock / physic.Hertz / 2)

type State int

const (
	Uninitialized State = iota
	Seeded
	Running
	Halted
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Seeded:
		return "seeded"
	case Running:
		return "running"
	case Halted:
		return "halted"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Scheduler wakes the walk at the deadlines it arms.
type Scheduler interface {
	// Arm requests one wake-up at deadline.
	Arm(deadline monotonic.Instant) error
	// Next blocks until the armed deadline and returns it.
	Next(ctx context.Context) (monotonic.Instant, error)
}

// Walk owns the pixel buffer and the transmitter. Neither is exposed: the
// task body is the only code that ever touches them, so nothing locks them.
type Walk struct {
	strip model.Strip
	tx    spi.Transmitter
	sched Scheduler

	state    State
	frames   uint64
	deadline monotonic.Instant
	fault    *Fault
	dark     bool

	logger zerolog.Logger
}

type Option func(*Walk)

func WithLogger(logger zerolog.Logger) Option {
	return func(w *Walk) {
		w.logger = logger
	}
}

// New returns an uninitialized walk. tx and sched are used by this walk only.
func New(tx spi.Transmitter, sched Scheduler, opts ...Option) *Walk {
	w := &Walk{
		tx:     tx,
		sched:  sched,
		logger: zerolog.Nop(),
	}
	for _, o := range opts {
		o(w)
	}
	return w
}

func (w *Walk) State() State {
	return w.state
}

// Frames is the number of frames transmitted so far, the seed included.
func (w *Walk) Frames() uint64 {
	return w.frames
}

// Deadline is the last deadline armed.
func (w *Walk) Deadline() monotonic.Instant {
	return w.deadline
}

// Fault returns the fault that halted the walk, nil while it runs.
func (w *Walk) Fault() *Fault {
	return w.fault
}

// Start seeds the strip, shows it and arms the first firing at start+Period.
func (w *Walk) Start(start monotonic.Instant) error {
	if w.state == Halted {
		return ErrHalted
	}
	if w.state != Uninitialized {
		return fmt.Errorf("%w: start while %s", ErrState, w.state)
	}
	w.strip = model.Seed(model.Palette)
	if err := w.cycle(start); err != nil {
		return err
	}
	w.state = Seeded
	w.logger.Info().
		Int("leds", model.MaxLeds).
		Uint8("peak", w.strip.Peak()).
		Stringer("first", w.deadline).
		Msg("strip seeded")
	return nil
}

// Fire is the task body for the firing scheduled at scheduled: decay the
// strip, show it, arm scheduled+Period.
func (w *Walk) Fire(scheduled monotonic.Instant) error {
	if w.state == Halted {
		return ErrHalted
	}
	if w.state == Uninitialized {
		return fmt.Errorf("%w: fire before start", ErrState)
	}
	w.strip.Decay()
	if err := w.cycle(scheduled); err != nil {
		return err
	}
	w.state = Running
	if !w.dark && w.strip.Dark() {
		w.dark = true
		w.logger.Info().Uint64("frame", w.frames).Msg("strip dark")
	}
	return nil
}

// cycle transmits the strip and arms the next firing one period after at.
func (w *Walk) cycle(at monotonic.Instant) error {
	if err := w.tx.Transmit(w.strip.Leds()); err != nil {
		return w.halt(ErrTransmit, at, err)
	}
	w.frames++

	next := at.Add(Period)
	if err := w.sched.Arm(next); err != nil {
		return w.halt(ErrScheduling, next, err)
	}
	w.deadline = next

	w.logger.Debug().
		Uint64("frame", w.frames).
		Stringer("scheduled", at).
		Stringer("next", next).
		Uint8("peak", w.strip.Peak()).
		Msg("frame sent")
	return nil
}

func (w *Walk) halt(kind error, deadline monotonic.Instant, err error) error {
	w.fault = &Fault{Kind: kind, Frame: w.frames + 1, Deadline: deadline, Err: err}
	w.state = Halted
	w.logger.Error().Err(err).Object("fault", w.fault.Diagnostic()).Msg("walk halted")
	return w.fault
}

// Run fires the walk at every deadline until it faults or ctx is done. It
// returns the *Fault, or ctx.Err() on shutdown. The walk must be started.
func (w *Walk) Run(ctx context.Context) error {
	if w.state == Uninitialized {
		return fmt.Errorf("%w: run before start", ErrState)
	}
	for {
		if w.state == Halted {
			return w.fault
		}
		scheduled, err := w.sched.Next(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return w.halt(ErrScheduling, w.deadline, err)
		}
		if err := w.Fire(scheduled); err != nil {
			return err
		}
	}
}
