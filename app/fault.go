package app

import (
	"errors"
	"fmt"

	"github.com/coreman2200/ledwalk/diagnostics"
	"github.com/coreman2200/ledwalk/monotonic"
)

var (
	// ErrScheduling marks a re-arm request the scheduler rejected.
	ErrScheduling = errors.New("scheduling fault")
	// ErrTransmit marks a frame the bus failed to send.
	ErrTransmit = errors.New("transmit fault")
	// ErrHalted is returned by a walk that already faulted.
	ErrHalted = errors.New("walk halted")
	// ErrState is returned when Start or Fire is called out of order.
	ErrState = errors.New("invalid walk state")
)

// Fault is the unrecoverable error that halts a walk. It matches both its
// Kind and its cause with errors.Is.
type Fault struct {
	Kind     error
	Frame    uint64
	Deadline monotonic.Instant
	Err      error
}

func (f *Fault) Error() string {
	return fmt.Sprintf("%v at frame %d (deadline %s): %v", f.Kind, f.Frame, f.Deadline, f.Err)
}

func (f *Fault) Unwrap() []error {
	return []error{f.Kind, f.Err}
}

// Diagnostic describes the fault for whoever reads the logs.
func (f *Fault) Diagnostic() diagnostics.Diagnostic {
	d := diagnostics.Diagnostic{
		Severity: diagnostics.Err,
		Detail:   f.Err.Error(),
		Evidence: map[string]any{
			"frame":    f.Frame,
			"deadline": uint64(f.Deadline),
		},
	}
	switch {
	case errors.Is(f, monotonic.ErrDeadlineMissed):
		d.Code = "SCHED.OVERRUN"
		d.Summary = "frame took longer than the walk period"
		d.LikelyCauses = []string{"transmit blocked close to or beyond the period", "host under heavy load"}
		d.SuggestedFixes = []string{"check the SPI clock and transfer size", "run on a less loaded core"}
	case errors.Is(f, ErrScheduling):
		d.Code = "SCHED.FAULT"
		d.Summary = "next wake-up could not be armed"
		d.LikelyCauses = []string{"a deadline was still pending", "deadline not after the previous one"}
	case errors.Is(f, ErrTransmit):
		d.Code = "TX.FAULT"
		d.Summary = "frame could not be written to the strip"
		d.LikelyCauses = []string{"SPI peripheral busy or gone", "bus clock misconfigured"}
		d.SuggestedFixes = []string{"check the spi port in the config", "power cycle the strip"}
	default:
		d.Code = "WALK.FAULT"
		d.Summary = f.Kind.Error()
	}
	return d
}
