package tasks

import (
	"fmt"
	"time"

	"github.com/juju/errors"
)

// DefaultResolution is the time unit of the scheduler.
// Relative delays must be a whole number of units,
// and absolute targets are re-checked once per unit:
// a task started before its target fires within one unit after the target, never before.
const DefaultResolution = time.Second

// TimingKind specifies how a task is scheduled
type TimingKind int

const (
	// Absolute timing executes once the wall-clock time reaches the target
	Absolute TimingKind = iota + 1
	// Relative timing executes once the delay has elapsed since Run
	Relative
)

func (k TimingKind) String() string {
	switch k {
	case Absolute:
		return "absolute"
	case Relative:
		return "relative"
	default:
		return fmt.Sprintf("TimingKind(%d)", int(k))
	}
}

// Timing describes when a task fires
type Timing struct {
	kind  TimingKind
	at    time.Time
	after time.Duration
}

// At returns absolute timing for the target time
func At(target time.Time) Timing {
	return Timing{kind: Absolute, at: target}
}

// After returns relative timing for the delay
func After(delay time.Duration) Timing {
	return Timing{kind: Relative, after: delay}
}

// Kind returns the timing kind
func (t Timing) Kind() TimingKind {
	return t.kind
}

// Target returns the target time of absolute timing
func (t Timing) Target() time.Time {
	return t.at
}

// Delay returns the delay of relative timing
func (t Timing) Delay() time.Duration {
	return t.after
}

// Reached returns true if the absolute target is not in the future
func (t Timing) Reached(now time.Time) bool {
	return t.kind == Absolute && !now.Before(t.at)
}

// Remaining returns the time left until the timing fires,
// measured from now for absolute timing, and from Run for relative one
func (t Timing) Remaining(now time.Time) time.Duration {
	if t.kind == Relative {
		return t.after
	}
	if d := Until(t.at, now); d > 0 {
		return d
	}
	return 0
}

func (t Timing) String() string {
	switch t.kind {
	case Absolute:
		return "at " + t.at.Format(DateFormat)
	case Relative:
		return "after " + t.after.String()
	default:
		return "never"
	}
}

// Validate returns error if the timing is not valid for the resolution
func (t Timing) Validate(resolution time.Duration) error {
	if resolution <= 0 {
		resolution = DefaultResolution
	}
	switch t.kind {
	case Absolute:
		if t.at.IsZero() {
			return errors.NotValidf("target time %q", t.at)
		}
	case Relative:
		if t.after <= 0 {
			return errors.NotValidf("non-positive delay %s", t.after)
		}
		if t.after%resolution != 0 {
			return errors.NotValidf("delay %s with resolution %s", t.after, resolution)
		}
	default:
		return errors.NotValidf("timing kind %d", int(t.kind))
	}
	return nil
}
