package async2

import (
	"time"

	"github.com/benbjohnson/clock"
)

// Clock is the monotonic time source sleep-based combinators sample
// against. Spec leaves the concrete source out of scope for the core and
// only requires that it be monotonic; Clock is the minimal interface that
// satisfies that, and is deliberately narrow enough that both
// clock.New() (wall time) and clock.NewMock() (deterministic test time)
// from github.com/benbjohnson/clock satisfy it without an adapter.
type Clock interface {
	Now() time.Time
}

var defaultClock Clock = clock.New()

// DefaultClock returns the process-wide clock Sleep and WaitFor use when
// no explicit clock is supplied.
func DefaultClock() Clock { return defaultClock }

// SetDefaultClock replaces the process-wide default clock, most commonly
// with a clock.Mock() in tests that need to assert exact sleep/timeout
// boundaries without real wall-clock delay.
func SetDefaultClock(c Clock) {
	if c == nil {
		c = clock.New()
	}
	defaultClock = c
}
