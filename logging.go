package async2

import "github.com/rs/zerolog"

// loop lifecycle logging. Disabled (zerolog.Nop) by default; installed via
// WithLogger. Kept to debug-level events only: scheduling, reaping, and
// cancellation are routine, not warnings, and a coroutine body panic is the
// only thing that rises to Error.

func (lp *Loop) logScheduled(s *RawState) {
	lp.logger.Debug().Int("slot", lp.slotOf(s)).Msg("task scheduled")
}

func (lp *Loop) logReaped(s *RawState) {
	lp.logger.Debug().Int("slot", lp.slotOf(s)).Msg("task reaped")
}

func (lp *Loop) logCancelled(s *RawState) {
	lp.logger.Debug().Int("slot", lp.slotOf(s)).Msg("task cancelled")
}

func (lp *Loop) logPanic(s *RawState, v any, stack []byte) {
	lp.logger.Error().
		Int("slot", lp.slotOf(s)).
		Interface("panic", v).
		Bytes("stack", stack).
		Msg("coroutine body panicked, recovered by loop")
}

// slotOf is best-effort, for log context only: it scans the slot table, so
// it must never be called on a hot path that isn't already logging.
func (lp *Loop) slotOf(s *RawState) int {
	if lp.logger.GetLevel() > zerolog.DebugLevel {
		return -1
	}
	for i := 0; i < lp.events.Len(); i++ {
		if lp.events.At(i) == s {
			return i
		}
	}
	return -1
}
