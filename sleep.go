package async2

import "time"

type sleepLocals struct {
	start time.Time
	delay time.Duration
	clock Clock
}

func sleepBody(s *State[sleepLocals, struct{}]) Cursor {
	raw := s.Raw()
	l := s.Locals()

	if raw.Cursor() == CursorInit {
		if l.delay <= 0 {
			// sleep(0) takes the same two-resume shape as YieldOnce,
			// without ever touching the clock.
			return CursorCont
		}
		l.start = l.clock.Now()
		return CursorCont
	}

	if l.delay <= 0 {
		return CursorDone
	}
	if l.clock.Now().Sub(l.start) >= l.delay {
		return CursorDone
	}
	return CursorCont
}

// Sleep returns a coroutine that completes once delay has elapsed,
// measured against the process-wide DefaultClock. A non-positive delay is
// equivalent to YieldOnce: it completes on its second resume without
// sampling the clock at all.
func Sleep(delay time.Duration) *State[sleepLocals, struct{}] {
	return SleepWithClock(DefaultClock(), delay)
}

// SleepWithClock is Sleep against an explicit clock, for callers that want
// a scoped clock rather than the process-wide default (most commonly,
// tests driving a clock.Mock()).
func SleepWithClock(c Clock, delay time.Duration) *State[sleepLocals, struct{}] {
	s := NewCoro(sleepBody, struct{}{})
	l := s.Locals()
	l.delay = delay
	l.clock = c
	return s
}
