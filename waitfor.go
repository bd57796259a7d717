package async2

import "time"

type waitForLocals struct {
	start   time.Time
	timeout time.Duration
	clock   Clock
}

func waitForBody(s *State[waitForLocals, *RawState]) Cursor {
	raw := s.Raw()
	l := s.Locals()
	child := s.Args()

	if raw.Cursor() == CursorInit {
		if CreateTask(child) == nil {
			Decref(child)
			s.SetArgs(nil)
			raw.SetErr(ENoMem)
			return CursorDone
		}
		l.start = l.clock.Now()
		return CursorCont
	}

	if !Done(child) && l.clock.Now().Sub(l.start) < l.timeout {
		return CursorCont
	}

	if !Done(child) {
		raw.SetErr(ECanceled)
		Cancel(child)
	}
	Decref(child)
	s.SetArgs(nil)
	return CursorDone
}

func waitForCancelHook(raw *RawState) {
	child, _ := raw.args.(*RawState)
	if child == nil {
		return
	}
	if !Done(child) {
		Cancel(child)
	}
	Decref(child)
}

// WaitFor awaits child, bounded by timeout measured against
// DefaultClock: it completes either when child completes, or when timeout
// elapses, whichever comes first. On timeout it cancels child and reports
// ECanceled; a nil child is rejected with EInvalidState.
func WaitFor(child *RawState, timeout time.Duration) (*State[waitForLocals, *RawState], Errno) {
	return WaitForWithClock(DefaultClock(), child, timeout)
}

// WaitForWithClock is WaitFor against an explicit clock.
func WaitForWithClock(c Clock, child *RawState, timeout time.Duration) (*State[waitForLocals, *RawState], Errno) {
	if child == nil {
		return nil, EInvalidState
	}
	s := NewCoro(waitForBody, child)
	s.Raw().SetCancelHook(waitForCancelHook)
	l := s.Locals()
	l.timeout = timeout
	l.clock = c
	Incref(child)
	return s, OK
}
