package async2

import "runtime/debug"

// safeResume and safeCancelHook are the loop's panic boundary, adapted
// from the teacher's paniccatcher/panicstack machinery. The teacher
// collects panics from a whole subtree of child coroutines and re-raises
// them once the subtree finishes unwinding; async2 has no such subtree to
// wait on; a coroutine body either is the loop or it is one slot among
// many. So the boundary here is narrower: recover at a single resume,
// log it, and treat the body's panic as that coroutine's own terminal
// failure rather than letting it unwind through pass and take every other
// scheduled coroutine down with it.
func (lp *Loop) safeResume(s *RawState) {
	defer func() {
		if v := recover(); v != nil {
			lp.logPanic(s, v, debug.Stack())
			// The resume wrapper never reached its own release of the
			// body's self-reference, so drop it here.
			Decref(s)
			s.err = ECanceled
			s.cursor = CursorDone
		}
	}()
	s.resume(s)
}

func (lp *Loop) safeCancelHook(s *RawState) {
	s.inCancelHook = true
	defer func() {
		if v := recover(); v != nil {
			lp.logPanic(s, v, debug.Stack())
		}
		s.inCancelHook = false
	}()
	s.cancelHook(s)
}
