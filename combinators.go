package async2

// yieldOnceLocals is empty: yield_once needs no scratch storage at all,
// only the cursor the loop already threads through every resume.
type yieldOnceLocals struct{}

func yieldOnceBody(s *State[yieldOnceLocals, struct{}]) Cursor {
	if s.Raw().Cursor() == CursorInit {
		return CursorCont
	}
	return CursorDone
}

// YieldOnce returns a coroutine that suspends exactly once before
// completing: resumed, it yields; resumed again, it's done. This is the
// same zero-argument body the original implements sleep(0) with
// (async_yielder); here it is exposed directly as a first-class primitive,
// since spec §4.5 names yield-once as one.
func YieldOnce() *State[yieldOnceLocals, struct{}] {
	return NewCoro(yieldOnceBody, struct{}{})
}
