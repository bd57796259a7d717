package async2

// currentLoop is the process-wide event loop CreateTask/CreateTasks submit
// to, mirroring the C source's get/set_event_loop global. It is meant to
// be swapped only between a Destroy and the next Init, never while tasks
// are in flight: the combinators in this package all resolve the loop to
// submit children to via CreateTask/CreateTasks, not via a loop argument,
// the same way the original always reaches for a single ambient loop.
var currentLoop = NewLoop()

// GetEventLoop returns the current process-wide loop.
func GetEventLoop() *Loop { return currentLoop }

// SetEventLoop replaces the process-wide loop. Callers that want a scoped
// loop that isn't global state should construct one with NewLoop and drive
// it directly with RunForever/RunUntilComplete/Destroy instead of going
// through CreateTask.
func SetEventLoop(lp *Loop) {
	if lp == nil {
		lp = NewLoop()
	}
	currentLoop = lp
}

// CreateTask schedules s on the current event loop. See Loop.AddTask.
func CreateTask(s *RawState) *RawState { return currentLoop.AddTask(s) }

// CreateTasks schedules every state in states as a batch on the current
// event loop. See Loop.AddTasks.
func CreateTasks(states []*RawState) []*RawState { return currentLoop.AddTasks(states) }

// Incref increments s's reference count. A state with a positive refcount
// will not be reaped by the loop even once it reaches CursorDone; the
// owner must Decref it to let the loop reclaim the slot.
func Incref(s *RawState) {
	if s != nil {
		s.refcount++
	}
}

// Decref decrements s's reference count. Once it reaches zero, the next
// loop pass reaps s: invoking its cancel hook if it hadn't completed, then
// releasing its arena and vacating its slot.
func Decref(s *RawState) {
	if s != nil && s.refcount > 0 {
		s.refcount--
	}
}

// Cancel requests that s stop at its next opportunity. It is idempotent.
// On a state that has already completed it resumes nothing, but the state
// then reports Cancelled, and if it still holds references the loop's next
// visit sets its error to ECanceled. It
// returns EInvalidState, refusing the request, if called re-entrantly from
// within s's own cancel hook: a coroutine cancelling itself mid-teardown
// would otherwise corrupt the loop's bookkeeping for that slot.
func Cancel(s *RawState) Errno {
	if s == nil {
		return EInvalidState
	}
	if s.inCancelHook {
		return EInvalidState
	}
	s.cancelReq = true
	return OK
}

// Done reports whether s has run to completion (normally or via
// cancellation). A nil state is considered done.
func Done(s *RawState) bool {
	return s == nil || s.cursor == CursorDone
}

// Cancelled reports whether s has been requested to cancel, or has already
// finished with ECanceled. A nil state is never cancelled.
func Cancelled(s *RawState) bool {
	return s != nil && (s.cancelReq || s.err == ECanceled)
}
