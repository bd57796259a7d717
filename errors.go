package async2

// Errno is the closed error taxonomy a coroutine or combinator can report.
// It is intentionally small: async2 does not attempt to carry arbitrary
// user errors through the scheduler, only the four outcomes the scheduler
// itself can produce. User code that needs richer errors should smuggle
// them through its own Locals and treat Errno as "why did the scheduler
// stop driving me", not "what went wrong in my business logic".
type Errno uint8

const (
	// OK means no error occurred.
	OK Errno = iota
	// ENoMem means a slot table or arena allocation could not be grown.
	ENoMem
	// ECanceled means the coroutine was cancelled before completion.
	ECanceled
	// EInvalidState means a state was used in a way its current lifecycle
	// phase forbids (re-entrant self-cancel, nil states or children).
	EInvalidState
)

func (e Errno) Error() string {
	switch e {
	case OK:
		return "OK"
	case ENoMem:
		return "MEMORY ALLOCATION ERROR"
	case ECanceled:
		return "COROUTINE WAS CANCELLED"
	case EInvalidState:
		return "INVALID STATE WAS PASSED TO COROUTINE"
	default:
		return "UNKNOWN ERROR"
	}
}
