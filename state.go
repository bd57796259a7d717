package async2

// Cursor is a coroutine's progress marker, read by its body on entry to
// decide which leg of its state machine to resume. A freshly constructed
// state starts at CursorInit; a resume's return value becomes the Cursor
// the next resume will see.
type Cursor uint8

const (
	// CursorInit marks a coroutine that has never been resumed.
	CursorInit Cursor = iota
	// CursorCont marks a coroutine suspended mid-body, expecting another resume.
	CursorCont
	// CursorDone marks a coroutine that has run to completion (or been
	// cancelled to completion) and will not be resumed again.
	CursorDone
)

type flag uint8

const flagScheduled flag = 1 << iota

// Body is the raw, untyped shape of a coroutine's resume function. User
// code authors against the generic State wrapper; Body is what the loop
// actually calls.
type Body func(*RawState) Cursor

// CancelHook runs at most once, when a state is cancelled or reaped before
// it completed, giving the coroutine a chance to release
// resources (most commonly: decref and cancel a child it was awaiting).
type CancelHook func(*RawState)

// RawState is the untyped coroutine record the event loop operates on: one
// entry in the slot table. User code rarely touches it directly except
// through the generic [State] wrapper, but combinators that must hold
// heterogeneous children (gather, wait_for) work with RawState pointers
// since Go generics cannot express "a slice of states of differing type
// parameters".
type RawState struct {
	resume       Body
	cursor       Cursor
	flags        flag
	refcount     uint32
	err          Errno
	cancelReq    bool
	inCancelHook bool
	cancelHook   CancelHook
	next         *RawState
	arena        Arena
	args         any
	locals       any
}

func (s *RawState) Cursor() Cursor { return s.cursor }

func (s *RawState) Scheduled() bool { return s.flags&flagScheduled != 0 }

func (s *RawState) Refcount() uint32 { return s.refcount }

func (s *RawState) Err() Errno { return s.err }

func (s *RawState) SetErr(e Errno) { s.err = e }

func (s *RawState) SetCancelHook(h CancelHook) { s.cancelHook = h }

// Child returns the single weak link to the child this state is awaiting,
// used by the loop for cancellation propagation (spec's fawait contract).
// It never owns a reference by itself: whatever set it must incref/decref
// the child explicitly.
func (s *RawState) Child() *RawState { return s.next }

func (s *RawState) SetChild(c *RawState) { s.next = c }

func (s *RawState) Arena() *Arena { return &s.arena }

// Fawait records child as the state this coroutine is awaiting, schedules
// it if necessary, and takes a reference on it. The loop will not resume
// the parent again until the child reaches CursorDone (or the parent is
// cancelled). The caller is responsible for clearing the child link and
// releasing the reference once the wait is over.
func Fawait(raw *RawState, child *RawState) Errno {
	if child == nil {
		return EInvalidState
	}
	if CreateTask(child) == nil {
		return ENoMem
	}
	Incref(child)
	raw.next = child
	return OK
}

// State is the typed view of a coroutine: L is its private scratch-local
// type, A is its argument type. Bodies are authored against State so field
// access is compile-time checked; the loop itself only ever sees the
// embedded RawState.
type State[L any, A any] struct {
	raw *RawState
}

// TypedBody is the shape a State[L, A]-authored coroutine body has.
type TypedBody[L any, A any] func(*State[L, A]) Cursor

// NewCoro allocates a new coroutine around body, with a fresh zero-valued
// L for its locals and args as its argument value. The returned state
// starts at CursorInit with a refcount of one, which stands for the body's
// ownership of itself: it is released when the body completes or is
// cancelled.
func NewCoro[L any, A any](body TypedBody[L, A], args A) *State[L, A] {
	raw := &RawState{refcount: 1, args: args}
	raw.locals = new(L)
	s := &State[L, A]{raw: raw}
	raw.resume = func(r *RawState) Cursor {
		wasDone := r.cursor == CursorDone
		c := body(s)
		r.cursor = c
		if c == CursorDone && !wasDone {
			// The refcount taken at construction represented the body's
			// ownership of itself; release it on the transition into DONE,
			// the same way cancellation (loop rule 3) releases it when a
			// running coroutine is cut short instead of completing.
			Decref(r)
		}
		return c
	}
	return s
}

func (s *State[L, A]) Raw() *RawState { return s.raw }

func (s *State[L, A]) Locals() *L { return s.raw.locals.(*L) }

func (s *State[L, A]) Args() A { return s.raw.args.(A) }

func (s *State[L, A]) SetArgs(a A) { s.raw.args = a }

func (s *State[L, A]) Cursor() Cursor { return s.raw.cursor }

func (s *State[L, A]) Err() Errno { return s.raw.err }

func (s *State[L, A]) SetErr(e Errno) { s.raw.err = e }

func (s *State[L, A]) Done() bool { return Done(s.raw) }

func (s *State[L, A]) Cancelled() bool { return Cancelled(s.raw) }
