package async2

import "github.com/rs/zerolog"

// Loop is the event loop: a slot table of scheduled coroutines plus a
// free list of vacant slots, driven one pass at a time. It is not safe for
// concurrent use from multiple goroutines; async2 is a single-threaded
// cooperative scheduler by design (spec's C4), the same way the teacher's
// Executor is meant to be driven from one goroutine at a time.
type Loop struct {
	events dynArray[*RawState]
	vacant dynArray[int]
	logger zerolog.Logger
}

// NewLoop constructs a ready-to-use Loop.
func NewLoop(opts ...Option) *Loop {
	lp := &Loop{logger: zerolog.Nop()}
	for _, o := range opts {
		o(lp)
	}
	return lp
}

// Init resets lp to a freshly constructed, empty state. It exists
// alongside NewLoop so a Loop value embedded in a larger struct can be
// initialized in place, matching the C source's separate allocate/init
// steps.
func (lp *Loop) Init() {
	lp.events.Destroy()
	lp.vacant.Destroy()
}

// AddTask schedules s into the most recently vacated slot (the vacant queue
// is LIFO), or appends a new one if none is free. Scheduling an
// already-scheduled state is a no-op: AddTask returns s either way. AddTask
// returns nil if s is nil, or if growing the slot table failed and s could
// not be scheduled, in which case s is torn down (no
// cancel hook: a never-scheduled state is assumed to still be under
// construction).
func (lp *Loop) AddTask(s *RawState) *RawState {
	if s == nil {
		return nil
	}
	if !s.Scheduled() {
		if lp.vacant.Len() > 0 {
			i := lp.vacant.Pop()
			lp.events.Set(i, s)
		} else if !lp.events.Push(s) {
			release(s)
			return nil
		}
		s.flags |= flagScheduled
		lp.logScheduled(s)
	}
	return s
}

// pushTask schedules s by always appending a new slot, never reusing a
// vacant one. Used by AddTasks so a batch submission's slot placement
// doesn't depend on incidental reap timing elsewhere in the table.
func (lp *Loop) pushTask(s *RawState) *RawState {
	if !s.Scheduled() {
		if !lp.events.Push(s) {
			release(s)
			return nil
		}
		s.flags |= flagScheduled
		lp.logScheduled(s)
	}
	return s
}

// AddTasks schedules every state in states as a batch, reserving slot
// table capacity once up front rather than once per state. It returns nil,
// scheduling nothing, if any element is nil or if the batch reservation
// fails; a partially-submitted batch would violate gather's "all children
// adopted or none are" contract. Unlike AddTask, the batch path never
// consults the vacant queue: every not-yet-scheduled state is appended,
// matching async_loop_add_tasks_'s straight push loop.
func (lp *Loop) AddTasks(states []*RawState) []*RawState {
	for _, s := range states {
		if s == nil {
			return nil
		}
	}
	if !lp.events.Reserve(len(states)) {
		return nil
	}
	for _, s := range states {
		lp.pushTask(s)
	}
	return states
}

// RunForever drives the loop pass after pass until every scheduled slot is
// vacant, i.e. until there is nothing left to resume.
func (lp *Loop) RunForever() {
	for lp.hasWork() {
		lp.pass(false)
	}
}

// RunUntilComplete drives the loop, resuming main directly on every pass in
// addition to whatever else is scheduled, until main reaches CursorDone.
// main need not be separately scheduled via AddTask; if it never was, it is
// torn down once complete, since nothing else holds a reference to it.
func (lp *Loop) RunUntilComplete(main *RawState) {
	if main == nil {
		return
	}
	for main.resume(main) != CursorDone {
		if lp.hasWork() {
			lp.pass(false)
		}
	}
	if main.refcount == 0 {
		release(main)
	}
}

// Destroy tears the loop down: every remaining scheduled coroutine is
// cancelled, finalized without being resumed again (invoking cancel hooks
// as needed), and reaped once its refcount reaches zero, before the slot
// table and free list are released. A state whose refcount never drops to
// zero (an Incref that is never matched by a Decref) keeps Destroy looping
// forever; Destroy does not detect this.
func (lp *Loop) Destroy() {
	for lp.hasWork() {
		lp.pass(true)
	}
	lp.events.Destroy()
	lp.vacant.Destroy()
}

func (lp *Loop) hasWork() bool {
	return lp.events.Len() > 0 && lp.events.Len() > lp.vacant.Len()
}

// pass performs one visit over every slot, applying the rules from spec
// §4.4 in order: a state with no outstanding references is reaped; a
// state that has been cancelled (directly, or because its parent cancelled
// it) is finalized; otherwise, if destroying, a not-yet-cancelled state is
// cancelled so the next pass can finalize it; otherwise, a state that is
// not done and whose child (if any) is done is resumed.
func (lp *Loop) pass(destroying bool) {
	for i := 0; i < lp.events.Len(); i++ {
		s := lp.events.At(i)
		if s == nil {
			continue
		}

		if s.refcount == 0 {
			if !Done(s) && s.cancelHook != nil {
				lp.safeCancelHook(s)
			}
			release(s)
			lp.logReaped(s)
			lp.events.Set(i, nil)
			lp.vacant.Push(i)
			continue
		}

		if s.err != ECanceled && Cancelled(s) {
			if !Done(s) {
				Decref(s)
				if s.cancelHook != nil {
					lp.safeCancelHook(s)
				}
			}
			if s.next != nil {
				Decref(s.next)
				Cancel(s.next)
			}
			s.err = ECanceled
			s.cursor = CursorDone
			lp.logCancelled(s)
			continue
		}

		if destroying {
			if !Cancelled(s) {
				Cancel(s)
			}
			continue
		}

		if !Done(s) && (s.next == nil || Done(s.next)) {
			lp.safeResume(s)
		}
	}
}

// release drains a state's arena without invoking its cancel hook. Used
// both for states reaped by pass (which invokes the hook itself, before
// calling release) and for states that never made it into the slot table.
func release(s *RawState) {
	s.arena.destroy()
	s.flags &^= flagScheduled
}
