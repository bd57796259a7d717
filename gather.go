package async2

type gatherLocals struct {
	children dynArray[*RawState]
}

func gatherBody(s *State[gatherLocals, struct{}]) Cursor {
	l := s.Locals()
	for i := 0; i < l.children.Len(); {
		child := l.children.At(i)
		if Done(child) {
			Decref(child)
			l.children.Splice(i, 1)
			continue
		}
		i++
	}
	if l.children.Len() == 0 {
		return CursorDone
	}
	return CursorCont
}

func gatherCancelHook(raw *RawState) {
	l := raw.locals.(*gatherLocals)
	for i := 0; i < l.children.Len(); i++ {
		c := l.children.At(i)
		Decref(c)
		Cancel(c)
	}
}

// childrenCloser lets VGather's owned backing array be released
// deterministically by the arena, the same moment the gatherer state is
// torn down, instead of waiting on GC.
type childrenCloser struct{ children *dynArray[*RawState] }

func (c *childrenCloser) Close() error {
	c.children.Destroy()
	return nil
}

// scheduleChildren adopts children on behalf of a newly constructed
// gatherer: on any failure it releases every non-nil child itself, since a
// gather call consumes its arguments even when construction doesn't
// succeed, and the caller has no other handle left to free them with.
func scheduleChildren(children []*RawState) Errno {
	for _, c := range children {
		if c == nil {
			releaseAll(children)
			return EInvalidState
		}
	}
	if len(children) == 0 {
		// gather(0, null): nothing to schedule, nothing can fail.
		return OK
	}
	if CreateTasks(children) == nil {
		releaseAll(children)
		return ENoMem
	}
	for _, c := range children {
		Incref(c)
	}
	return OK
}

func releaseAll(children []*RawState) {
	for _, c := range children {
		if c != nil {
			release(c)
		}
	}
}

// Gather awaits every state in children, completing once all of them have
// reached CursorDone. children is caller-owned storage: async2 adopts
// references to the individual states (one incref each, released as they
// complete or on cancellation) but never frees the slice itself, on
// success or on failure. Callers that don't want to manage that storage
// themselves should use VGather instead.
func Gather(children []*RawState) (*State[gatherLocals, struct{}], Errno) {
	s := NewCoro(gatherBody, struct{}{})
	l := s.Locals()
	l.children = dynArray[*RawState]{data: children}

	if errno := scheduleChildren(children); errno != OK {
		release(s.Raw())
		return nil, errno
	}
	s.Raw().SetCancelHook(gatherCancelHook)
	return s, OK
}

// VGather is Gather for a variadic list of children: it copies them into a
// backing array owned by the gatherer's own arena, so there is no
// caller-owned storage to keep alive and nothing to free on failure beyond
// the children themselves.
func VGather(children ...*RawState) (*State[gatherLocals, struct{}], Errno) {
	s := NewCoro(gatherBody, struct{}{})
	l := s.Locals()

	backing := make([]*RawState, len(children))
	copy(backing, children)
	l.children = dynArray[*RawState]{data: backing}
	s.Raw().Arena().FreeLater(&childrenCloser{children: &l.children})

	if errno := scheduleChildren(backing); errno != OK {
		release(s.Raw())
		return nil, errno
	}
	s.Raw().SetCancelHook(gatherCancelHook)
	return s, OK
}
