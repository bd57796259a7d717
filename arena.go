package async2

import "io"

// Arena is the scratch-memory list co-owned by a [RawState]. A coroutine
// body that needs scratch storage that outlives a single resume (but not
// the coroutine itself) registers it here instead of relying on closure
// capture, so destruction is deterministic and observable: everything
// tracked by an Arena is released, in reverse registration order, the
// moment its owning state is torn down, never later at some arbitrary GC
// pass.
//
// Tracked values that implement io.Closer are closed on release; this is
// how a coroutine can attach deterministic cleanup (e.g. releasing a
// pooled buffer) to its own lifetime without threading a defer through the
// scheduler.
type Arena struct {
	allocs dynArray[any]
}

func (a *Arena) track(p any) bool {
	return a.allocs.Push(p)
}

// Alloc allocates a zero-valued T, registers it with raw's arena, and
// returns it. The returned pointer is stable for the lifetime of raw.
func Alloc[T any](raw *RawState) *T {
	p := new(T)
	raw.arena.track(p)
	return p
}

// Free releases one previously tracked value by identity. It reports
// whether a matching entry was found.
func (a *Arena) Free(p any) bool {
	for i := 0; i < a.allocs.Len(); i++ {
		if a.allocs.At(i) == p {
			closeIfCloser(p)
			a.allocs.Splice(i, 1)
			return true
		}
	}
	return false
}

// FreeLater registers an already-allocated value for release when the
// owning state is destroyed, without allocating anything new.
func (a *Arena) FreeLater(p any) bool {
	if p == nil {
		return false
	}
	return a.track(p)
}

// destroy releases every tracked value, most-recently-registered first,
// and empties the arena. Called once by the loop when a state is reaped.
func (a *Arena) destroy() {
	for i := a.allocs.Len() - 1; i >= 0; i-- {
		closeIfCloser(a.allocs.At(i))
	}
	a.allocs.Destroy()
}

func closeIfCloser(p any) {
	if c, ok := p.(io.Closer); ok {
		_ = c.Close()
	}
}
