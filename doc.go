// Package async2 is a cooperative, single-threaded coroutine scheduler.
//
// Unlike goroutines, a coroutine here never runs concurrently with
// anything else: exactly one is being resumed at any instant, and it
// keeps the loop's attention until it returns control by yielding,
// suspending on a child, or completing. This buys deterministic
// interleaving at the cost of never blocking: a coroutine body that calls
// a blocking API stalls the entire loop, the same way a blocking call in
// a single-goroutine event loop would.
//
// # Coroutines and reference counting
//
// A coroutine is represented by a [State], parameterized over its private
// scratch-local type and its argument type. [NewCoro] allocates one with a
// refcount of one, held by the coroutine itself until it completes or is
// cancelled. [Incref] and [Decref]
// manage additional owners; a state is only reaped once its refcount
// drops to zero, regardless of whether it has already reached
// [CursorDone] — an owner that never decrefs a completed state is holding
// it open on purpose, e.g. to read a result out of its locals before
// letting the loop reclaim the slot.
//
// # Scheduling
//
// [CreateTask] and [CreateTasks] submit states to the process-wide event
// loop returned by [GetEventLoop]; [SetEventLoop] replaces it wholesale,
// for callers that want a loop scoped to a test or a request rather than
// one shared for the life of the process. [Loop.RunForever] drains
// everything currently scheduled; [Loop.RunUntilComplete] drives the loop
// alongside one designated coroutine until that one finishes.
//
// # Cancellation
//
// [Cancel] requests that a coroutine stop at its next opportunity. Once
// cancelled, a coroutine's terminal error becomes [ECanceled] regardless
// of what it was doing, and if it was awaiting a child (via [Fawait], or
// internally in [WaitFor]) that child is cancelled too — cancellation
// always propagates down one level, from parent to the single child it
// was waiting on, never sideways or back up.
//
// # Combinators
//
// [YieldOnce], [Sleep], [Gather], [VGather], and [WaitFor] are all
// ordinary coroutines built out of the same primitives user code has
// access to: they hold no special access to the loop's internals beyond
// what [Fawait], [Incref], [Decref], and a cancel hook already expose.
package async2
