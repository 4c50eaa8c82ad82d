// Package sched implements a user-space fork-join task scheduler: a fixed
// pool of worker goroutines, each owning a bounded work-stealing deque,
// coordinated by a random-victim stealing policy with a sleeping-count
// termination protocol.
//
// The package has no knowledge of what a task computes. A task is a
// callable plus an opaque payload; the callable is responsible for
// releasing its own payload. See Handle for how a running task enqueues
// more work.
package sched

// TaskFunc is the body of a task. It receives the task's opaque payload and
// a Handle back to the scheduler so it can spawn children onto the calling
// worker's own deque. A TaskFunc must not block waiting on another task —
// the termination protocol assumes task bodies either compute and return,
// or spawn and return (see §4.5 of the design).
type TaskFunc func(payload any, h *Handle)

// task is the descriptor that actually lives in a deque slot: a callable
// plus its bound payload. Immutable once enqueued; the scheduler never
// inspects or touches payload.
type task struct {
	fn      TaskFunc
	payload any
}
