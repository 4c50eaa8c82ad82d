package sched

import "errors"

// Error taxonomy. Callers should use errors.Is against these sentinels
// rather than comparing strings.
var (
	// ErrConfigInvalid is returned by Init when nthreads or qlen is out of
	// range. No resources are acquired before this check runs.
	ErrConfigInvalid = errors.New("sched: invalid nthreads or qlen")

	// ErrResourceExhausted is returned by Init if an allocation needed to
	// stand up the worker pool fails. Go's goroutines and sync primitives
	// have no realistic OS-level failure path analogous to a failed
	// pthread_create, so in practice this only surfaces if a deque
	// allocation panics (for example, a qlen too large for make to
	// allocate); Init recovers that panic and reports it through this
	// sentinel instead of crashing the process. A fatal out-of-memory
	// error from the runtime cannot be recovered and is not reported here.
	ErrResourceExhausted = errors.New("sched: could not allocate scheduler resources")

	// ErrCapacityExceeded is returned by Spawn when the target worker's
	// deque has no free slot. The caller's callable and payload are not
	// consumed; the caller may retry, run the task inline, or abort.
	ErrCapacityExceeded = errors.New("sched: worker deque is full")

	// ErrInvalidCaller would indicate Spawn was called from neither a
	// registered worker nor the initializer. This implementation instead
	// routes such a call to worker 0 (see Handle and DESIGN.md's Open
	// Question log), so this sentinel is kept only for documentation and
	// for callers who want to assert on the chosen behavior explicitly.
	ErrInvalidCaller = errors.New("sched: spawn called from an unregistered caller")
)
