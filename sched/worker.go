package sched

import (
	"fmt"
	"runtime/debug"
)

// workerState names the states in the worker loop's state machine
// (SPEC_FULL.md §4.3). It exists primarily for readability and testing —
// the loop itself is a straightforward for/switch over these values.
type workerState int

const (
	stateSearching workerState = iota
	stateStealing
	stateTerminated
)

// worker owns one deque and runs the work loop on its own goroutine for
// the lifetime of a single Init call. It never outlives the Scheduler that
// created it.
type worker struct {
	idx   int
	deque *deque
	sched *Scheduler
}

// loop runs the state machine described in SPEC_FULL.md §4.3 until the
// scheduler reaches global quiescence. It never returns early: the only
// way out is the termination transition.
func (w *worker) loop() {
	state := stateSearching
	for state != stateTerminated {
		switch state {
		case stateSearching:
			if t, ok := w.deque.popBottom(); ok {
				w.execute(t)
				continue
			}
			state = stateStealing

		case stateStealing:
			if t, ok := w.sched.steal(w.idx); ok {
				w.execute(t)
				state = stateSearching
				continue
			}
			if w.sched.parkOrTerminate() {
				state = stateTerminated
				continue
			}
			state = stateSearching
		}
	}
}

// execute runs one task to completion (RUNNING state). A panicking task is
// recovered, logged, and treated as having returned — it must not corrupt
// this worker's deque or any other worker's state (SPEC_FULL.md §7).
func (w *worker) execute(t task) {
	defer func() {
		if r := recover(); r != nil {
			w.sched.logTaskPanic(w.idx, r, debug.Stack())
		}
	}()
	h := &Handle{sched: w.sched, worker: w.idx}
	t.fn(t.payload, h)
}

func (s workerState) String() string {
	switch s {
	case stateSearching:
		return "SEARCHING"
	case stateStealing:
		return "STEALING"
	case stateTerminated:
		return "TERMINATED"
	default:
		return fmt.Sprintf("workerState(%d)", int(s))
	}
}
