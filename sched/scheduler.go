package sched

import (
	"fmt"
	"log/slog"
	"math/rand"
	"runtime"
	"sync"
)

// Scheduler owns the worker pool for a single computation. It is
// constructed and torn down entirely within one Init call; there is no way
// to obtain a *Scheduler before Init and no way to keep using one after
// Init returns.
type Scheduler struct {
	workers []*worker

	mu       sync.Mutex
	cond     *sync.Cond
	sleeping int
}

// Init starts nthreads workers, each with a deque of capacity qlen, seeds
// worker 0's deque with the initial task, and blocks until every
// transitively spawned task has run and the pool has gone quiescent.
//
// nthreads == 0 substitutes runtime.NumCPU(). nthreads < 0 or qlen <= 0
// fail immediately with ErrConfigInvalid and no goroutines are started.
func Init(nthreads, qlen int, seed TaskFunc, payload any) (err error) {
	if qlen <= 0 {
		return fmt.Errorf("%w: qlen must be > 0, got %d", ErrConfigInvalid, qlen)
	}
	if nthreads < 0 {
		return fmt.Errorf("%w: nthreads must be >= 0, got %d", ErrConfigInvalid, nthreads)
	}
	if nthreads == 0 {
		nthreads = runtime.NumCPU()
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrResourceExhausted, r)
		}
	}()

	s := &Scheduler{
		workers: make([]*worker, nthreads),
	}
	s.cond = sync.NewCond(&s.mu)

	for i := range s.workers {
		s.workers[i] = &worker{idx: i, sched: s, deque: newDeque(qlen)}
	}

	if err := Spawn(seed, payload, rootHandle(s)); err != nil {
		return fmt.Errorf("queue seed task: %w", err)
	}

	var wg sync.WaitGroup
	wg.Add(nthreads)
	for _, w := range s.workers {
		w := w
		go func() {
			defer wg.Done()
			w.loop()
		}()
	}
	wg.Wait()

	return nil
}

// Spawn enqueues (fn, payload) on the deque owned by the worker that h
// identifies. If h belongs to the initializer (the seed call) or to any
// caller this package cannot associate with a worker, the task is routed
// to worker 0 — the documented resolution of the "spawn from a non-worker
// thread" open question (SPEC_FULL.md §9, §7).
//
// After a successful push, every sleeping worker is woken so it can
// reconsider stealing; this happens after the deque lock is released, as
// required by the termination protocol (SPEC_FULL.md §4.5).
func Spawn(fn TaskFunc, payload any, h *Handle) error {
	idx := h.worker
	if idx < 0 {
		idx = 0
	}
	w := h.sched.workers[idx]

	if err := w.deque.pushBottom(task{fn: fn, payload: payload}); err != nil {
		return err
	}

	h.sched.wake()
	return nil
}

// steal implements the stealing policy of SPEC_FULL.md §4.4: a random
// starting offset, then a linear probe over all other workers, stopping at
// the first non-empty deque.
func (s *Scheduler) steal(self int) (task, bool) {
	n := len(s.workers)
	if n <= 1 {
		return task{}, false
	}
	k := rand.Intn(n)
	for i := 0; i < n; i++ {
		victim := (self + k + i) % n
		if victim == self {
			continue
		}
		if t, ok := s.workers[victim].deque.stealTop(); ok {
			return t, true
		}
	}
	return task{}, false
}

// wake broadcasts on the shared condition variable so any worker currently
// parked in parkOrTerminate re-evaluates its stealing attempt.
func (s *Scheduler) wake() {
	s.mu.Lock()
	s.cond.Broadcast()
	s.mu.Unlock()
}

// parkOrTerminate implements the sleeping-count barrier of SPEC_FULL.md
// §4.5. The caller has already confirmed its own deque is empty and a full
// victim scan found nothing. It reports true when the caller should
// transition to TERMINATED (every worker is now sleeping, so no worker
// will ever produce more work), and false when it was woken and should
// resume searching.
func (s *Scheduler) parkOrTerminate() (terminate bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sleeping++
	if s.sleeping == len(s.workers) {
		s.cond.Broadcast()
		return true
	}

	s.cond.Wait()
	s.sleeping--
	return false
}

func (s *Scheduler) logTaskPanic(workerIdx int, recovered any, stack []byte) {
	slog.Error("sched: task panicked, worker continuing",
		slog.Int("worker", workerIdx),
		slog.Any("recovered", recovered),
		slog.String("stack", string(stack)),
	)
}
