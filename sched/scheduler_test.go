package sched

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/suite"
)

type SchedulerTestSuite struct {
	suite.Suite
}

func TestSchedulerTestSuite(t *testing.T) {
	suite.Run(t, new(SchedulerTestSuite))
}

// TestSeedOnly mirrors scenario 1 of SPEC_FULL.md §8: a seed task that
// spawns nothing runs exactly once and Init returns promptly.
func (ts *SchedulerTestSuite) TestSeedOnly() {
	var ran int32
	seed := func(payload any, h *Handle) {
		atomic.AddInt32(&ran, 1)
	}

	err := Init(1, 16, seed, nil)
	ts.NoError(err)
	ts.EqualValues(1, ran)
}

// TestFanOutCounter mirrors scenario 2: N independent spawned tasks each
// incrementing a shared counter under a user lock.
func (ts *SchedulerTestSuite) TestFanOutCounter() {
	const n = 1000

	var mu sync.Mutex
	counter := 0

	var seed TaskFunc
	seed = func(payload any, h *Handle) {
		remaining := payload.(int)
		if remaining == 0 {
			return
		}
		for i := 0; i < remaining; i++ {
			ts.Require().NoError(Spawn(func(any, *Handle) {
				mu.Lock()
				counter++
				mu.Unlock()
			}, nil, h))
		}
	}

	err := Init(4, 1024, seed, n)
	ts.NoError(err)
	ts.Equal(n, counter)
}

// TestRecursiveDepth mirrors scenario 3: a binary spawn tree to depth 6
// produces exactly 2^6 leaves.
func (ts *SchedulerTestSuite) TestRecursiveDepth() {
	const depth = 6
	var leaves int32

	type args struct{ remaining int }

	var body TaskFunc
	body = func(payload any, h *Handle) {
		a := payload.(args)
		if a.remaining == 0 {
			atomic.AddInt32(&leaves, 1)
			return
		}
		ts.Require().NoError(Spawn(body, args{a.remaining - 1}, h))
		ts.Require().NoError(Spawn(body, args{a.remaining - 1}, h))
	}

	err := Init(4, 32, body, args{depth})
	ts.NoError(err)
	ts.EqualValues(1<<depth, leaves)
}

// TestCapacityExceededIsRecoverable mirrors scenario 4: once a worker's
// deque fills, further spawns from that worker fail cleanly, and every
// spawn that did succeed corresponds to exactly one executed task.
func (ts *SchedulerTestSuite) TestCapacityExceededIsRecoverable() {
	var executed int32
	var failures int32

	seed := func(payload any, h *Handle) {
		for i := 0; i < 100; i++ {
			err := Spawn(func(any, *Handle) {
				atomic.AddInt32(&executed, 1)
			}, nil, h)
			if err != nil {
				ts.ErrorIs(err, ErrCapacityExceeded)
				atomic.AddInt32(&failures, 1)
			}
		}
	}

	err := Init(2, 4, seed, nil)
	ts.NoError(err)
	ts.Greater(failures, int32(0))
	ts.EqualValues(100-int(failures), executed)
}

// TestZeroThreadsUsesOnlineProcessors mirrors scenario 5.
func (ts *SchedulerTestSuite) TestZeroThreadsUsesOnlineProcessors() {
	var ran int32
	seed := func(any, *Handle) { atomic.AddInt32(&ran, 1) }

	err := Init(0, 1024, seed, nil)
	ts.NoError(err)
	ts.EqualValues(1, ran)
}

// TestNegativeThreadsFailsWithoutStartingThreads mirrors scenario 6.
func (ts *SchedulerTestSuite) TestNegativeThreadsFailsWithoutStartingThreads() {
	called := false
	seed := func(any, *Handle) { called = true }

	err := Init(-1, 1024, seed, nil)
	ts.ErrorIs(err, ErrConfigInvalid)
	ts.False(called)
}

func (ts *SchedulerTestSuite) TestZeroQlenFails() {
	err := Init(2, 0, func(any, *Handle) {}, nil)
	ts.ErrorIs(err, ErrConfigInvalid)
}

// TestSingleThreadIsSerialDepthFirst covers the nthreads==1 boundary: no
// stealing can occur, and termination is immediate once the deque drains.
func (ts *SchedulerTestSuite) TestSingleThreadIsSerialDepthFirst() {
	var order []int
	var mu sync.Mutex

	type args struct{ id, remaining int }
	var body TaskFunc
	body = func(payload any, h *Handle) {
		a := payload.(args)
		mu.Lock()
		order = append(order, a.id)
		mu.Unlock()
		if a.remaining > 0 {
			ts.Require().NoError(Spawn(body, args{a.id*2 + 1, a.remaining - 1}, h))
			ts.Require().NoError(Spawn(body, args{a.id*2 + 2, a.remaining - 1}, h))
		}
	}

	err := Init(1, 64, body, args{0, 3})
	ts.NoError(err)
	ts.Len(order, 15) // a perfect binary tree of depth 3 has 2^4-1 = 15 nodes
}

// TestQlenOneBoundsOutstandingTasks covers the qlen==1 boundary: at most
// one outstanding task per worker, and failed spawns can be retried
// inline by the caller.
func (ts *SchedulerTestSuite) TestQlenOneBoundsOutstandingTasks() {
	var executed int32

	seed := func(payload any, h *Handle) {
		for i := 0; i < 5; i++ {
			child := func(any, *Handle) { atomic.AddInt32(&executed, 1) }
			if err := Spawn(child, nil, h); err != nil {
				ts.ErrorIs(err, ErrCapacityExceeded)
				// caller retries inline rather than losing the work
				child(nil, h)
			}
		}
	}

	err := Init(1, 1, seed, nil)
	ts.NoError(err)
	ts.EqualValues(5, executed)
}

// TestSeedSpawnsExactlyCapacityTasks covers the other qlen boundary: a
// seed that spawns exactly qlen tasks fills the deque exactly and all of
// them execute.
func (ts *SchedulerTestSuite) TestSeedSpawnsExactlyCapacityTasks() {
	const qlen = 8
	var executed int32

	seed := func(payload any, h *Handle) {
		for i := 0; i < qlen; i++ {
			ts.Require().NoError(Spawn(func(any, *Handle) {
				atomic.AddInt32(&executed, 1)
			}, nil, h))
		}
	}

	err := Init(2, qlen, seed, nil)
	ts.NoError(err)
	ts.EqualValues(qlen, executed)
}

// TestPanickingTaskDoesNotCorruptScheduler verifies that a task panic is
// recovered and other tasks still complete (SPEC_FULL.md §7).
func (ts *SchedulerTestSuite) TestPanickingTaskDoesNotCorruptScheduler() {
	var executed int32

	seed := func(payload any, h *Handle) {
		ts.Require().NoError(Spawn(func(any, *Handle) {
			panic("boom")
		}, nil, h))
		for i := 0; i < 10; i++ {
			ts.Require().NoError(Spawn(func(any, *Handle) {
				atomic.AddInt32(&executed, 1)
			}, nil, h))
		}
	}

	err := Init(4, 32, seed, nil)
	ts.NoError(err)
	ts.EqualValues(10, executed)
}

// TestDeterministicCompletionSet runs the same workload twice and checks
// that the *set* of results is identical, even though execution order is
// not guaranteed to be (idempotence property, SPEC_FULL.md §8).
func (ts *SchedulerTestSuite) TestDeterministicCompletionSet() {
	run := func() []int {
		var mu sync.Mutex
		var results []int

		type args struct{ id int }
		var body TaskFunc
		body = func(payload any, h *Handle) {
			a := payload.(args)
			if a.id >= 20 {
				return
			}
			mu.Lock()
			results = append(results, a.id)
			mu.Unlock()
			ts.Require().NoError(Spawn(body, args{a.id*2 + 1}, h))
			ts.Require().NoError(Spawn(body, args{a.id*2 + 2}, h))
		}

		ts.Require().NoError(Init(4, 64, body, args{0}))

		mu.Lock()
		defer mu.Unlock()
		out := append([]int(nil), results...)
		return out
	}

	a := run()
	b := run()

	ts.ElementsMatch(a, b)
}

func ExampleInit() {
	err := Init(1, 16, func(payload any, h *Handle) {
		fmt.Println("A")
	}, nil)
	if err != nil {
		fmt.Println(err)
	}
	// Output: A
}
