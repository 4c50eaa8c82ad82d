// Package quicksort is a fork-join parallel quicksort built on top of
// sched. It partitions in place and spawns one task per partition half,
// falling back to a serial sort below a fixed threshold — the same shape
// as the original C benchmark (quicksort.c) this was distilled from.
package quicksort

import (
	"fmt"

	"github.com/Mylloon/scheduler/sched"
)

// SerialThreshold is the index span (hi-lo, one less than the element
// count) at or below which quicksort finishes a range serially instead of
// spawning further tasks. 128, matching the original.
const SerialThreshold = 128

type args struct {
	a      []int
	lo, hi int
}

// partition is a Hoare partition: everything at or left of the returned
// index is <= everything to its right.
func partition(a []int, lo, hi int) int {
	pivot := a[lo]
	i := lo - 1
	j := hi + 1
	for {
		for {
			i++
			if a[i] >= pivot {
				break
			}
		}
		for {
			j--
			if a[j] <= pivot {
				break
			}
		}
		if i >= j {
			return j
		}
		a[i], a[j] = a[j], a[i]
	}
}

func serial(a []int, lo, hi int) {
	if lo >= hi {
		return
	}
	p := partition(a, lo, hi)
	serial(a, lo, p)
	serial(a, p+1, hi)
}

func task(payload any, h *sched.Handle) {
	a := payload.(args)
	if a.lo >= a.hi {
		return
	}
	if a.hi-a.lo <= SerialThreshold {
		serial(a.a, a.lo, a.hi)
		return
	}

	p := partition(a.a, a.lo, a.hi)
	if err := sched.Spawn(task, args{a.a, a.lo, p}, h); err != nil {
		// The deque is full; there is no dropped work to lose here because
		// the caller still holds the subrange — finish it inline.
		serial(a.a, a.lo, p)
	}
	if err := sched.Spawn(task, args{a.a, p + 1, a.hi}, h); err != nil {
		serial(a.a, p+1, a.hi)
	}
}

// Sort sorts a in place using nthreads scheduler workers. nthreads == 0
// uses the online processor count, matching sched.Init.
func Sort(a []int, nthreads int) error {
	if len(a) == 0 {
		return nil
	}
	qlen := (len(a)+SerialThreshold-1)/SerialThreshold + 1
	if err := sched.Init(nthreads, qlen, task, args{a, 0, len(a) - 1}); err != nil {
		return fmt.Errorf("quicksort: %w", err)
	}
	return nil
}

// SerialSort sorts a in place without the scheduler, for benchmarking and
// for tests that want a ground truth.
func SerialSort(a []int) {
	if len(a) == 0 {
		return
	}
	serial(a, 0, len(a)-1)
}

// LCGInput fills a slice of n ints using the same 64-bit linear
// congruential generator as the original benchmark_quicksort, so repeated
// runs with the same n and seed are exactly reproducible.
func LCGInput(n int, seed uint64) []int {
	a := make([]int, n)
	s := seed
	for i := range a {
		s = s*6364136223846793005 + 1442695040888963407
		a[i] = int((s >> 33) & 0x7FFFFFFF)
	}
	return a
}
