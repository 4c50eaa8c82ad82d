package sched

import "sync"

// deque is a bounded circular task queue with an owner-side bottom cursor
// and a thief-side top cursor. Capacity is qlen+1 slots so that bottom==top
// unambiguously means empty and the deque never needs a separate count
// field to disambiguate full from empty.
//
// Only the owning worker calls pushBottom/popBottom; any worker (owner or
// thief) may call stealTop, but only while holding mu.
type deque struct {
	mu     sync.Mutex
	tasks  []task
	bottom int
	top    int
}

func newDeque(qlen int) *deque {
	return &deque{tasks: make([]task, qlen+1)}
}

// pushBottom enqueues t at the bottom (owner end). Fails with
// ErrCapacityExceeded if the deque is full.
func (d *deque) pushBottom(t task) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	next := (d.bottom + 1) % len(d.tasks)
	if next == d.top {
		return ErrCapacityExceeded
	}
	d.tasks[d.bottom] = t
	d.bottom = next
	return nil
}

// popBottom dequeues from the bottom (owner end), LIFO with respect to
// pushBottom. Returns ok=false if the deque is empty.
func (d *deque) popBottom() (task, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.bottom == d.top {
		return task{}, false
	}
	d.bottom = (d.bottom - 1 + len(d.tasks)) % len(d.tasks)
	t := d.tasks[d.bottom]
	d.tasks[d.bottom] = task{}
	return t, true
}

// stealTop dequeues from the top (thief end), FIFO with respect to
// pushBottom — the oldest resident task is stolen first. Returns ok=false
// if the deque is empty.
func (d *deque) stealTop() (task, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.bottom == d.top {
		return task{}, false
	}
	t := d.tasks[d.top]
	d.tasks[d.top] = task{}
	d.top = (d.top + 1) % len(d.tasks)
	return t, true
}

// empty reports whether the deque currently holds no tasks.
func (d *deque) empty() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.bottom == d.top
}

// capacity returns the maximum number of tasks the deque can hold at once
// (qlen, not the qlen+1 slots actually allocated).
func (d *deque) capacity() int {
	return len(d.tasks) - 1
}
