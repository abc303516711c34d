// Package sched runs deferred work on the single control thread.
//
// Nothing here spawns goroutines: the owner calls RunDue from its frame loop
// and every due task executes inline, in deadline order.
package sched

import (
	"container/heap"
	"time"
)

// Clock reports the current time of the control loop.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// ManualClock only moves when told to. Used by tests and headless runs.
type ManualClock struct {
	t time.Time
}

func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{t: start}
}

func (c *ManualClock) Now() time.Time { return c.t }

func (c *ManualClock) Advance(d time.Duration) {
	c.t = c.t.Add(d)
}

// Task is a handle on a scheduled callback. It doubles as the cancellation
// token for that callback.
type Task struct {
	at        time.Time
	seq       uint64
	fn        func()
	index     int // heap slot, -1 once popped or removed
	cancelled bool
	done      bool
}

// Cancel prevents the callback from running. It reports whether the call
// changed anything; cancelling a finished or already cancelled task is a no-op.
func (t *Task) Cancel() bool {
	if t == nil || t.done || t.cancelled {
		return false
	}
	t.cancelled = true
	return true
}

// Pending reports whether the callback is still going to run.
func (t *Task) Pending() bool {
	return t != nil && !t.done && !t.cancelled
}

// Deadline is the time at which the task becomes due.
func (t *Task) Deadline() time.Time { return t.at }

type taskQueue []*Task

func (q taskQueue) Len() int { return len(q) }

func (q taskQueue) Less(i, j int) bool {
	if q[i].at.Equal(q[j].at) {
		return q[i].seq < q[j].seq
	}
	return q[i].at.Before(q[j].at)
}

func (q taskQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *taskQueue) Push(x any) {
	t := x.(*Task)
	t.index = len(*q)
	*q = append(*q, t)
}

func (q *taskQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*q = old[:n-1]
	return t
}

// Scheduler is a min-heap of deadlines. It is not safe for concurrent use.
type Scheduler struct {
	clock Clock
	queue taskQueue
	seq   uint64
}

func New(clock Clock) *Scheduler {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Scheduler{clock: clock}
}

// Now returns the scheduler's notion of the current time.
func (s *Scheduler) Now() time.Time { return s.clock.Now() }

// After schedules fn to run once d has elapsed. A non-positive d makes the
// task due on the next RunDue, never inline.
func (s *Scheduler) After(d time.Duration, fn func()) *Task {
	if d < 0 {
		d = 0
	}
	s.seq++
	t := &Task{at: s.clock.Now().Add(d), seq: s.seq, fn: fn}
	heap.Push(&s.queue, t)
	return t
}

// RunDue executes every task whose deadline has passed and returns how many
// ran. Tasks scheduled by a running callback run in the same pass if they are
// already due.
func (s *Scheduler) RunDue() int {
	now := s.clock.Now()
	ran := 0
	for len(s.queue) > 0 {
		next := s.queue[0]
		if next.at.After(now) {
			break
		}
		heap.Pop(&s.queue)
		if next.cancelled {
			continue
		}
		next.done = true
		next.fn()
		ran++
	}
	return ran
}

// Len counts queued tasks that have not been cancelled.
func (s *Scheduler) Len() int {
	n := 0
	for _, t := range s.queue {
		if !t.cancelled {
			n++
		}
	}
	return n
}
