package core

import (
	"container/heap"
	"sync"
	"time"
)

// Timer is a pending deferred callback
type Timer interface {
	// Stop cancels the callback. It reports false if the callback already ran
	// or was already stopped.
	Stop() bool
}

// Scheduler runs callbacks after a delay
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// RealScheduler schedules callbacks on the wall clock
type RealScheduler struct{}

// AfterFunc wraps time.AfterFunc
func (RealScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// LockedScheduler runs every callback of Inner while holding Locker.
// Sessions use it so deferred engine callbacks serialize with inputs.
type LockedScheduler struct {
	Locker sync.Locker
	Inner  Scheduler
}

// AfterFunc schedules f to run under the lock
func (s LockedScheduler) AfterFunc(d time.Duration, f func()) Timer {
	inner := s.Inner
	if inner == nil {
		inner = RealScheduler{}
	}
	return inner.AfterFunc(d, func() {
		s.Locker.Lock()
		defer s.Locker.Unlock()
		f()
	})
}

// ManualScheduler is a virtual clock for tests. Callbacks only fire when
// Advance moves the clock past their deadline.
type ManualScheduler struct {
	mu     sync.Mutex
	now    time.Duration
	seq    uint64
	timers manualHeap
}

// NewManualScheduler returns a scheduler at virtual time zero
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

type manualTimer struct {
	owner    *ManualScheduler
	deadline time.Duration
	seq      uint64
	fn       func()
	index    int
	done     bool
}

func (t *manualTimer) Stop() bool {
	t.owner.mu.Lock()
	defer t.owner.mu.Unlock()

	if t.done {
		return false
	}
	t.done = true
	if t.index >= 0 {
		heap.Remove(&t.owner.timers, t.index)
	}
	return true
}

type manualHeap []*manualTimer

func (h manualHeap) Len() int { return len(h) }

func (h manualHeap) Less(i, j int) bool {
	if h[i].deadline == h[j].deadline {
		return h[i].seq < h[j].seq
	}
	return h[i].deadline < h[j].deadline
}

func (h manualHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *manualHeap) Push(x any) {
	t := x.(*manualTimer)
	t.index = len(*h)
	*h = append(*h, t)
}

func (h *manualHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*h = old[:n-1]
	return t
}

// AfterFunc registers f to fire d after the current virtual time
func (s *ManualScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	t := &manualTimer{owner: s, deadline: s.now + d, seq: s.seq, fn: f}
	heap.Push(&s.timers, t)
	return t
}

// Advance moves the virtual clock forward by d, firing due callbacks in
// deadline order. Callbacks run without the scheduler lock held so they may
// schedule or stop other timers.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now + d
	s.mu.Unlock()

	for {
		s.mu.Lock()
		if len(s.timers) == 0 || s.timers[0].deadline > target {
			s.now = target
			s.mu.Unlock()
			return
		}
		t := heap.Pop(&s.timers).(*manualTimer)
		t.done = true
		s.now = t.deadline
		s.mu.Unlock()

		t.fn()
	}
}

// Pending returns the number of timers still waiting
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Now returns the current virtual time
func (s *ManualScheduler) Now() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}
