package schedule

import (
	"sort"
	"sync"
	"time"
)

// Fake is a deterministic Scheduler. Time stands still until Advance is
// called; due thunks then run synchronously in deadline order, ties in
// registration order.
//
// Do not call Advance from inside a thunk.
type Fake struct {
	mu      sync.Mutex
	elapsed time.Duration
	seq     uint64
	waiters []*fakeWaiter
}

type fakeWaiter struct {
	deadline time.Duration
	seq      uint64
	fn       func()
	stopped  bool
	fired    bool
}

// NewFake creates a fake scheduler at elapsed time zero.
func NewFake() *Fake {
	return &Fake{}
}

// AfterFunc implements Scheduler. A non-positive delay runs fn
// immediately.
func (f *Fake) AfterFunc(d time.Duration, fn func()) *Handle {
	if d <= 0 {
		fn()
		return &Handle{delay: d, cancel: func() bool { return false }}
	}

	f.mu.Lock()
	f.seq++
	w := &fakeWaiter{deadline: f.elapsed + d, seq: f.seq, fn: fn}
	f.waiters = append(f.waiters, w)
	f.mu.Unlock()

	return &Handle{
		delay: d,
		cancel: func() bool {
			f.mu.Lock()
			defer f.mu.Unlock()
			if w.stopped || w.fired {
				return false
			}
			w.stopped = true
			return true
		},
	}
}

// Advance moves time forward by d and runs every thunk that became due,
// including thunks scheduled by those thunks within the window.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	f.elapsed += d
	target := f.elapsed
	f.mu.Unlock()

	for {
		due := f.collect(target)
		if len(due) == 0 {
			return
		}
		for _, w := range due {
			w.fn()
		}
	}
}

// Elapsed returns the total time advanced so far.
func (f *Fake) Elapsed() time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.elapsed
}

// Pending returns the number of thunks waiting to run.
func (f *Fake) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := 0
	for _, w := range f.waiters {
		if !w.stopped && !w.fired {
			n++
		}
	}
	return n
}

// collect removes and returns due waiters in firing order.
func (f *Fake) collect(target time.Duration) []*fakeWaiter {
	f.mu.Lock()
	defer f.mu.Unlock()

	var due []*fakeWaiter
	remaining := f.waiters[:0]
	for _, w := range f.waiters {
		switch {
		case w.stopped:
		case w.deadline <= target:
			w.fired = true
			due = append(due, w)
		default:
			remaining = append(remaining, w)
		}
	}
	f.waiters = remaining

	sort.Slice(due, func(i, j int) bool {
		if due[i].deadline != due[j].deadline {
			return due[i].deadline < due[j].deadline
		}
		return due[i].seq < due[j].seq
	})
	return due
}
