package schedule

import (
	"context"
	"sync"
	"time"
)

// Loop is a cooperative run loop. AfterFunc may be called from any
// goroutine, but thunks only run on the goroutine executing Run or
// RunUntilIdle, one at a time.
type Loop struct {
	mu     sync.Mutex
	now    func() time.Time
	seq    uint64
	timers []*loopTimer
	wake   chan struct{}
}

type loopTimer struct {
	due  time.Time
	seq  uint64
	fn   func()
	done bool
}

// NewLoop creates an empty run loop.
func NewLoop() *Loop {
	return &Loop{
		now:  time.Now,
		wake: make(chan struct{}, 1),
	}
}

// AfterFunc implements Scheduler.
func (l *Loop) AfterFunc(d time.Duration, fn func()) *Handle {
	l.mu.Lock()
	l.seq++
	t := &loopTimer{due: l.now().Add(d), seq: l.seq, fn: fn}
	l.timers = append(l.timers, t)
	l.mu.Unlock()
	l.signal()

	return &Handle{
		delay: d,
		cancel: func() bool {
			l.mu.Lock()
			defer l.mu.Unlock()
			if t.done {
				return false
			}
			t.done = true
			l.removeLocked(t)
			return true
		},
	}
}

// Post schedules fn to run on the loop as soon as possible.
func (l *Loop) Post(fn func()) *Handle {
	return l.AfterFunc(0, fn)
}

// Pending returns the number of thunks waiting to run.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.timers)
}

// Run executes thunks as they become due until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	return l.run(ctx, false)
}

// RunUntilIdle executes thunks until none are pending or ctx is done.
func (l *Loop) RunUntilIdle(ctx context.Context) error {
	return l.run(ctx, true)
}

func (l *Loop) run(ctx context.Context, stopWhenIdle bool) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fn, wait, ok := l.next()
		if fn != nil {
			fn()
			continue
		}
		if !ok {
			if stopWhenIdle {
				return nil
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-l.wake:
			}
			continue
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-l.wake:
			timer.Stop()
		case <-timer.C:
		}
	}
}

// next pops the earliest due thunk. When nothing is due it reports how
// long to wait; ok is false when the loop is empty.
func (l *Loop) next() (fn func(), wait time.Duration, ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.timers) == 0 {
		return nil, 0, false
	}

	earliest := l.timers[0]
	for _, t := range l.timers[1:] {
		if t.due.Before(earliest.due) || (t.due.Equal(earliest.due) && t.seq < earliest.seq) {
			earliest = t
		}
	}

	now := l.now()
	if earliest.due.After(now) {
		return nil, earliest.due.Sub(now), true
	}
	earliest.done = true
	l.removeLocked(earliest)
	return earliest.fn, 0, true
}

func (l *Loop) removeLocked(t *loopTimer) {
	for i, cur := range l.timers {
		if cur == t {
			l.timers = append(l.timers[:i], l.timers[i+1:]...)
			return
		}
	}
}

func (l *Loop) signal() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}
