package watcher

import (
	"sort"
	"sync"
	"time"

	"github.com/dshills/alias/internal/schedule"
)

// Debouncer coalesces triggers into one Event per quiet period. Every
// trigger restarts the timer.
type Debouncer struct {
	sched schedule.Scheduler
	delay time.Duration

	mu      sync.Mutex
	paths   map[string]bool
	op      Op
	pending *schedule.Handle
	events  chan Event
	closed  bool
}

// NewDebouncer creates a debouncer delivering on a channel of capacity
// bufSize.
func NewDebouncer(sched schedule.Scheduler, delay time.Duration, bufSize int) *Debouncer {
	if delay <= 0 {
		delay = 100 * time.Millisecond
	}
	if bufSize <= 0 {
		bufSize = 1
	}
	return &Debouncer{
		sched:  sched,
		delay:  delay,
		paths:  make(map[string]bool),
		events: make(chan Event, bufSize),
	}
}

// Events returns the coalesced event channel.
func (d *Debouncer) Events() <-chan Event {
	return d.events
}

// Trigger records a change and restarts the quiet period.
func (d *Debouncer) Trigger(path string, op Op) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}
	d.paths[path] = true
	d.op |= op
	d.pending.Cancel()
	d.pending = d.sched.AfterFunc(d.delay, d.fire)
}

// Pending reports whether a burst is waiting to be delivered.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.paths) > 0
}

func (d *Debouncer) fire() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed || len(d.paths) == 0 {
		return
	}
	ev := Event{Op: d.op, Paths: make([]string, 0, len(d.paths))}
	for p := range d.paths {
		ev.Paths = append(ev.Paths, p)
	}
	sort.Strings(ev.Paths)
	d.paths = make(map[string]bool)
	d.op = 0
	d.pending = nil

	select {
	case d.events <- ev:
	default:
		// Channel full, drop event
	}
}

// Close cancels any pending burst and closes the event channel.
func (d *Debouncer) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}
	d.closed = true
	d.pending.Cancel()
	close(d.events)
}
