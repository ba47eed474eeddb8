package alias

import (
	"time"

	"github.com/dshills/alias/internal/schedule"
)

// deferCall schedules execute through the engine scheduler and returns the
// pending handle.
func (a *Alias) deferCall(dest string, delay time.Duration, args []any) *schedule.Handle {
	call := &pendingCall{}

	a.mu.Lock()
	a.pending[call] = struct{}{}
	a.mu.Unlock()

	h := a.engine.scheduler.AfterFunc(delay, func() {
		a.mu.Lock()
		delete(a.pending, call)
		cancelled := call.cancelled
		sink := a.onDelayedErr
		a.mu.Unlock()
		if cancelled {
			return
		}

		if _, err := a.execute(args); err != nil {
			a.engine.logger.Error("delayed alias call failed", "destination", dest, "error", err)
			if sink != nil {
				sink(err)
			}
		}
	})

	a.mu.Lock()
	call.handle = h
	a.mu.Unlock()
	return h
}

// CancelPending cancels every delayed execution that has not run yet and
// returns how many were cancelled. A call whose timer is still being
// armed is marked so it never executes.
func (a *Alias) CancelPending() int {
	a.mu.Lock()
	handles := make([]*schedule.Handle, 0, len(a.pending))
	for c := range a.pending {
		c.cancelled = true
		handles = append(handles, c.handle)
	}
	a.pending = make(map[*pendingCall]struct{})
	a.mu.Unlock()

	for _, h := range handles {
		h.Cancel()
	}
	return len(handles)
}

// Pending returns the number of delayed executions not yet run.
func (a *Alias) Pending() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.pending)
}
