package schedule

import "time"

// Scheduler runs thunks after a delay.
type Scheduler interface {
	// AfterFunc arranges for fn to run once d has elapsed and returns a
	// handle that can cancel the pending call.
	AfterFunc(d time.Duration, fn func()) *Handle
}

// Handle refers to one scheduled thunk.
type Handle struct {
	delay  time.Duration
	cancel func() bool
}

// NewHandle creates a handle for schedulers outside this package.
func NewHandle(delay time.Duration, cancel func() bool) *Handle {
	return &Handle{delay: delay, cancel: cancel}
}

// Delay returns the delay the thunk was scheduled with.
func (h *Handle) Delay() time.Duration { return h.delay }

// Cancel prevents the thunk from running. It returns false if the thunk
// already ran or was already cancelled.
func (h *Handle) Cancel() bool {
	if h == nil || h.cancel == nil {
		return false
	}
	return h.cancel()
}
