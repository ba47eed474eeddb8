package schedule

import "time"

// Real returns a Scheduler backed by time.AfterFunc. Thunks run on their
// own goroutine.
func Real() Scheduler { return realScheduler{} }

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, fn func()) *Handle {
	t := time.AfterFunc(d, fn)
	return &Handle{delay: d, cancel: t.Stop}
}
