// Package schedule provides the delayed-execution capability used by
// delayed aliases.
//
// Production code that only needs "run this later" uses Real(). Hosts
// whose runtime is not goroutine-safe (the Lua interpreter) use a Loop,
// which runs every thunk on the goroutine that calls Run. Tests use
// Fake, which fires thunks only when Advance is called:
//
//	s := schedule.NewFake()
//	h := s.AfterFunc(100*time.Millisecond, fn)
//	s.Advance(99 * time.Millisecond) // fn has not run
//	s.Advance(time.Millisecond)      // fn runs here, synchronously
//	h.Cancel()                       // false, already fired
package schedule
