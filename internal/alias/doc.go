// Package alias installs redirecting callables into namespaces.
//
// An alias routes calls made under one or more destination names to one
// or more source callables, in order:
//
//	eng := alias.NewEngine(root)
//	a, err := eng.Alias("a", "b", "c").As("x")
//	// x(1, 2) now calls a(1, 2), b(1, 2), c(1, 2)
//
// The builder can prepend the destination name to the arguments
// (WithNamedCaller), delay execution through the engine's scheduler
// (DelayBy) and wrap each stage in filter chains (BeforeAll, BeforeEach,
// AfterEach, AfterAll). A filter may halt the dispatch, which ends the
// call early without reporting an error.
//
// # Installation and revert
//
// As writes a Dispatcher into every destination slot and records an undo
// action for each mutation. Revert replays those actions newest first,
// restoring every slot to its previous value or to absence. RevertAfter
// and Once arm an automatic revert once the call counter reaches a
// threshold.
//
// When a destination already holds the very callable that serves as a
// source (aliasing "a" onto "a"), the source is first relocated under a
// generated name so the dispatcher never calls itself. Names come from
// the engine's Namer, which is deterministic by default.
//
// # Concurrency
//
// The engine is designed for a single logical thread of control. The
// counters and history are safe to touch from scheduler goroutines, but
// hosts that are not goroutine-safe should use a schedule.Loop so that
// delayed executions run on the host's goroutine.
package alias
