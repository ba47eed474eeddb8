package lua

import "errors"

// Errors for Lua host operations.
var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua: state is closed")

	// ErrHalt is raised by alias.halt() inside a Lua filter. Filters
	// translate it into a halt outcome; anywhere else it is a fault.
	ErrHalt = errors.New("lua: halt")

	// ErrNotFunction is returned when a global used as an entry point is
	// not callable.
	ErrNotFunction = errors.New("lua: not a function")
)
