package alias

import "errors"

// Alias errors.
var (
	// ErrNoSources indicates an install without any source paths.
	ErrNoSources = errors.New("alias: no sources")

	// ErrNoDestinations indicates an install without any destination paths.
	ErrNoDestinations = errors.New("alias: no destinations")

	// ErrNegativeDelay indicates a negative delay period.
	ErrNegativeDelay = errors.New("alias: negative delay")

	// ErrInvalidRevertCount indicates a non-positive automatic revert count.
	ErrInvalidRevertCount = errors.New("alias: revert count must be positive")

	// ErrSourceNotFound indicates a source path that resolved to nothing
	// at invocation time.
	ErrSourceNotFound = errors.New("alias: source not found")

	// ErrNotCallable indicates a source path holding a non-callable value.
	ErrNotCallable = errors.New("alias: source is not callable")
)
