package namespace

import "errors"

// Namespace errors.
var (
	// ErrEmptyPath indicates a path with no usable segments.
	ErrEmptyPath = errors.New("namespace: empty path")

	// ErrScopeNotFound indicates a scope could not be resolved to a namespace.
	ErrScopeNotFound = errors.New("namespace: scope not found")

	// ErrNotNamespace indicates a path segment holds a value that cannot
	// contain other values.
	ErrNotNamespace = errors.New("namespace: value is not a namespace")
)
