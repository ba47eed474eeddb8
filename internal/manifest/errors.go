package manifest

import (
	"errors"
	"fmt"
)

// Errors for manifest handling.
var (
	// ErrUnknownFormat is returned for file extensions with no decoder.
	ErrUnknownFormat = errors.New("manifest: unknown format")

	// ErrInvalidEntry is wrapped by every validation failure.
	ErrInvalidEntry = errors.New("manifest: invalid entry")

	// ErrFilterNotFound is returned when a filter path does not resolve
	// to a callable in the entry's source scope.
	ErrFilterNotFound = errors.New("manifest: filter not found")
)

// ParseError represents an error while decoding a manifest.
type ParseError struct {
	Path    string
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Line > 0 && e.Column > 0 {
		return fmt.Sprintf("parse error in %s at line %d, column %d: %s", e.Path, e.Line, e.Column, e.Message)
	}
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s at line %d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
