package alias

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
)

// Namer generates candidate names for relocated sources. The engine
// retries until the candidate is free, so a Namer need not check the
// namespace itself.
type Namer interface {
	Next(base string) string
}

// Counter appends a monotonically increasing suffix. It is deterministic
// and safe for concurrent use.
type Counter struct {
	n atomic.Uint64
}

// NewCounter creates a counter namer starting at 1.
func NewCounter() *Counter { return &Counter{} }

// Next implements Namer.
func (c *Counter) Next(base string) string {
	return fmt.Sprintf("%s__alias%d", base, c.n.Add(1))
}

// UUIDNamer appends a random UUID suffix. Useful when several engines
// relocate into the same namespace.
type UUIDNamer struct{}

// Next implements Namer.
func (UUIDNamer) Next(base string) string {
	return base + "__" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// NamerByKind returns the namer for a settings value ("counter" or "uuid").
func NamerByKind(kind string) (Namer, error) {
	switch kind {
	case "", "counter":
		return NewCounter(), nil
	case "uuid":
		return UUIDNamer{}, nil
	default:
		return nil, fmt.Errorf("alias: unknown namer %q", kind)
	}
}
