package alias

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dshills/alias/internal/filter"
	"github.com/dshills/alias/internal/namespace"
	"github.com/dshills/alias/internal/schedule"
	"github.com/dshills/alias/internal/undo"
)

// Alias is the configuration of one redirection. Mutators change the
// receiver in place and return it for chaining; As installs it.
type Alias struct {
	engine *Engine

	mu           sync.Mutex
	sources      []string
	destinations []string
	sourceScope  namespace.Scope
	destScope    namespace.Scope
	namedCaller  bool
	delay        time.Duration
	beforeAll    []filter.Filter
	beforeEach   []filter.Filter
	afterEach    []filter.Filter
	afterAll     []filter.Filter
	revertAt     []int64
	onDelayedErr func(error)
	err          error
	pending      map[*pendingCall]struct{}

	calls   atomic.Int64
	history undo.Log
}

// pendingCall tracks one delayed execution until it runs or is cancelled.
type pendingCall struct {
	handle    *schedule.Handle
	cancelled bool
}

// WithScope sets the source scope and the destination scope. When dst is
// omitted the destination scope equals the source scope.
func (a *Alias) WithScope(src namespace.Scope, dst ...namespace.Scope) *Alias {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sourceScope = src
	a.destScope = src
	if len(dst) > 0 && dst[0] != nil {
		a.destScope = dst[0]
	}
	return a
}

// WithSourceScope sets the scope sources are resolved in.
func (a *Alias) WithSourceScope(s namespace.Scope) *Alias {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sourceScope = s
	return a
}

// WithDestinationScope sets the scope destinations are written to.
func (a *Alias) WithDestinationScope(s namespace.Scope) *Alias {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.destScope = s
	return a
}

// WithNamedCaller prepends the destination name to every call's arguments.
func (a *Alias) WithNamedCaller() *Alias {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.namedCaller = true
	return a
}

// WithAnonymousCaller passes call arguments through unchanged (default).
func (a *Alias) WithAnonymousCaller() *Alias {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.namedCaller = false
	return a
}

// DelayBy defers every invocation by d. Zero means immediate. A negative
// delay is reported by As.
func (a *Alias) DelayBy(d time.Duration) *Alias {
	a.mu.Lock()
	defer a.mu.Unlock()
	if d < 0 {
		a.err = fmt.Errorf("%w: %s", ErrNegativeDelay, d)
		return a
	}
	a.err = nil
	a.delay = d
	return a
}

// BeforeAll appends a filter run once per call, before any source.
func (a *Alias) BeforeAll(f filter.Filter) *Alias {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.beforeAll = append(a.beforeAll, f)
	return a
}

// BeforeEach appends a filter run before every source invocation.
func (a *Alias) BeforeEach(f filter.Filter) *Alias {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.beforeEach = append(a.beforeEach, f)
	return a
}

// AfterEach appends a filter run on every source's return value.
func (a *Alias) AfterEach(f filter.Filter) *Alias {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.afterEach = append(a.afterEach, f)
	return a
}

// AfterAll appends a filter run once per call on the final return value.
func (a *Alias) AfterAll(f filter.Filter) *Alias {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.afterAll = append(a.afterAll, f)
	return a
}

// OnDelayedError sets the sink for faults raised by delayed executions,
// which have no caller to return to. Faults are always logged.
func (a *Alias) OnDelayedError(fn func(error)) *Alias {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onDelayedErr = fn
	return a
}

// Sources returns the current source paths, including relocations.
func (a *Alias) Sources() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.sources...)
}

// Destinations returns the destination paths of the latest As call.
func (a *Alias) Destinations() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.destinations...)
}

// CallCount returns the number of source invocations so far.
func (a *Alias) CallCount() int64 {
	return a.calls.Load()
}

// ResetCallCount zeroes the call counter. Installed bindings and history
// are untouched.
func (a *Alias) ResetCallCount() {
	a.calls.Store(0)
}

// History returns the descriptions of recorded undo actions, oldest first.
func (a *Alias) History() []string {
	return a.history.Descriptions()
}

// Installed reports whether any install is waiting to be reverted.
func (a *Alias) Installed() bool {
	return a.history.Len() > 0
}

// snapshot is the configuration one execution works from.
type snapshot struct {
	sources     []string
	sourceScope namespace.Scope
	beforeAll   []filter.Filter
	beforeEach  []filter.Filter
	afterEach   []filter.Filter
	afterAll    []filter.Filter
	revertAt    []int64
}

func (a *Alias) snapshot() snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return snapshot{
		sources:     append([]string(nil), a.sources...),
		sourceScope: a.sourceScope,
		beforeAll:   append([]filter.Filter(nil), a.beforeAll...),
		beforeEach:  append([]filter.Filter(nil), a.beforeEach...),
		afterEach:   append([]filter.Filter(nil), a.afterEach...),
		afterAll:    append([]filter.Filter(nil), a.afterAll...),
		revertAt:    append([]int64(nil), a.revertAt...),
	}
}

// renameSource replaces the first source path equal to from.
func (a *Alias) renameSource(from, to string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i, s := range a.sources {
		if s == from {
			a.sources[i] = to
			return
		}
	}
}
