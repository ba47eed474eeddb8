package alias

import (
	"fmt"
	"slices"

	"github.com/dshills/alias/internal/filter"
	"github.com/dshills/alias/internal/namespace"
)

// Dispatcher is the callable installed at a destination. Each call runs
// the alias's sources in order, wrapped in its filter chains.
type Dispatcher struct {
	alias *Alias
	dest  string
}

// Destination returns the path the dispatcher was installed under.
func (d *Dispatcher) Destination() string { return d.dest }

// Alias returns the configuration the dispatcher belongs to.
func (d *Dispatcher) Alias() *Alias { return d.alias }

// String returns a short description.
func (d *Dispatcher) String() string {
	return fmt.Sprintf("alias dispatcher %s", d.dest)
}

// Call implements namespace.Callable.
//
// Without a delay the result is that of the last source after the after
// filters, or nil when a filter halted. With a delay, Call returns the
// *schedule.Handle of the pending execution immediately.
func (d *Dispatcher) Call(recv any, args []any) (any, error) {
	a := d.alias

	a.mu.Lock()
	named, delay := a.namedCaller, a.delay
	a.mu.Unlock()

	callArgs := make([]any, 0, len(args)+1)
	if named {
		callArgs = append(callArgs, d.dest)
	}
	callArgs = append(callArgs, args...)

	if delay <= 0 {
		return a.execute(callArgs)
	}
	return a.deferCall(d.dest, delay, callArgs), nil
}

// execute runs one dispatch synchronously, then fires an armed revert
// if this dispatch's own invocations reached its threshold.
func (a *Alias) execute(args []any) (any, error) {
	snap := a.snapshot()
	var counts []int64
	ret, err := a.dispatch(snap, args, &counts)
	if err != nil {
		return nil, err
	}
	if reachedThreshold(snap.revertAt, counts) {
		if err := a.Revert(); err != nil {
			return nil, err
		}
	}
	return ret, nil
}

// dispatch runs the filter chains and sources. counts receives the call
// counter value after each source invocation.
func (a *Alias) dispatch(snap snapshot, args []any, counts *[]int64) (any, error) {
	r := a.engine.resolver

	scope, err := r.Scope(snap.sourceScope)
	if err != nil {
		return nil, err
	}
	// Filters and sources see the source namespace as their receiver.
	var recv any = scope

	args, halted, err := filter.Run(filter.Before, snap.beforeAll, recv, args)
	if err != nil || halted {
		return nil, err
	}

	var ret any
	for _, src := range snap.sources {
		args, halted, err = filter.Run(filter.Before, snap.beforeEach, recv, args)
		if err != nil || halted {
			return nil, err
		}

		*counts = append(*counts, a.calls.Add(1))

		fn, err := a.source(snap.sourceScope, src)
		if err != nil {
			return nil, err
		}
		ret, err = fn.Call(recv, args)
		if err != nil {
			return nil, err
		}

		ret, halted, err = filter.Value(snap.afterEach, recv, ret)
		if err != nil || halted {
			return nil, err
		}
	}

	ret, halted, err = filter.Value(snap.afterAll, recv, ret)
	if err != nil || halted {
		return nil, err
	}
	return ret, nil
}

// reachedThreshold reports whether any counter value produced by one
// dispatch equals an armed threshold. Counter values are unique until
// ResetCallCount, so only one dispatch can reach a given threshold.
func reachedThreshold(thresholds, counts []int64) bool {
	for _, n := range thresholds {
		if slices.Contains(counts, n) {
			return true
		}
	}
	return false
}

// source resolves a source path at invocation time so relocations made
// by the collision guard are honored.
func (a *Alias) source(scope namespace.Scope, path string) (namespace.Callable, error) {
	v, ok := a.engine.resolver.Get(scope, path)
	if !ok {
		return nil, fmt.Errorf("%w: %s in %s", ErrSourceNotFound, path, scope)
	}
	fn, ok := v.(namespace.Callable)
	if !ok {
		return nil, fmt.Errorf("%w: %s is %T", ErrNotCallable, path, v)
	}
	return fn, nil
}
