// Package filter runs ordered filter chains around alias invocation stages.
//
// A before filter receives the current argument list and may replace it.
// An after filter receives a single-element list holding the current
// return value and may replace that value. Any filter may halt, which
// aborts the rest of the chain and the surrounding dispatch without
// being reported as an error.
package filter

// Kind is the stage a chain runs around.
type Kind uint8

const (
	// Before chains thread argument lists.
	Before Kind = iota
	// After chains thread a single return value.
	After
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Before:
		return "before"
	case After:
		return "after"
	default:
		return "unknown"
	}
}

// Verdict is what a filter decided.
type Verdict uint8

const (
	// Keep leaves the threaded arguments unchanged.
	Keep Verdict = iota
	// Replace substitutes Outcome.Args for the threaded arguments.
	Replace
	// Halt aborts the chain and the current dispatch.
	Halt
)

// String returns the verdict name.
func (v Verdict) String() string {
	switch v {
	case Keep:
		return "keep"
	case Replace:
		return "replace"
	case Halt:
		return "halt"
	default:
		return "unknown"
	}
}

// Outcome is the result of a single filter.
type Outcome struct {
	Verdict Verdict
	Args    []any
}

// Pass keeps the current arguments.
func Pass() Outcome { return Outcome{Verdict: Keep} }

// With replaces the current arguments. For after filters only the first
// value is used.
func With(args ...any) Outcome { return Outcome{Verdict: Replace, Args: args} }

// Stop halts the chain.
func Stop() Outcome { return Outcome{Verdict: Halt} }

// Filter inspects or transforms arguments. recv is the source scope.
// A non-nil error is a genuine fault and propagates to the caller of the
// aliased destination.
type Filter func(recv any, args []any) (Outcome, error)

// Run executes filters in registration order, threading args through
// them. halted is true when a filter stopped the chain; args is then nil.
func Run(kind Kind, filters []Filter, recv any, args []any) (out []any, halted bool, err error) {
	out = args
	if kind == After {
		out = singleton(args)
	}

	for _, f := range filters {
		if f == nil {
			continue
		}
		res, err := f(recv, out)
		if err != nil {
			return nil, false, err
		}

		switch res.Verdict {
		case Halt:
			return nil, true, nil
		case Replace:
			if kind == After {
				out = singleton(res.Args)
			} else {
				out = res.Args
			}
		}
	}
	return out, false, nil
}

// Value runs an after chain around a single value.
func Value(filters []Filter, recv any, v any) (any, bool, error) {
	out, halted, err := Run(After, filters, recv, []any{v})
	if err != nil || halted {
		return nil, halted, err
	}
	return out[0], false, nil
}

// Truthy reports whether v counts as a real filter result under the
// scripting convention: nil and false keep the previous arguments.
func Truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	default:
		return true
	}
}

func singleton(args []any) []any {
	if len(args) == 0 {
		return []any{nil}
	}
	return args[:1:1]
}
