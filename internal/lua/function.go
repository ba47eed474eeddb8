package lua

import (
	"errors"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/alias/internal/filter"
)

// Function is a Lua function seen from Go. Each Lua function has exactly
// one Function, so identity comparisons hold across lookups.
type Function struct {
	state *State
	fn    *lua.LFunction
}

// LFunction returns the underlying Lua function.
func (f *Function) LFunction() *lua.LFunction { return f.fn }

// String describes the function and where it was defined.
func (f *Function) String() string { return describe(f.fn) }

// Call implements namespace.Callable. The receiver is ignored; Lua
// functions see only their arguments. Only the first result is returned.
func (f *Function) Call(_ any, args []any) (any, error) {
	results, err := f.CallMulti(args...)
	if err != nil || len(results) == 0 {
		return nil, err
	}
	return results[0], nil
}

// CallMulti calls the function and returns every result.
func (f *Function) CallMulti(args ...any) ([]any, error) {
	s := f.state
	if s.closed {
		return nil, ErrStateClosed
	}
	L := s.L

	base := L.GetTop()
	L.Push(f.fn)
	for _, arg := range args {
		L.Push(s.toLua(arg))
	}
	if err := L.PCall(len(args), lua.MultRet, nil); err != nil {
		L.SetTop(base)
		return nil, s.unwrap(err)
	}

	top := L.GetTop()
	results := make([]any, 0, top-base)
	for i := base + 1; i <= top; i++ {
		results = append(results, s.toGo(L.Get(i)))
	}
	L.SetTop(base)
	return results, nil
}

// Filter adapts a Lua function to a filter.
//
// A nil or false first result keeps the arguments. Any other results
// replace them. Calling alias.halt() stops the invocation.
func (f *Function) Filter() filter.Filter {
	return func(_ any, args []any) (filter.Outcome, error) {
		results, err := f.CallMulti(args...)
		if errors.Is(err, ErrHalt) {
			return filter.Stop(), nil
		}
		if err != nil {
			return filter.Outcome{}, err
		}
		if len(results) == 0 || !filter.Truthy(results[0]) {
			return filter.Pass(), nil
		}
		return filter.With(results...), nil
	}
}
