package filter

import "github.com/dshills/alias/internal/namespace"

// filterer is implemented by callables that know how to act as a filter
// in their own host, such as Lua functions.
type filterer interface {
	Filter() Filter
}

// FromCallable adapts a callable to a filter. A falsy result keeps the
// arguments; any other result replaces them with that single value.
func FromCallable(c namespace.Callable) Filter {
	if f, ok := c.(filterer); ok {
		return f.Filter()
	}
	return func(recv any, args []any) (Outcome, error) {
		v, err := c.Call(recv, args)
		if err != nil {
			return Outcome{}, err
		}
		if !Truthy(v) {
			return Pass(), nil
		}
		return With(v), nil
	}
}
