package namespace

import (
	"fmt"
	"reflect"
)

// Namespace is a mutable container mapping names to values.
//
// Implementations must never panic on missing names; Lookup reports
// absence through its second return value.
type Namespace interface {
	// Lookup returns the value stored under name.
	Lookup(name string) (any, bool)

	// Assign stores v under name, replacing any previous value.
	Assign(name string, v any)

	// Delete removes name. Deleting a missing name is a no-op.
	Delete(name string)
}

// PlaceholderMaker is implemented by namespaces that create their own
// placeholder values for missing intermediate path segments.
type PlaceholderMaker interface {
	NewPlaceholder() any
}

// Callable is a value that can be invoked by the alias engine.
//
// recv is the receiver context (the source namespace for sources and
// filters). Hosts without a receiver concept may ignore it.
type Callable interface {
	Call(recv any, args []any) (any, error)
}

// Func is the signature of a Go callable.
type Func func(recv any, args []any) (any, error)

// Function wraps a Go func as a Callable with pointer identity.
// Func values are not comparable in Go, so namespaces store *Function.
type Function struct {
	name string
	fn   Func
}

// NewFunction creates a named callable.
func NewFunction(name string, fn Func) *Function {
	return &Function{name: name, fn: fn}
}

// Name returns the function name.
func (f *Function) Name() string { return f.name }

// Call implements Callable.
func (f *Function) Call(recv any, args []any) (any, error) {
	if f.fn == nil {
		return nil, nil
	}
	return f.fn(recv, args)
}

// String returns a short description.
func (f *Function) String() string {
	return fmt.Sprintf("function %s", f.name)
}

// Same reports whether a and b are the identical value.
// Values of uncomparable dynamic types are never identical.
func Same(a, b any) bool {
	if a == nil || b == nil {
		return false
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}

// AsNamespace returns v as a Namespace if it can hold other values.
func AsNamespace(v any) (Namespace, bool) {
	ns, ok := v.(Namespace)
	return ns, ok && ns != nil
}
