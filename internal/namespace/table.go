package namespace

import (
	"sort"
	"sync"
)

// Table is a map-backed Namespace. It is safe for concurrent use.
type Table struct {
	mu     sync.RWMutex
	values map[string]any
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{values: make(map[string]any)}
}

// Lookup implements Namespace.
func (t *Table) Lookup(name string) (any, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.values[name]
	return v, ok
}

// Assign implements Namespace.
func (t *Table) Assign(name string, v any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.values == nil {
		t.values = make(map[string]any)
	}
	t.values[name] = v
}

// Delete implements Namespace.
func (t *Table) Delete(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.values, name)
}

// Names returns the stored names in sorted order.
func (t *Table) Names() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	names := make([]string, 0, len(t.values))
	for name := range t.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of stored names.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.values)
}

// Define stores a Go func under name and returns the wrapping Function.
func (t *Table) Define(name string, fn Func) *Function {
	f := NewFunction(name, fn)
	t.Assign(name, f)
	return f
}

// Placeholder fills a missing intermediate path segment. It is both a
// namespace and a callable that does nothing.
type Placeholder struct {
	Table
}

// NewPlaceholder creates an empty placeholder.
func NewPlaceholder() *Placeholder {
	return &Placeholder{Table: Table{values: make(map[string]any)}}
}

// Call implements Callable.
func (p *Placeholder) Call(recv any, args []any) (any, error) {
	return nil, nil
}
