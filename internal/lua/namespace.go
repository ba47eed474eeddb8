package lua

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// TableNamespace adapts a Lua table to namespace.Namespace.
type TableNamespace struct {
	state *State
	table *lua.LTable
}

// namespaceFor returns the cached namespace for a table.
func (s *State) namespaceFor(t *lua.LTable) *TableNamespace {
	if ns, ok := s.tables[t]; ok {
		return ns
	}
	ns := &TableNamespace{state: s, table: t}
	s.tables[t] = ns
	return ns
}

// Table returns the underlying Lua table.
func (t *TableNamespace) Table() *lua.LTable { return t.table }

// Lookup implements namespace.Namespace. Metatables are not consulted.
func (t *TableNamespace) Lookup(name string) (any, bool) {
	lv := t.table.RawGetString(name)
	if lv == lua.LNil {
		return nil, false
	}
	return t.state.toGo(lv), true
}

// Assign implements namespace.Namespace.
func (t *TableNamespace) Assign(name string, v any) {
	t.table.RawSetString(name, t.state.toLua(v))
}

// Delete implements namespace.Namespace.
func (t *TableNamespace) Delete(name string) {
	t.table.RawSetString(name, lua.LNil)
}

// NewPlaceholder implements namespace.PlaceholderMaker. Placeholders are
// empty tables that can be called and do nothing.
func (t *TableNamespace) NewPlaceholder() any {
	L := t.state.L
	tbl := L.NewTable()
	mt := L.NewTable()
	mt.RawSetString("__call", L.NewFunction(func(*lua.LState) int { return 0 }))
	L.SetMetatable(tbl, mt)
	return t.state.namespaceFor(tbl)
}

// Names returns the string keys of the table.
func (t *TableNamespace) Names() []string {
	var names []string
	t.table.ForEach(func(k, _ lua.LValue) {
		if s, ok := k.(lua.LString); ok {
			names = append(names, string(s))
		}
	})
	return names
}

// String implements fmt.Stringer.
func (t *TableNamespace) String() string {
	if t.table == t.state.L.G.Global {
		return "_G"
	}
	return fmt.Sprintf("table: %p", t.table)
}
