package lua

import (
	"errors"
	"fmt"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/alias/internal/alias"
	"github.com/dshills/alias/internal/filter"
	"github.com/dshills/alias/internal/namespace"
)

const aliasTypeName = "alias.Alias"

// Module exposes an alias engine to Lua as the global alias builder.
//
//	local a = alias("a", "b"):withNamedCaller():delayBy(10):as("c")
//	a:beforeEach(function(x) return x * 2 end)
//	a:revert()
//
// Inside a filter, alias.halt() stops the invocation.
type Module struct {
	state   *State
	engine  *alias.Engine
	aliases []*alias.Alias
}

// InstallModule registers the alias global in s backed by eng.
func InstallModule(s *State, eng *alias.Engine) *Module {
	m := &Module{state: s, engine: eng}
	L := s.L

	methods := L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"as":                   m.as,
		"withNamedCaller":      m.withNamedCaller,
		"withAnonymousCaller":  m.withAnonymousCaller,
		"delayBy":              m.delayBy,
		"withScope":            m.withScope,
		"withSourceScope":      m.withSourceScope,
		"withDestinationScope": m.withDestinationScope,
		"beforeAll":            m.filterAdder((*alias.Alias).BeforeAll),
		"beforeEach":           m.filterAdder((*alias.Alias).BeforeEach),
		"afterEach":            m.filterAdder((*alias.Alias).AfterEach),
		"afterAll":             m.filterAdder((*alias.Alias).AfterAll),
		"revert":               m.revert,
		"once":                 m.once,
		"callCount":            m.callCount,
		"resetCallCount":       m.resetCallCount,
		"cancelPending":        m.cancelPending,
		"sources":              m.sources,
		"destinations":         m.destinations,
	})
	mt := L.NewTypeMetatable(aliasTypeName)
	L.SetField(mt, "__index", methods)
	L.SetField(mt, "__tostring", L.NewFunction(m.tostring))

	global := L.NewTable()
	L.SetField(global, "halt", L.NewFunction(func(*lua.LState) int {
		s.raise(ErrHalt)
		return 0
	}))
	gmt := L.NewTable()
	L.SetField(gmt, "__call", L.NewFunction(m.create))
	L.SetMetatable(global, gmt)
	L.SetGlobal("alias", global)

	return m
}

// Aliases returns every alias created from Lua, oldest first.
func (m *Module) Aliases() []*alias.Alias {
	return append([]*alias.Alias(nil), m.aliases...)
}

// Len returns the number of aliases created from Lua.
func (m *Module) Len() int { return len(m.aliases) }

// RevertAll reverts every alias created from Lua, newest first.
func (m *Module) RevertAll() error {
	return m.RevertSince(0)
}

// RevertSince reverts the aliases created from index i on, newest first,
// and forgets them. Aliases created earlier stay installed.
func (m *Module) RevertSince(i int) error {
	i = max(i, 0)
	var errs []error
	for j := len(m.aliases) - 1; j >= i; j-- {
		a := m.aliases[j]
		a.CancelPending()
		if err := a.Revert(); err != nil {
			errs = append(errs, err)
		}
	}
	if i < len(m.aliases) {
		m.aliases = m.aliases[:i]
	}
	return errors.Join(errs...)
}

// create implements alias(source, ...). Argument 1 is the alias table.
func (m *Module) create(L *lua.LState) int {
	top := L.GetTop()
	sources := make([]string, 0, top)
	for i := 2; i <= top; i++ {
		sources = append(sources, L.CheckString(i))
	}
	a := m.engine.Alias(sources...)
	m.aliases = append(m.aliases, a)

	ud := L.NewUserData()
	ud.Value = a
	L.SetMetatable(ud, L.GetTypeMetatable(aliasTypeName))
	L.Push(ud)
	return 1
}

func (m *Module) check(L *lua.LState) *alias.Alias {
	ud := L.CheckUserData(1)
	if a, ok := ud.Value.(*alias.Alias); ok {
		return a
	}
	L.ArgError(1, "alias expected")
	return nil
}

// chain returns the receiver for method chaining.
func chain(L *lua.LState) int {
	L.Push(L.Get(1))
	return 1
}

func (m *Module) as(L *lua.LState) int {
	a := m.check(L)
	top := L.GetTop()
	dests := make([]string, 0, top)
	for i := 2; i <= top; i++ {
		dests = append(dests, L.CheckString(i))
	}
	if _, err := a.As(dests...); err != nil {
		m.state.raise(err)
	}
	return chain(L)
}

func (m *Module) withNamedCaller(L *lua.LState) int {
	m.check(L).WithNamedCaller()
	return chain(L)
}

func (m *Module) withAnonymousCaller(L *lua.LState) int {
	m.check(L).WithAnonymousCaller()
	return chain(L)
}

// delayBy takes milliseconds.
func (m *Module) delayBy(L *lua.LState) int {
	a := m.check(L)
	ms := float64(L.CheckNumber(2))
	a.DelayBy(time.Duration(ms * float64(time.Millisecond)))
	return chain(L)
}

func (m *Module) withScope(L *lua.LState) int {
	a := m.check(L)
	src := m.scopeArg(L, 2)
	if L.GetTop() >= 3 && L.Get(3) != lua.LNil {
		a.WithScope(src, m.scopeArg(L, 3))
	} else {
		a.WithScope(src)
	}
	return chain(L)
}

func (m *Module) withSourceScope(L *lua.LState) int {
	m.check(L).WithSourceScope(m.scopeArg(L, 2))
	return chain(L)
}

func (m *Module) withDestinationScope(L *lua.LState) int {
	m.check(L).WithDestinationScope(m.scopeArg(L, 2))
	return chain(L)
}

// scopeArg accepts a global name or a table.
func (m *Module) scopeArg(L *lua.LState, n int) namespace.Scope {
	switch v := L.Get(n).(type) {
	case lua.LString:
		return namespace.Named(string(v))
	case *lua.LTable:
		return namespace.Direct(m.state.namespaceFor(v))
	}
	L.ArgError(n, "scope must be a name or a table")
	return nil
}

func (m *Module) filterAdder(add func(*alias.Alias, filter.Filter) *alias.Alias) lua.LGFunction {
	return func(L *lua.LState) int {
		a := m.check(L)
		fn := L.CheckFunction(2)
		f, ok := m.state.functionFor(fn).(*Function)
		if !ok {
			L.ArgError(2, "filter must be a Lua function")
			return 0
		}
		add(a, f.Filter())
		return chain(L)
	}
}

// revert reverts now, or after n calls when n is given.
func (m *Module) revert(L *lua.LState) int {
	a := m.check(L)
	if L.GetTop() >= 2 && L.Get(2) != lua.LNil {
		if err := a.RevertAfter(L.CheckInt(2)); err != nil {
			m.state.raise(err)
		}
		return chain(L)
	}
	if err := a.Revert(); err != nil {
		m.state.raise(err)
	}
	return chain(L)
}

func (m *Module) once(L *lua.LState) int {
	m.check(L).Once()
	return chain(L)
}

func (m *Module) callCount(L *lua.LState) int {
	L.Push(lua.LNumber(m.check(L).CallCount()))
	return 1
}

func (m *Module) resetCallCount(L *lua.LState) int {
	m.check(L).ResetCallCount()
	return chain(L)
}

func (m *Module) cancelPending(L *lua.LState) int {
	L.Push(lua.LNumber(m.check(L).CancelPending()))
	return 1
}

func (m *Module) sources(L *lua.LState) int {
	L.Push(m.state.toLua(m.check(L).Sources()))
	return 1
}

func (m *Module) destinations(L *lua.LState) int {
	L.Push(m.state.toLua(m.check(L).Destinations()))
	return 1
}

func (m *Module) tostring(L *lua.LState) int {
	a := m.check(L)
	L.Push(lua.LString(fmt.Sprintf("alias(%s) -> %s",
		strings.Join(a.Sources(), ", "), strings.Join(a.Destinations(), ", "))))
	return 1
}
