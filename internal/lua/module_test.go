package lua

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/alias/internal/alias"
	"github.com/dshills/alias/internal/namespace"
	"github.com/dshills/alias/internal/schedule"
)

func newTestModule(t *testing.T) (*State, *Module, *schedule.Fake) {
	t.Helper()
	s, _ := newTestState(t)
	sched := schedule.NewFake()
	eng := alias.NewEngine(s.Globals(), alias.WithScheduler(sched), alias.WithNamer(alias.NewCounter()))
	m := InstallModule(s, eng)
	require.NoError(t, s.DoString(`
		calls = {}
		function record(name)
			return function(...)
				local args = {...}
				table.insert(calls, name .. "(" .. table.concat(args, ",") .. ")")
				return name
			end
		end
	`))
	return s, m, sched
}

func calls(t *testing.T, s *State) []string {
	t.Helper()
	v, ok := s.Globals().Lookup("calls")
	require.True(t, ok)
	tbl := v.(*TableNamespace).Table()
	out := make([]string, 0, tbl.Len())
	for i := 1; i <= tbl.Len(); i++ {
		out = append(out, tbl.RawGetInt(i).String())
	}
	return out
}

func global(t *testing.T, s *State, name string) any {
	t.Helper()
	v, _ := s.Globals().Lookup(name)
	return v
}

func TestLuaAliasDispatchesSources(t *testing.T) {
	s, m, _ := newTestModule(t)

	require.NoError(t, s.DoString(`
		a = record("a")
		b = record("b")
		alias("a", "b"):as("c")
		result = c(1, 2)
	`))

	assert.Equal(t, []string{"a(1,2)", "b(1,2)"}, calls(t, s))
	assert.Equal(t, "b", global(t, s, "result"))
	require.Len(t, m.Aliases(), 1)
	assert.Equal(t, int64(2), m.Aliases()[0].CallCount())
}

func TestLuaNamedCaller(t *testing.T) {
	s, _, _ := newTestModule(t)

	require.NoError(t, s.DoString(`
		a = record("a")
		alias("a"):withNamedCaller():as("x", "y")
		x(1)
		y(2)
	`))
	assert.Equal(t, []string{"a(x,1)", "a(y,2)"}, calls(t, s))
}

func TestLuaFiltersRewriteAndHalt(t *testing.T) {
	s, _, _ := newTestModule(t)

	require.NoError(t, s.DoString(`
		a = record("a")
		alias("a")
			:beforeEach(function(x) return x * 10 end)
			:afterAll(function(r) return r .. "!" end)
			:as("b")
		first = b(1)

		alias("a")
			:beforeAll(function(x) if x < 0 then alias.halt() end end)
			:as("guarded")
		second = guarded(-1)
		third = guarded(5)
	`))

	assert.Equal(t, []string{"a(10)", "a(5)"}, calls(t, s))
	assert.Equal(t, "a!", global(t, s, "first"))
	assert.Nil(t, global(t, s, "second"))
	assert.Equal(t, "a", global(t, s, "third"))
}

func TestLuaFilterFalsyKeepsArguments(t *testing.T) {
	s, _, _ := newTestModule(t)

	require.NoError(t, s.DoString(`
		a = record("a")
		alias("a"):beforeEach(function() return false end):as("b")
		b(7)
	`))
	assert.Equal(t, []string{"a(7)"}, calls(t, s))
}

func TestLuaCollisionAndRevert(t *testing.T) {
	s, _, _ := newTestModule(t)

	require.NoError(t, s.DoString(`
		original = record("f")
		f = original
		local before = alias("f"):beforeEach(function(x) return x + 1 end)
		before:as("f")
		f(1)
		moved = f__alias1 == original
		before:revert()
		restored = f == original
		f(1)
	`))

	assert.Equal(t, []string{"f(2)", "f(1)"}, calls(t, s))
	assert.Equal(t, true, global(t, s, "moved"))
	assert.Equal(t, true, global(t, s, "restored"))
	_, ok := s.Globals().Lookup("f__alias1")
	assert.False(t, ok)
}

func TestLuaOnceAndRevertAfter(t *testing.T) {
	s, _, _ := newTestModule(t)

	require.NoError(t, s.DoString(`
		a = record("a")
		alias("a"):once():as("one")
		one(1)
		gone = one == nil

		local counted = alias("a"):revert(2):as("two")
		two(1)
		still = two ~= nil
		two(2)
		count = counted:callCount()
	`))

	assert.Equal(t, true, global(t, s, "gone"))
	assert.Equal(t, true, global(t, s, "still"))
	assert.Nil(t, global(t, s, "two"))
	assert.Equal(t, int64(2), global(t, s, "count"))
}

func TestLuaDelayedAlias(t *testing.T) {
	s, _, sched := newTestModule(t)

	require.NoError(t, s.DoString(`
		a = record("a")
		alias("a"):delayBy(50):as("later")
		handle = later(3)
	`))
	assert.Empty(t, calls(t, s))
	assert.IsType(t, &schedule.Handle{}, global(t, s, "handle"))

	sched.Advance(49 * time.Millisecond)
	assert.Empty(t, calls(t, s))
	sched.Advance(time.Millisecond)
	assert.Equal(t, []string{"a(3)"}, calls(t, s))
}

func TestLuaCancelPending(t *testing.T) {
	s, _, sched := newTestModule(t)

	require.NoError(t, s.DoString(`
		a = record("a")
		local d = alias("a"):delayBy(10):as("later")
		later(1)
		later(2)
		cancelled = d:cancelPending()
	`))
	sched.Advance(time.Second)

	assert.Equal(t, int64(2), global(t, s, "cancelled"))
	assert.Empty(t, calls(t, s))
}

func TestLuaScopes(t *testing.T) {
	s, _, _ := newTestModule(t)

	require.NoError(t, s.DoString(`
		lib = { a = record("lib.a") }
		out = {}
		alias("a"):withScope("lib", out):as("b")
		out.b(1)

		alias("a"):withSourceScope(lib):as("top")
		top(2)
	`))
	assert.Equal(t, []string{"lib.a(1)", "lib.a(2)"}, calls(t, s))
}

func TestLuaInstallErrorsRaise(t *testing.T) {
	s, _, _ := newTestModule(t)

	err := s.DoString(`alias("missing_scope_fn"):withSourceScope("nowhere"):as("x")`)
	assert.ErrorIs(t, err, namespace.ErrScopeNotFound)

	err = s.DoString(`alias():as("x")`)
	assert.ErrorIs(t, err, alias.ErrNoSources)

	err = s.DoString(`alias("a"):revert(0)`)
	assert.ErrorIs(t, err, alias.ErrInvalidRevertCount)
}

func TestLuaMissingSourceFaultsAtCallTime(t *testing.T) {
	s, _, _ := newTestModule(t)

	require.NoError(t, s.DoString(`alias("ghost"):as("g")`))
	err := s.DoString(`g()`)
	assert.ErrorIs(t, err, alias.ErrSourceNotFound)
}

func TestModuleRevertAll(t *testing.T) {
	s, m, sched := newTestModule(t)

	require.NoError(t, s.DoString(`
		a = record("a")
		alias("a"):as("x")
		alias("a"):delayBy(5):as("y")
		y()
	`))
	require.NoError(t, m.RevertAll())
	sched.Advance(time.Second)

	assert.Nil(t, global(t, s, "x"))
	assert.Nil(t, global(t, s, "y"))
	assert.Empty(t, calls(t, s))
	assert.Empty(t, m.Aliases())
}

func TestModuleRevertSince(t *testing.T) {
	s, m, _ := newTestModule(t)

	require.NoError(t, s.DoString(`
		a = record("a")
		alias("a"):as("x")
	`))
	mark := m.Len()
	require.NoError(t, s.DoString(`alias("a"):as("y")`))
	require.Equal(t, 2, m.Len())

	require.NoError(t, m.RevertSince(mark))
	assert.Nil(t, global(t, s, "y"))
	assert.NotNil(t, global(t, s, "x"), "aliases created before the mark stay installed")
	assert.Len(t, m.Aliases(), 1)

	require.NoError(t, m.RevertSince(5))
	assert.Len(t, m.Aliases(), 1)
}

func TestAliasToString(t *testing.T) {
	s, _, _ := newTestModule(t)

	require.NoError(t, s.DoString(`
		a = record("a")
		desc = tostring(alias("a"):as("b", "c"))
	`))
	assert.Equal(t, "alias(a) -> b, c", global(t, s, "desc"))
}
