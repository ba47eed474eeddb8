// Package lua hosts alias namespaces inside a gopher-lua interpreter.
//
// A State owns one sandboxed *lua.LState. Its global table, and any
// table reachable from it, can be used as a namespace.Namespace, so the
// alias engine can redirect Lua functions exactly as it redirects Go
// functions:
//
//	s, _ := lua.NewState()
//	eng := alias.NewEngine(s.Globals(), alias.WithScheduler(loop))
//	lua.InstallModule(s, eng)
//	_ = s.DoString(`
//	    function greet(who) print("hello " .. who) end
//	    alias("greet"):withNamedCaller():as("hi")
//	`)
//
// Lua functions surface in Go as *Function values with stable identity,
// so collision detection works across lookups. Go callables written into
// Lua become Lua functions that map back to the same Go value on lookup.
//
// The interpreter is not goroutine-safe. Drive a State from a single
// goroutine and give delayed aliases a schedule.Loop running there.
package lua
