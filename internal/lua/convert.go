package lua

import (
	"fmt"
	"reflect"
	"sort"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/alias/internal/namespace"
)

// toGo converts a Lua value for use by Go code.
//
// Primitives become Go values. Functions and tables keep their identity:
// functions become *Function (or the original Go callable), tables become
// *TableNamespace. Userdata yields its Go payload.
func (s *State) toGo(lv lua.LValue) any {
	switch v := lv.(type) {
	case *lua.LNilType:
		return nil
	case lua.LBool:
		return bool(v)
	case lua.LNumber:
		f := float64(v)
		if f == float64(int64(f)) {
			return int64(f)
		}
		return f
	case lua.LString:
		return string(v)
	case *lua.LFunction:
		return s.functionFor(v)
	case *lua.LTable:
		return s.namespaceFor(v)
	case *lua.LUserData:
		return v.Value
	default:
		return lv
	}
}

// toLua converts a Go value for use by Lua code.
func (s *State) toLua(v any) lua.LValue {
	switch val := v.(type) {
	case nil:
		return lua.LNil
	case lua.LValue:
		return val
	case *Function:
		return val.fn
	case *TableNamespace:
		return val.table
	case namespace.Callable:
		return s.wrapCallable(val)
	case bool:
		return lua.LBool(val)
	case string:
		return lua.LString(val)
	case int:
		return lua.LNumber(val)
	case int64:
		return lua.LNumber(val)
	case int32:
		return lua.LNumber(val)
	case uint:
		return lua.LNumber(val)
	case uint64:
		return lua.LNumber(val)
	case float64:
		return lua.LNumber(val)
	case float32:
		return lua.LNumber(val)
	case error:
		return lua.LString(val.Error())
	case []any:
		tbl := s.L.NewTable()
		for _, item := range val {
			tbl.Append(s.toLua(item))
		}
		return tbl
	case []string:
		tbl := s.L.NewTable()
		for _, item := range val {
			tbl.Append(lua.LString(item))
		}
		return tbl
	case map[string]any:
		tbl := s.L.NewTable()
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			tbl.RawSetString(k, s.toLua(val[k]))
		}
		return tbl
	}
	return s.reflectToLua(v)
}

// reflectToLua handles slices, maps and named scalar types.
func (s *State) reflectToLua(v any) lua.LValue {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		tbl := s.L.NewTable()
		for i := 0; i < rv.Len(); i++ {
			tbl.Append(s.toLua(rv.Index(i).Interface()))
		}
		return tbl
	case reflect.Map:
		tbl := s.L.NewTable()
		iter := rv.MapRange()
		for iter.Next() {
			tbl.RawSet(s.toLua(iter.Key().Interface()), s.toLua(iter.Value().Interface()))
		}
		return tbl
	case reflect.Bool:
		return lua.LBool(rv.Bool())
	case reflect.String:
		return lua.LString(rv.String())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return lua.LNumber(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return lua.LNumber(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return lua.LNumber(rv.Float())
	}
	ud := s.L.NewUserData()
	ud.Value = v
	return ud
}

// args collects the Lua arguments from position start onward.
func (s *State) args(L *lua.LState, start int) []any {
	top := L.GetTop()
	if top < start {
		return nil
	}
	out := make([]any, 0, top-start+1)
	for i := start; i <= top; i++ {
		out = append(out, s.toGo(L.Get(i)))
	}
	return out
}

// wrapCallable returns the Lua function standing in for a Go callable.
// The same callable always maps to the same Lua function when its
// dynamic type is comparable.
func (s *State) wrapCallable(c namespace.Callable) *lua.LFunction {
	cacheable := reflect.TypeOf(c).Comparable()
	if cacheable {
		if fn, ok := s.luaByGo[c]; ok {
			return fn
		}
	}

	fn := s.L.NewFunction(func(L *lua.LState) int {
		result, err := c.Call(nil, s.args(L, 1))
		if err != nil {
			s.raise(err)
			return 0
		}
		L.Push(s.toLua(result))
		return 1
	})

	s.goByLua[fn] = c
	if cacheable {
		s.luaByGo[c] = fn
	}
	return fn
}

// functionFor returns the Go view of a Lua function.
func (s *State) functionFor(fn *lua.LFunction) any {
	if c, ok := s.goByLua[fn]; ok {
		return c
	}
	if f, ok := s.luaFuncs[fn]; ok {
		return f
	}
	f := &Function{state: s, fn: fn}
	s.luaFuncs[fn] = f
	return f
}

func describe(lv lua.LValue) string {
	if fn, ok := lv.(*lua.LFunction); ok && fn.Proto != nil {
		return fmt.Sprintf("function <%s:%d>", fn.Proto.SourceName, fn.Proto.LineDefined)
	}
	return lv.Type().String()
}
