package lua

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/alias/internal/namespace"
)

// State wraps a sandboxed gopher-lua state together with the identity
// caches that let Lua values act as namespace entries.
//
// State is not goroutine-safe.
type State struct {
	L *lua.LState

	output io.Writer

	// Lua functions surfaced to Go, keyed by the Lua function.
	luaFuncs map[*lua.LFunction]*Function
	// Go callables surfaced to Lua, in both directions.
	goByLua map[*lua.LFunction]namespace.Callable
	luaByGo map[namespace.Callable]*lua.LFunction
	// Tables surfaced as namespaces.
	tables map[*lua.LTable]*TableNamespace

	closed bool
}

// StateOption configures a State.
type StateOption func(*State)

// WithOutput redirects Lua's print. Defaults to os.Stdout.
func WithOutput(w io.Writer) StateOption {
	return func(s *State) {
		if w != nil {
			s.output = w
		}
	}
}

// NewState creates a new sandboxed Lua state.
func NewState(opts ...StateOption) (*State, error) {
	s := &State{
		output:   os.Stdout,
		luaFuncs: make(map[*lua.LFunction]*Function),
		goByLua:  make(map[*lua.LFunction]namespace.Callable),
		luaByGo:  make(map[namespace.Callable]*lua.LFunction),
		tables:   make(map[*lua.LTable]*TableNamespace),
	}
	for _, opt := range opts {
		opt(s)
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	s.L = L
	openSafeLibraries(L)
	s.installSandbox()
	return s, nil
}

// openSafeLibraries opens only libraries without host access.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// installSandbox removes code loading and routes print to the state output.
func (s *State) installSandbox() {
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require"} {
		s.L.SetGlobal(name, lua.LNil)
	}

	s.L.SetGlobal("print", s.L.NewFunction(func(L *lua.LState) int {
		n := L.GetTop()
		parts := make([]string, n)
		for i := 1; i <= n; i++ {
			parts[i-1] = L.ToStringMeta(L.Get(i)).String()
		}
		fmt.Fprintln(s.output, strings.Join(parts, "\t"))
		return 0
	}))
}

// DoString executes a chunk of Lua code.
func (s *State) DoString(code string) error {
	if s.closed {
		return ErrStateClosed
	}
	return s.unwrap(s.L.DoString(code))
}

// DoFile executes a Lua file.
func (s *State) DoFile(path string) error {
	if s.closed {
		return ErrStateClosed
	}
	return s.unwrap(s.L.DoFile(path))
}

// Globals returns the global table as a namespace.
func (s *State) Globals() *TableNamespace {
	return s.namespaceFor(s.L.G.Global)
}

// CallGlobal calls the callable stored at a dotted global path.
func (s *State) CallGlobal(path string, args ...any) (any, error) {
	if s.closed {
		return nil, ErrStateClosed
	}
	r := namespace.NewResolver(s.Globals())
	v, ok := r.Get(namespace.Direct(s.Globals()), path)
	if !ok {
		return nil, fmt.Errorf("%w: %s is undefined", ErrNotFunction, path)
	}
	fn, ok := v.(namespace.Callable)
	if !ok {
		return nil, fmt.Errorf("%w: %s is %T", ErrNotFunction, path, v)
	}
	return fn.Call(nil, args)
}

// IsClosed reports whether Close has been called.
func (s *State) IsClosed() bool { return s.closed }

// Close releases the interpreter.
func (s *State) Close() error {
	if s.closed {
		return nil
	}
	s.L.Close()
	s.closed = true
	return nil
}

// raise aborts the running Lua call with a Go error that survives the
// trip through the interpreter.
func (s *State) raise(err error) {
	ud := s.L.NewUserData()
	ud.Value = err
	s.L.Error(ud, 1)
}

// unwrap recovers a Go error raised by raise, or returns err unchanged.
func (s *State) unwrap(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *lua.ApiError
	if errors.As(err, &apiErr) {
		if ud, ok := apiErr.Object.(*lua.LUserData); ok {
			if goErr, ok := ud.Value.(error); ok {
				return goErr
			}
		}
	}
	return err
}
