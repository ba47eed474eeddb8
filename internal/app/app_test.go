package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/alias/internal/config"
	"github.com/dshills/alias/internal/logging"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newApp(t *testing.T, mutate func(*config.Settings)) (*Application, *bytes.Buffer) {
	t.Helper()
	s := config.Defaults()
	mutate(&s)
	var out bytes.Buffer
	a, err := New(Options{Settings: s, Output: &out, Logger: logging.Null()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Shutdown() })
	return a, &out
}

func TestNewRequiresInput(t *testing.T) {
	_, err := New(Options{Settings: config.Defaults()})
	assert.ErrorIs(t, err, ErrNothingToRun)

	s := config.Defaults()
	s.Script = "x.lua"
	s.Log.Level = "loud"
	_, err = New(Options{Settings: s})
	assert.ErrorIs(t, err, config.ErrValidationFailed)
}

func TestRunScriptWithDelayedAlias(t *testing.T) {
	dir := t.TempDir()
	script := writeFile(t, dir, "init.lua", `
		function greet(name) print("hello " .. name) end
		alias("greet"):delayBy(5):as("later")
		function main()
			later("world")
			print("scheduled")
		end
	`)

	a, out := newApp(t, func(s *config.Settings) { s.Script = script })
	require.NoError(t, a.Run(context.Background()))
	assert.Equal(t, "scheduled\nhello world\n", out.String())
	assert.Zero(t, a.Loop().Pending())
}

func TestRunAppliesManifest(t *testing.T) {
	dir := t.TempDir()
	script := writeFile(t, dir, "init.lua", `
		function save(x) print("save " .. x) end
		function backup(x) print("backup " .. x) end
		hooks = { shout = function(x) return string.upper(x) end }
		function main() persist("doc") end
	`)
	m := writeFile(t, dir, "aliases.yaml", `
aliases:
  - sources: [save, backup]
    as: [persist]
    beforeAll: [hooks.shout]
`)

	a, out := newApp(t, func(s *config.Settings) {
		s.Script = script
		s.Manifest = m
	})
	require.NoError(t, a.Run(context.Background()))
	assert.Equal(t, "save DOC\nbackup DOC\n", out.String())
	require.NotNil(t, a.Manifest())
	assert.Equal(t, 1, a.Manifest().Len())
}

func TestRunReportsScriptErrors(t *testing.T) {
	dir := t.TempDir()
	script := writeFile(t, dir, "bad.lua", `this is not lua`)

	a, _ := newApp(t, func(s *config.Settings) { s.Script = script })
	err := a.Run(context.Background())
	var cerr *ComponentError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "script", cerr.Component)
}

func TestRunReportsEntryErrors(t *testing.T) {
	dir := t.TempDir()
	script := writeFile(t, dir, "init.lua", `
		alias("ghost"):as("g")
		function start() g() end
	`)

	a, _ := newApp(t, func(s *config.Settings) {
		s.Script = script
		s.Entry = "start"
	})
	err := a.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "call start")
}

func TestRunTimeout(t *testing.T) {
	dir := t.TempDir()
	script := writeFile(t, dir, "init.lua", `
		function tick() end
		alias("tick"):delayBy(60000):as("slow")
		function main() slow() end
	`)

	a, _ := newApp(t, func(s *config.Settings) {
		s.Script = script
		s.Timeout = 20 * time.Millisecond
	})
	require.NoError(t, a.Run(context.Background()))
	assert.Equal(t, 1, a.Loop().Pending())
}

func TestRunTwice(t *testing.T) {
	dir := t.TempDir()
	script := writeFile(t, dir, "init.lua", ``)

	a, _ := newApp(t, func(s *config.Settings) { s.Script = script })
	require.NoError(t, a.Run(context.Background()))
	require.NoError(t, a.Shutdown())
	assert.ErrorIs(t, a.Run(context.Background()), ErrClosed)
}

func TestReloadReinstalls(t *testing.T) {
	dir := t.TempDir()
	script := writeFile(t, dir, "init.lua", `
		function a() return 1 end
		alias("a"):as("b")
	`)

	app, _ := newApp(t, func(s *config.Settings) { s.Script = script })
	require.NoError(t, app.Run(context.Background()))
	first := app.State()

	writeFile(t, dir, "init.lua", `
		function a() return 2 end
		alias("a"):as("c")
	`)
	require.NoError(t, app.Reload())

	assert.True(t, first.IsClosed())
	_, ok := app.State().Globals().Lookup("b")
	assert.False(t, ok)
	v, err := app.State().CallGlobal("c")
	require.NoError(t, err)
	assert.Equal(t, int64(2), v)
}

func TestRevertUndoesEntryAliasesBeforeManifest(t *testing.T) {
	dir := t.TempDir()
	script := writeFile(t, dir, "init.lua", `
		function save(x) print("save " .. x) end
		original = save
		function main() alias("save"):as("save") end
	`)
	m := writeFile(t, dir, "aliases.yaml", `
aliases:
  - sources: [save]
    as: [save]
`)

	app, _ := newApp(t, func(s *config.Settings) {
		s.Script = script
		s.Manifest = m
	})
	require.NoError(t, app.load())
	require.NoError(t, app.revertAliases())

	state := app.State()
	require.NoError(t, state.DoString(`same = rawequal(save, original)`))
	same, _ := state.Globals().Lookup("same")
	assert.Equal(t, true, same, "save is the script's function again")
	for _, name := range state.Globals().Names() {
		assert.False(t, strings.Contains(name, "__alias"), "relocated %s left behind", name)
	}
}

func TestWatchReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	script := writeFile(t, dir, "init.lua", `print("v1")`)

	var out safeBuffer
	s := config.Defaults()
	s.Script = script
	a, err := New(Options{Settings: s, Output: &out, Logger: logging.Null()})
	require.NoError(t, err)
	defer a.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Watch(ctx, 20*time.Millisecond) }()

	require.Eventually(t, func() bool { return out.String() == "v1\n" }, 5*time.Second, 10*time.Millisecond)
	writeFile(t, dir, "init.lua", `print("v2")`)
	require.Eventually(t, func() bool { return out.String() == "v1\nv2\n" }, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestComponentError(t *testing.T) {
	err := NewComponentError("manifest", "load", ErrNothingToRun)
	assert.Equal(t, "manifest: load: no script or manifest given", err.Error())
	assert.ErrorIs(t, err, ErrNothingToRun)
	assert.Equal(t, "manifest", (&ComponentError{Component: "manifest"}).Error())
}
