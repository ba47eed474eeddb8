// Package app wires aliasrun together: a Lua state hosting the script,
// an alias engine over its globals, manifest-declared aliases, and the
// run loop that executes delayed calls on the interpreter's goroutine.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync/atomic"
	"time"

	"github.com/dshills/alias/internal/alias"
	"github.com/dshills/alias/internal/config"
	"github.com/dshills/alias/internal/logging"
	"github.com/dshills/alias/internal/lua"
	"github.com/dshills/alias/internal/manifest"
	"github.com/dshills/alias/internal/schedule"
	"github.com/dshills/alias/internal/watcher"
)

// Options configures the application.
type Options struct {
	// Settings are the resolved aliasrun settings.
	Settings config.Settings

	// Output receives Lua print output. Defaults to os.Stdout.
	Output io.Writer

	// Logger overrides the logger built from Settings.
	Logger *logging.Logger
}

// Application runs one script and manifest.
//
// Everything that touches the Lua state runs on the goroutine calling
// Run or Watch. Other goroutines hand work over through the loop.
type Application struct {
	opts   Options
	root   *logging.Logger
	logger *logging.Logger
	loop   *schedule.Loop
	namer  alias.Namer

	state  *lua.State
	engine *alias.Engine
	module *lua.Module
	set    *manifest.Set
	// scriptAliases is how many Lua aliases existed before the manifest
	// was applied.
	scriptAliases int

	running atomic.Bool
	closed  atomic.Bool
}

// New creates an application. Nothing is loaded until Run or Watch.
func New(opts Options) (*Application, error) {
	s := opts.Settings
	if s.Script == "" && s.Manifest == "" {
		return nil, ErrNothingToRun
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	namer, err := alias.NamerByKind(s.Namer)
	if err != nil {
		return nil, err
	}

	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.New(s.Logging())
	}

	return &Application{
		opts:   opts,
		root:   logger,
		logger: logger.WithComponent("app"),
		loop:   schedule.NewLoop(),
		namer:  namer,
	}, nil
}

// bootstrap creates a fresh interpreter and engine.
func (app *Application) bootstrap() error {
	state, err := lua.NewState(lua.WithOutput(app.opts.Output))
	if err != nil {
		return NewComponentError("lua", "create state", err)
	}

	app.state = state
	app.engine = alias.NewEngine(state.Globals(),
		alias.WithScheduler(app.loop),
		alias.WithNamer(app.namer),
		alias.WithLogger(app.root),
	)
	app.module = lua.InstallModule(state, app.engine)
	return nil
}

// load runs the script, applies the manifest and calls the entry function.
func (app *Application) load() error {
	if err := app.bootstrap(); err != nil {
		return err
	}
	s := app.opts.Settings

	if s.Script != "" {
		if err := app.state.DoFile(s.Script); err != nil {
			return NewComponentError("script", "load "+s.Script, err)
		}
		app.logger.Debug("loaded script", "path", s.Script)
	}

	if s.Manifest != "" {
		m, err := manifest.Load(s.Manifest)
		if err != nil {
			return NewComponentError("manifest", "load", err)
		}
		app.scriptAliases = app.module.Len()
		set, err := manifest.Apply(app.engine, m)
		if err != nil {
			return NewComponentError("manifest", "apply "+s.Manifest, err)
		}
		app.set = set
	}

	return app.callEntry()
}

func (app *Application) callEntry() error {
	entry := app.opts.Settings.Entry
	if entry == "" {
		return nil
	}
	if _, ok := app.engine.Resolver().Get(app.engine.DefaultScope(), entry); !ok {
		app.logger.Debug("no entry function", "entry", entry)
		return nil
	}
	if _, err := app.state.CallGlobal(entry); err != nil {
		return NewComponentError("script", "call "+entry, err)
	}
	return nil
}

// unload reverts every alias, drops pending calls and closes the state.
func (app *Application) unload() error {
	errs := []error{app.revertAliases()}
	app.module = nil
	if app.state != nil {
		errs = append(errs, app.state.Close())
		app.state = nil
	}
	return errors.Join(errs...)
}

// revertAliases undoes the load in reverse: Lua aliases created after the
// manifest was applied, then the manifest set, then the script's aliases.
func (app *Application) revertAliases() error {
	var errs []error
	if app.set != nil {
		if app.module != nil {
			errs = append(errs, app.module.RevertSince(app.scriptAliases))
		}
		errs = append(errs, app.set.Revert())
		app.set = nil
	}
	if app.module != nil {
		errs = append(errs, app.module.RevertAll())
	}
	app.scriptAliases = 0
	return errors.Join(errs...)
}

// Run loads everything and runs the loop until no delayed call is left,
// the configured timeout passes or ctx is done.
func (app *Application) Run(ctx context.Context) error {
	if err := app.start(); err != nil {
		return err
	}
	defer app.running.Store(false)

	if err := app.load(); err != nil {
		return err
	}

	if t := app.opts.Settings.Timeout; t > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t)
		defer cancel()
	}
	if err := app.loop.RunUntilIdle(ctx); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			app.logger.Warn("timed out with delayed calls pending", "pending", app.loop.Pending())
			return nil
		}
		return err
	}
	return nil
}

// Watch loads everything, then reloads whenever the script or manifest
// changes, until ctx is done. Reload failures are logged and the
// previous aliases stay reverted until the next successful load.
func (app *Application) Watch(ctx context.Context, debounce time.Duration) error {
	if err := app.start(); err != nil {
		return err
	}
	defer app.running.Store(false)

	w, err := watcher.New(app.Files(), watcher.WithDebounce(debounce))
	if err != nil {
		return NewComponentError("watcher", "start", err)
	}
	defer w.Close()

	if err := app.load(); err != nil {
		app.logger.Error("initial load failed", "error", err)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events():
				if !ok {
					return
				}
				app.loop.Post(func() {
					app.logger.Info("change detected", "paths", ev.Paths, "op", ev.Op)
					if err := app.Reload(); err != nil {
						app.logger.Error("reload failed", "error", err)
					}
				})
			case err, ok := <-w.Errors():
				if !ok {
					return
				}
				app.logger.Warn("watcher error", "error", err)
			}
		}
	}()

	err = app.loop.Run(ctx)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

// Reload reverts everything and loads the script and manifest again.
// It must run on the loop goroutine.
func (app *Application) Reload() error {
	if app.closed.Load() {
		return ErrClosed
	}
	if err := app.unload(); err != nil {
		app.logger.Warn("revert before reload failed", "error", err)
	}
	return app.load()
}

// Shutdown reverts every alias and closes the interpreter.
func (app *Application) Shutdown() error {
	if app.closed.Swap(true) {
		return nil
	}
	if err := app.unload(); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (app *Application) start() error {
	if app.closed.Load() {
		return ErrClosed
	}
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	return nil
}

// Files returns the script and manifest paths that are set.
func (app *Application) Files() []string {
	var files []string
	if p := app.opts.Settings.Script; p != "" {
		files = append(files, p)
	}
	if p := app.opts.Settings.Manifest; p != "" {
		files = append(files, p)
	}
	return files
}

// IsRunning returns true while Run or Watch is executing.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// State returns the current Lua state, or nil before loading.
func (app *Application) State() *lua.State { return app.state }

// Engine returns the current alias engine, or nil before loading.
func (app *Application) Engine() *alias.Engine { return app.engine }

// Manifest returns the aliases installed from the manifest, if any.
func (app *Application) Manifest() *manifest.Set { return app.set }

// Loop returns the run loop.
func (app *Application) Loop() *schedule.Loop { return app.loop }
