package alias

import (
	"github.com/dshills/alias/internal/logging"
	"github.com/dshills/alias/internal/namespace"
	"github.com/dshills/alias/internal/schedule"
)

// Engine creates aliases against a root namespace and supplies the
// collaborators they share.
type Engine struct {
	resolver     *namespace.Resolver
	scheduler    schedule.Scheduler
	namer        Namer
	logger       *logging.Logger
	defaultScope namespace.Scope
}

// Option configures an Engine.
type Option func(*Engine)

// WithScheduler sets the scheduler used by delayed aliases.
func WithScheduler(s schedule.Scheduler) Option {
	return func(e *Engine) {
		if s != nil {
			e.scheduler = s
		}
	}
}

// WithNamer sets the generator for relocated source names.
func WithNamer(n Namer) Option {
	return func(e *Engine) {
		if n != nil {
			e.namer = n
		}
	}
}

// WithLogger sets the engine logger.
func WithLogger(l *logging.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithDefaultScope sets the scope new aliases start with. Defaults to
// the root namespace itself.
func WithDefaultScope(s namespace.Scope) Option {
	return func(e *Engine) {
		if s != nil {
			e.defaultScope = s
		}
	}
}

// NewEngine creates an engine whose Named scopes resolve against root.
func NewEngine(root namespace.Namespace, opts ...Option) *Engine {
	e := &Engine{
		resolver:     namespace.NewResolver(root),
		scheduler:    schedule.Real(),
		namer:        NewCounter(),
		logger:       logging.Null(),
		defaultScope: namespace.Direct(root),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.WithComponent("alias")
	return e
}

// Alias starts configuring an alias for the given source paths. Both
// scopes default to the engine's default scope.
func (e *Engine) Alias(sources ...string) *Alias {
	return &Alias{
		engine:      e,
		sources:     append([]string(nil), sources...),
		sourceScope: e.defaultScope,
		destScope:   e.defaultScope,
		pending:     make(map[*pendingCall]struct{}),
	}
}

// DefaultScope returns the scope new aliases start with.
func (e *Engine) DefaultScope() namespace.Scope {
	return e.defaultScope
}

// Logger returns the engine logger.
func (e *Engine) Logger() *logging.Logger {
	return e.logger
}

// Resolver returns the engine's path resolver.
func (e *Engine) Resolver() *namespace.Resolver {
	return e.resolver
}
