// Package logging provides levelled, structured logging with component
// fields, backed by log/slog.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Level represents the severity level of a log message.
type Level int

const (
	// LevelDebug is for detailed debugging information.
	LevelDebug Level = iota
	// LevelInfo is for general informational messages.
	LevelInfo
	// LevelWarn is for warning messages.
	LevelWarn
	// LevelError is for error messages.
	LevelError
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l Level) slog() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ParseLevel parses a string into a Level. Unknown strings yield LevelInfo.
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// ValidLevel reports whether s names a known level.
func ValidLevel(s string) bool {
	switch strings.ToLower(s) {
	case "debug", "info", "warn", "warning", "error":
		return true
	}
	return false
}

// Config configures a Logger.
type Config struct {
	// Level is the minimum log level to output.
	Level Level
	// Output is where logs are written. Defaults to os.Stderr.
	Output io.Writer
	// Format is "text" or "json". Defaults to text.
	Format string
	// Prefix is attached to every record as the "app" attribute.
	Prefix string
}

// DefaultConfig returns the default logger configuration.
func DefaultConfig() Config {
	return Config{
		Level:  LevelInfo,
		Output: os.Stderr,
		Format: "text",
		Prefix: "aliasrun",
	}
}

// Logger provides structured logging. Derived loggers share the level.
type Logger struct {
	base  *slog.Logger
	level *slog.LevelVar
}

// New creates a logger with the given configuration.
func New(cfg Config) *Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}
	level := new(slog.LevelVar)
	level.Set(cfg.Level.slog())

	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	if cfg.Format == "json" {
		h = slog.NewJSONHandler(cfg.Output, opts)
	} else {
		h = slog.NewTextHandler(cfg.Output, opts)
	}

	base := slog.New(h)
	if cfg.Prefix != "" {
		base = base.With("app", cfg.Prefix)
	}
	return &Logger{base: base, level: level}
}

// Null returns a logger that discards all output.
func Null() *Logger {
	level := new(slog.LevelVar)
	level.Set(slog.LevelError + 1)
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: level})
	return &Logger{base: slog.New(h), level: level}
}

// WithField returns a logger with the given field added.
func (l *Logger) WithField(key string, value any) *Logger {
	return &Logger{base: l.base.With(key, value), level: l.level}
}

// WithFields returns a logger with the given fields added.
func (l *Logger) WithFields(fields map[string]any) *Logger {
	args := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return &Logger{base: l.base.With(args...), level: l.level}
}

// WithComponent returns a logger with the component field set.
func (l *Logger) WithComponent(component string) *Logger {
	return l.WithField("component", component)
}

// SetLevel sets the minimum log level for this logger and every logger
// derived from the same root.
func (l *Logger) SetLevel(level Level) {
	l.level.Set(level.slog())
}

// Enabled reports whether records at level would be written.
func (l *Logger) Enabled(level Level) bool {
	return l.base.Enabled(context.Background(), level.slog())
}

// Slog returns the underlying slog logger.
func (l *Logger) Slog() *slog.Logger { return l.base }

// Debug logs a debug message with key-value attributes.
func (l *Logger) Debug(msg string, args ...any) { l.base.Debug(msg, args...) }

// Info logs an info message with key-value attributes.
func (l *Logger) Info(msg string, args ...any) { l.base.Info(msg, args...) }

// Warn logs a warning message with key-value attributes.
func (l *Logger) Warn(msg string, args ...any) { l.base.Warn(msg, args...) }

// Error logs an error message with key-value attributes.
func (l *Logger) Error(msg string, args ...any) { l.base.Error(msg, args...) }

var (
	defaultLogger     *Logger
	defaultLoggerOnce sync.Once
	defaultMu         sync.RWMutex
)

// Default returns the process logger, creating it on first use.
func Default() *Logger {
	defaultLoggerOnce.Do(func() {
		defaultMu.Lock()
		if defaultLogger == nil {
			defaultLogger = New(DefaultConfig())
		}
		defaultMu.Unlock()
	})
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// SetDefault replaces the process logger. Call early during startup.
func SetDefault(l *Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = l
}
