// Package watcher reports changes to a fixed set of files.
//
// Editors often replace a file instead of writing it in place, so the
// watcher follows each file's parent directory and filters events by
// name. Bursts of changes are coalesced into a single Event.
package watcher

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/alias/internal/schedule"
)

// Common errors returned by watcher operations.
var (
	ErrWatcherClosed = errors.New("watcher: closed")
	ErrPathNotExist  = errors.New("watcher: path does not exist")
)

// Op represents the type of file system operation.
type Op uint32

const (
	// OpCreate indicates a file was created.
	OpCreate Op = 1 << iota
	// OpWrite indicates a file was written to.
	OpWrite
	// OpRemove indicates a file was removed.
	OpRemove
	// OpRename indicates a file was renamed.
	OpRename
)

// String returns a human-readable representation of the operation.
func (op Op) String() string {
	switch op {
	case OpCreate:
		return "CREATE"
	case OpWrite:
		return "WRITE"
	case OpRemove:
		return "REMOVE"
	case OpRename:
		return "RENAME"
	default:
		return fmt.Sprintf("Op(%d)", uint32(op))
	}
}

// Has returns true if the operation includes the given op.
func (op Op) Has(o Op) bool {
	return op&o == o
}

// Event is a coalesced burst of changes.
type Event struct {
	// Paths are the absolute paths that changed, sorted.
	Paths []string

	// Op is the union of the operations seen.
	Op Op
}

// Config configures a Watcher.
type Config struct {
	// Debounce is how long the watcher waits for the burst to settle.
	Debounce time.Duration

	// Scheduler runs the debounce timer. Defaults to schedule.Real().
	Scheduler schedule.Scheduler

	// BufferSize is the capacity of the event and error channels.
	BufferSize int
}

// DefaultConfig returns the default watcher configuration.
func DefaultConfig() Config {
	return Config{
		Debounce:   200 * time.Millisecond,
		Scheduler:  schedule.Real(),
		BufferSize: 16,
	}
}

// Option configures a Watcher.
type Option func(*Config)

// WithDebounce sets the debounce delay.
func WithDebounce(d time.Duration) Option {
	return func(c *Config) {
		if d > 0 {
			c.Debounce = d
		}
	}
}

// WithScheduler sets the scheduler used for debouncing.
func WithScheduler(s schedule.Scheduler) Option {
	return func(c *Config) {
		if s != nil {
			c.Scheduler = s
		}
	}
}

// Watcher watches individual files.
type Watcher struct {
	mu sync.Mutex

	fsw      *fsnotify.Watcher
	debounce *Debouncer

	files map[string]bool
	dirs  map[string]bool

	errors chan error

	closed   bool
	closeCh  chan struct{}
	closedWg sync.WaitGroup
}

// New creates a watcher for the given files. Every file must exist.
func New(files []string, opts ...Option) (*Watcher, error) {
	config := DefaultConfig()
	for _, opt := range opts {
		opt(&config)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	bufSize := config.BufferSize
	if bufSize <= 0 {
		bufSize = 16
	}

	w := &Watcher{
		fsw:      fsw,
		debounce: NewDebouncer(config.Scheduler, config.Debounce, bufSize),
		files:    make(map[string]bool),
		dirs:     make(map[string]bool),
		errors:   make(chan error, bufSize),
		closeCh:  make(chan struct{}),
	}

	for _, f := range files {
		if err := w.add(f); err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}

	w.closedWg.Add(1)
	go w.processLoop()

	return w, nil
}

func (w *Watcher) add(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(absPath); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrPathNotExist, path)
		}
		return err
	}

	dir := filepath.Dir(absPath)
	if !w.dirs[dir] {
		if err := w.fsw.Add(dir); err != nil {
			return err
		}
		w.dirs[dir] = true
	}
	w.files[absPath] = true
	return nil
}

// Files returns the watched files, sorted.
func (w *Watcher) Files() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	files := make([]string, 0, len(w.files))
	for f := range w.files {
		files = append(files, f)
	}
	sort.Strings(files)
	return files
}

// Events returns the channel of coalesced change events.
// The channel is closed when the watcher is closed.
func (w *Watcher) Events() <-chan Event {
	return w.debounce.Events()
}

// Errors returns the channel of watcher errors.
// The channel is closed when the watcher is closed.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	w.mu.Unlock()

	w.closedWg.Wait()
	w.debounce.Close()
	close(w.errors)

	return w.fsw.Close()
}

func (w *Watcher) processLoop() {
	defer w.closedWg.Done()

	for {
		select {
		case <-w.closeCh:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(ev)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			select {
			case w.errors <- err:
			default:
				// Channel full, drop error
			}
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	op := convertOp(ev.Op)
	if op == 0 {
		return
	}

	path, err := filepath.Abs(ev.Name)
	if err != nil {
		return
	}

	w.mu.Lock()
	watched := w.files[path]
	w.mu.Unlock()
	if !watched {
		return
	}

	w.debounce.Trigger(path, op)
}

// convertOp converts fsnotify.Op to watcher.Op. Chmod is ignored.
func convertOp(fsOp fsnotify.Op) Op {
	var op Op
	if fsOp.Has(fsnotify.Create) {
		op |= OpCreate
	}
	if fsOp.Has(fsnotify.Write) {
		op |= OpWrite
	}
	if fsOp.Has(fsnotify.Remove) {
		op |= OpRemove
	}
	if fsOp.Has(fsnotify.Rename) {
		op |= OpRename
	}
	return op
}
