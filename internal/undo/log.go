// Package undo records reversal actions for namespace mutations and
// replays them newest first.
package undo

import (
	"errors"
	"sync"
)

// Action reverses one earlier mutation.
type Action struct {
	// Description is a short human-readable summary, e.g. "restore ui.show".
	Description string

	// Undo performs the reversal.
	Undo func() error
}

// Log is a last-in-first-out sequence of actions. It is safe for
// concurrent use; actions run without the lock held so they may push
// to or replay other logs.
type Log struct {
	mu      sync.Mutex
	actions []Action
}

// Push appends an action.
func (l *Log) Push(a Action) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.actions = append(l.actions, a)
}

// Len returns the number of recorded actions.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.actions)
}

// Descriptions returns action descriptions, oldest first.
func (l *Log) Descriptions() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]string, len(l.actions))
	for i, a := range l.actions {
		out[i] = a.Description
	}
	return out
}

// Take removes and returns every action, oldest first, without running
// them.
func (l *Log) Take() []Action {
	l.mu.Lock()
	defer l.mu.Unlock()
	actions := l.actions
	l.actions = nil
	return actions
}

// Replay runs every action newest first and empties the log. A failing
// action does not stop the rest; all failures are joined.
func (l *Log) Replay() error {
	l.mu.Lock()
	actions := l.actions
	l.actions = nil
	l.mu.Unlock()

	var errs []error
	for i := len(actions) - 1; i >= 0; i-- {
		if actions[i].Undo == nil {
			continue
		}
		if err := actions[i].Undo(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
