package alias

import (
	"fmt"
	"strings"

	"github.com/dshills/alias/internal/namespace"
	"github.com/dshills/alias/internal/undo"
)

// As installs the alias under the given destination paths and returns
// the receiver. Calling As again layers a new install on top of the
// previous ones; Revert undoes all of them.
//
// If any destination fails, mutations made by this call are reverted
// before the error is returned.
func (a *Alias) As(destinations ...string) (*Alias, error) {
	a.mu.Lock()
	a.destinations = append([]string(nil), destinations...)
	err := a.validateLocked()
	srcScope, dstScope := a.sourceScope, a.destScope
	a.mu.Unlock()
	if err != nil {
		return a, err
	}

	r := a.engine.resolver
	if _, err := r.Scope(srcScope); err != nil {
		return a, fmt.Errorf("source scope: %w", err)
	}
	if _, err := r.Scope(dstScope); err != nil {
		return a, fmt.Errorf("destination scope: %w", err)
	}

	var local undo.Log
	for _, dest := range destinations {
		if err := a.guard(srcScope, dstScope, dest, &local); err != nil {
			return a, a.abort(&local, dest, err)
		}
		if err := a.write(dstScope, dest, &local); err != nil {
			return a, a.abort(&local, dest, err)
		}
	}

	// Commit in order so the shared history stays LIFO across installs.
	for _, act := range local.Take() {
		a.history.Push(act)
	}

	a.engine.logger.Debug("installed alias",
		"sources", strings.Join(a.Sources(), ","),
		"destinations", strings.Join(destinations, ","),
		"scope", dstScope.String(),
		"history", a.history.Len())
	return a, nil
}

func (a *Alias) validateLocked() error {
	if a.err != nil {
		return a.err
	}
	if len(a.sources) == 0 {
		return ErrNoSources
	}
	if len(a.destinations) == 0 {
		return ErrNoDestinations
	}
	for _, d := range a.destinations {
		if len(namespace.Split(d)) == 0 {
			return fmt.Errorf("destination %q: %w", d, namespace.ErrEmptyPath)
		}
	}
	return nil
}

// write installs a dispatcher at dest and records how to restore the
// slot: the previous value if there was one, otherwise absence. Placeholder
// parents the write created are removed only while they are still the
// same placeholder and hold nothing else.
func (a *Alias) write(dstScope namespace.Scope, dest string, log *undo.Log) error {
	r := a.engine.resolver

	prior, had := r.Get(dstScope, dest)
	missing := a.missingParents(dstScope, dest)

	d := &Dispatcher{alias: a, dest: dest}
	if err := r.Set(dstScope, dest, d); err != nil {
		return fmt.Errorf("installing %s: %w", dest, err)
	}

	created := make([]createdParent, 0, len(missing))
	for _, p := range missing {
		v, _ := r.Get(dstScope, p)
		created = append(created, createdParent{path: p, value: v})
	}

	desc := "remove " + dest
	if had {
		desc = "restore " + dest
	}
	log.Push(undo.Action{
		Description: desc,
		Undo: func() error {
			if had {
				return r.Set(dstScope, dest, prior)
			}
			if err := r.Delete(dstScope, dest); err != nil {
				return err
			}
			return a.prune(dstScope, created)
		},
	})
	return nil
}

// createdParent is a placeholder written for a missing intermediate
// segment.
type createdParent struct {
	path  string
	value any
}

// lister is implemented by namespaces that can enumerate their names.
type lister interface {
	Names() []string
}

// prune deletes created placeholders deepest first, stopping at the first
// one that was replaced or still holds other names.
func (a *Alias) prune(scope namespace.Scope, created []createdParent) error {
	r := a.engine.resolver
	for i := len(created) - 1; i >= 0; i-- {
		p := created[i]
		cur, ok := r.Get(scope, p.path)
		if !ok || !namespace.Same(cur, p.value) {
			return nil
		}
		ns, ok := cur.(lister)
		if !ok || len(ns.Names()) > 0 {
			return nil
		}
		if err := r.Delete(scope, p.path); err != nil {
			return err
		}
	}
	return nil
}

// missingParents returns the proper prefixes of path that are absent in
// scope, shortest first.
func (a *Alias) missingParents(scope namespace.Scope, path string) []string {
	segments := namespace.Split(path)
	var missing []string
	for i := 1; i < len(segments); i++ {
		prefix := strings.Join(segments[:i], ".")
		if len(missing) > 0 {
			missing = append(missing, prefix)
			continue
		}
		if _, ok := a.engine.resolver.Get(scope, prefix); !ok {
			missing = append(missing, prefix)
		}
	}
	return missing
}

// abort reverts a partial install and annotates err.
func (a *Alias) abort(local *undo.Log, dest string, err error) error {
	if rerr := local.Replay(); rerr != nil {
		a.engine.logger.Error("rollback after failed install", "destination", dest, "error", rerr)
	}
	return fmt.Errorf("alias %s: %w", dest, err)
}
