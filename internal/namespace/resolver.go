package namespace

import (
	"fmt"
	"strings"
)

// Resolver reads and writes values by dotted path. It keeps no history;
// callers record their own undo actions.
type Resolver struct {
	root Namespace
}

// NewResolver creates a resolver whose Named scopes resolve against root.
func NewResolver(root Namespace) *Resolver {
	return &Resolver{root: root}
}

// Root returns the root namespace.
func (r *Resolver) Root() Namespace {
	return r.root
}

// Split splits a dotted path into its segments, dropping empty ones.
func Split(path string) []string {
	raw := strings.Split(path, ".")
	segments := make([]string, 0, len(raw))
	for _, s := range raw {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}

// Scope resolves a scope against the root.
func (r *Resolver) Scope(scope Scope) (Namespace, error) {
	if scope == nil {
		return nil, fmt.Errorf("%w: nil scope", ErrScopeNotFound)
	}
	ns, ok := scope.Resolve(r.root)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrScopeNotFound, scope)
	}
	return ns, nil
}

// Get returns the value at path within scope. Any missing segment or
// traversal through a non-namespace value reports absence.
func (r *Resolver) Get(scope Scope, path string) (any, bool) {
	ns, err := r.Scope(scope)
	if err != nil {
		return nil, false
	}
	segments := Split(path)
	if len(segments) == 0 {
		return nil, false
	}

	cur := ns
	for i, seg := range segments {
		v, ok := cur.Lookup(seg)
		if !ok {
			return nil, false
		}
		if i == len(segments)-1 {
			return v, true
		}
		next, ok := AsNamespace(v)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return nil, false
}

// Set stores v at path within scope, filling missing intermediate
// segments with placeholders.
func (r *Resolver) Set(scope Scope, path string, v any) error {
	parent, last, err := r.parent(scope, path, true)
	if err != nil {
		return err
	}
	parent.Assign(last, v)
	return nil
}

// Delete removes the value at path within scope. A missing parent is
// not an error.
func (r *Resolver) Delete(scope Scope, path string) error {
	parent, last, err := r.parent(scope, path, false)
	if err != nil {
		return err
	}
	if parent != nil {
		parent.Delete(last)
	}
	return nil
}

// parent walks to the namespace holding the last segment of path.
// With create set, missing segments are filled with placeholders;
// otherwise a missing segment yields a nil parent.
func (r *Resolver) parent(scope Scope, path string, create bool) (Namespace, string, error) {
	ns, err := r.Scope(scope)
	if err != nil {
		return nil, "", err
	}
	segments := Split(path)
	if len(segments) == 0 {
		return nil, "", fmt.Errorf("%w: %q", ErrEmptyPath, path)
	}

	cur := ns
	for _, seg := range segments[:len(segments)-1] {
		v, ok := cur.Lookup(seg)
		if !ok {
			if !create {
				return nil, "", nil
			}
			v = placeholderFor(cur)
			cur.Assign(seg, v)
		}
		next, ok := AsNamespace(v)
		if !ok {
			return nil, "", fmt.Errorf("%w: segment %q of %q", ErrNotNamespace, seg, path)
		}
		cur = next
	}
	return cur, segments[len(segments)-1], nil
}

func placeholderFor(ns Namespace) any {
	if pm, ok := ns.(PlaceholderMaker); ok {
		return pm.NewPlaceholder()
	}
	return NewPlaceholder()
}
