package manifest

import (
	"errors"
	"fmt"

	"github.com/dshills/alias/internal/alias"
	"github.com/dshills/alias/internal/filter"
	"github.com/dshills/alias/internal/namespace"
)

// Set is the group of aliases installed from one manifest.
type Set struct {
	aliases []*alias.Alias
}

// Aliases returns the installed aliases in manifest order.
func (s *Set) Aliases() []*alias.Alias {
	return append([]*alias.Alias(nil), s.aliases...)
}

// Len returns the number of installed aliases.
func (s *Set) Len() int { return len(s.aliases) }

// Revert cancels pending delayed calls and reverts every alias, last
// installed first.
func (s *Set) Revert() error {
	var errs []error
	for i := len(s.aliases) - 1; i >= 0; i-- {
		a := s.aliases[i]
		a.CancelPending()
		if err := a.Revert(); err != nil {
			errs = append(errs, err)
		}
	}
	s.aliases = nil
	return errors.Join(errs...)
}

// Apply installs every entry of m through eng. If an entry fails, the
// entries already installed are reverted and the error is returned.
func Apply(eng *alias.Engine, m *Manifest) (*Set, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	set := &Set{}
	for i, e := range m.Aliases {
		a, err := install(eng, e)
		if err != nil {
			err = fmt.Errorf("alias %d (%s): %w", i, e, err)
			if rerr := set.Revert(); rerr != nil {
				err = errors.Join(err, rerr)
			}
			return nil, err
		}
		set.aliases = append(set.aliases, a)
	}

	eng.Logger().Info("applied manifest", "aliases", set.Len())
	return set, nil
}

func install(eng *alias.Engine, e Entry) (*alias.Alias, error) {
	a := eng.Alias(e.Sources...)

	srcScope := eng.DefaultScope()
	if e.SourceScope != "" {
		srcScope = namespace.Named(e.SourceScope)
	}
	a.WithSourceScope(srcScope)
	if e.DestinationScope != "" {
		a.WithDestinationScope(namespace.Named(e.DestinationScope))
	}

	if e.NamedCaller {
		a.WithNamedCaller()
	}
	if d, _ := e.DelayDuration(); d > 0 {
		a.DelayBy(d)
	}

	chains := []struct {
		paths []string
		add   func(filter.Filter) *alias.Alias
	}{
		{e.BeforeAll, a.BeforeAll},
		{e.BeforeEach, a.BeforeEach},
		{e.AfterEach, a.AfterEach},
		{e.AfterAll, a.AfterAll},
	}
	for _, c := range chains {
		for _, path := range c.paths {
			f, err := resolveFilter(eng, srcScope, path)
			if err != nil {
				return nil, err
			}
			c.add(f)
		}
	}

	switch {
	case e.Once:
		a.Once()
	case e.RevertAfter > 0:
		if err := a.RevertAfter(e.RevertAfter); err != nil {
			return nil, err
		}
	}

	return a.As(e.As...)
}

func resolveFilter(eng *alias.Engine, scope namespace.Scope, path string) (filter.Filter, error) {
	v, ok := eng.Resolver().Get(scope, path)
	if !ok {
		return nil, fmt.Errorf("%w: %s in %s", ErrFilterNotFound, path, scope)
	}
	c, ok := v.(namespace.Callable)
	if !ok {
		return nil, fmt.Errorf("%w: %s is %T", ErrFilterNotFound, path, v)
	}
	return filter.FromCallable(c), nil
}
