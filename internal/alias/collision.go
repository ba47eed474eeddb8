package alias

import (
	"fmt"

	"github.com/dshills/alias/internal/namespace"
	"github.com/dshills/alias/internal/undo"
)

// guard relocates every source that is the identical value currently
// occupying dest, so that writing the dispatcher into dest cannot make
// the dispatcher call itself. Reversals are pushed onto log.
func (a *Alias) guard(srcScope, dstScope namespace.Scope, dest string, log *undo.Log) error {
	r := a.engine.resolver

	occupant, ok := r.Get(dstScope, dest)
	if !ok {
		return nil
	}

	a.mu.Lock()
	sources := append([]string(nil), a.sources...)
	a.mu.Unlock()

	for _, src := range sources {
		value, ok := r.Get(srcScope, src)
		if !ok || !namespace.Same(value, occupant) {
			continue
		}

		unique := a.uniqueName(srcScope, src)
		if err := r.Set(srcScope, unique, value); err != nil {
			return fmt.Errorf("relocating %s: %w", src, err)
		}
		a.renameSource(src, unique)

		a.engine.logger.Debug("relocated colliding source",
			"source", src, "relocated", unique, "destination", dest)

		log.Push(undo.Action{
			Description: fmt.Sprintf("relocate %s -> %s", src, unique),
			Undo: func() error {
				if err := r.Delete(srcScope, unique); err != nil {
					return err
				}
				if err := r.Set(srcScope, src, value); err != nil {
					return err
				}
				a.renameSource(unique, src)
				return nil
			},
		})
	}
	return nil
}

// uniqueName asks the namer for candidates until one is free in scope.
func (a *Alias) uniqueName(scope namespace.Scope, base string) string {
	for {
		candidate := a.engine.namer.Next(base)
		if _, taken := a.engine.resolver.Get(scope, candidate); !taken {
			return candidate
		}
	}
}
