package alias

import "fmt"

// Revert undoes every install of this alias, newest mutation first, and
// empties the history. Reverting with an empty history is a no-op.
// Pending delayed executions are not cancelled; see CancelPending.
func (a *Alias) Revert() error {
	n := a.history.Len()
	if n == 0 {
		return nil
	}
	err := a.history.Replay()
	a.engine.logger.Debug("reverted alias", "actions", n, "sources", a.Sources())
	if err != nil {
		return fmt.Errorf("alias: revert: %w", err)
	}
	return nil
}

// RevertAfter arms an automatic Revert that fires at the end of the
// dispatch whose own source invocations move the call counter to n,
// after the AfterAll filters have run. Later dispatches do not fire it
// again, so an alias reinstalled with As stays installed past n.
func (a *Alias) RevertAfter(n int) error {
	if n <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidRevertCount, n)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.revertAt = append(a.revertAt, int64(n))
	return nil
}

// Once reverts the alias after its first dispatch.
func (a *Alias) Once() *Alias {
	_ = a.RevertAfter(1)
	return a
}
