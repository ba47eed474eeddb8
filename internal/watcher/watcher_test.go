package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsMissingFile(t *testing.T) {
	_, err := New([]string{filepath.Join(t.TempDir(), "missing.lua")})
	assert.ErrorIs(t, err, ErrPathNotExist)
}

func TestWatcherReportsChanges(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "init.lua")
	other := filepath.Join(dir, "other.txt")
	require.NoError(t, os.WriteFile(script, []byte("x = 1"), 0o644))

	w, err := New([]string{script}, WithDebounce(20*time.Millisecond))
	require.NoError(t, err)
	defer w.Close()

	abs, _ := filepath.Abs(script)
	assert.Equal(t, []string{abs}, w.Files())

	require.NoError(t, os.WriteFile(other, []byte("ignored"), 0o644))
	require.NoError(t, os.WriteFile(script, []byte("x = 2"), 0o644))

	select {
	case ev := <-w.Events():
		assert.Equal(t, []string{abs}, ev.Paths)
		assert.True(t, ev.Op.Has(OpWrite) || ev.Op.Has(OpCreate))
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for change event")
	}
}

func TestWatcherClose(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "init.lua")
	require.NoError(t, os.WriteFile(script, nil, 0o644))

	w, err := New([]string{script})
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	_, ok := <-w.Events()
	assert.False(t, ok)
	_, ok = <-w.Errors()
	assert.False(t, ok)
}
