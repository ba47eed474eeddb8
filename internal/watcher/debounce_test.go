package watcher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/alias/internal/schedule"
)

func TestDebouncerCoalescesBurst(t *testing.T) {
	sched := schedule.NewFake()
	d := NewDebouncer(sched, 100*time.Millisecond, 4)
	defer d.Close()

	d.Trigger("/b", OpWrite)
	sched.Advance(60 * time.Millisecond)
	d.Trigger("/a", OpCreate)
	sched.Advance(60 * time.Millisecond)
	d.Trigger("/b", OpWrite)

	assert.True(t, d.Pending())
	assert.Empty(t, d.Events(), "quiet period restarts on every trigger")

	sched.Advance(100 * time.Millisecond)
	require.Len(t, d.Events(), 1)
	ev := <-d.Events()
	assert.Equal(t, []string{"/a", "/b"}, ev.Paths)
	assert.True(t, ev.Op.Has(OpWrite))
	assert.True(t, ev.Op.Has(OpCreate))
	assert.False(t, ev.Op.Has(OpRemove))
	assert.False(t, d.Pending())
}

func TestDebouncerSeparateBursts(t *testing.T) {
	sched := schedule.NewFake()
	d := NewDebouncer(sched, 10*time.Millisecond, 4)
	defer d.Close()

	d.Trigger("/a", OpWrite)
	sched.Advance(10 * time.Millisecond)
	d.Trigger("/a", OpRemove)
	sched.Advance(10 * time.Millisecond)

	require.Len(t, d.Events(), 2)
	first, second := <-d.Events(), <-d.Events()
	assert.Equal(t, OpWrite, first.Op)
	assert.Equal(t, OpRemove, second.Op)
}

func TestDebouncerClose(t *testing.T) {
	sched := schedule.NewFake()
	d := NewDebouncer(sched, 10*time.Millisecond, 1)

	d.Trigger("/a", OpWrite)
	d.Close()
	d.Close()
	sched.Advance(time.Second)
	d.Trigger("/a", OpWrite)

	_, ok := <-d.Events()
	assert.False(t, ok, "channel is closed without delivering")
}

func TestOpString(t *testing.T) {
	assert.Equal(t, "CREATE", OpCreate.String())
	assert.Equal(t, "WRITE", OpWrite.String())
	assert.Equal(t, "REMOVE", OpRemove.String())
	assert.Equal(t, "RENAME", OpRename.String())
	assert.Equal(t, "Op(3)", (OpCreate | OpWrite).String())
}
