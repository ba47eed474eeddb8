package schedule

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoopRunUntilIdle(t *testing.T) {
	l := NewLoop()
	var order []string
	l.AfterFunc(20*time.Millisecond, func() { order = append(order, "late") })
	l.Post(func() { order = append(order, "now") })

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	require.NoError(t, l.RunUntilIdle(ctx))
	assert.Equal(t, []string{"now", "late"}, order)
	assert.Equal(t, 0, l.Pending())
}

func TestLoopCancel(t *testing.T) {
	l := NewLoop()
	ran := false
	h := l.AfterFunc(10*time.Millisecond, func() { ran = true })
	assert.True(t, h.Cancel())

	require.NoError(t, l.RunUntilIdle(context.Background()))
	assert.False(t, ran)
}

func TestLoopRunStopsOnContext(t *testing.T) {
	l := NewLoop()
	ctx, cancel := context.WithCancel(context.Background())

	var ran atomic.Bool
	l.AfterFunc(5*time.Millisecond, func() {
		ran.Store(true)
		cancel()
	})

	err := l.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, ran.Load())
}

func TestLoopWakesForCrossGoroutinePost(t *testing.T) {
	l := NewLoop()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	done := make(chan struct{})
	go func() {
		time.Sleep(5 * time.Millisecond)
		l.Post(func() {
			close(done)
			cancel()
		})
	}()

	_ = l.Run(ctx)
	select {
	case <-done:
	default:
		t.Fatal("posted thunk did not run")
	}
}
