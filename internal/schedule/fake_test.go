package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFakeFiresOnlyWhenDue(t *testing.T) {
	s := NewFake()
	ran := false
	h := s.AfterFunc(100*time.Millisecond, func() { ran = true })

	assert.Equal(t, 100*time.Millisecond, h.Delay())
	assert.Equal(t, 1, s.Pending())

	s.Advance(99 * time.Millisecond)
	assert.False(t, ran)

	s.Advance(time.Millisecond)
	assert.True(t, ran)
	assert.Equal(t, 0, s.Pending())
	assert.False(t, h.Cancel(), "fired handle cannot be cancelled")
}

func TestFakeDeadlineOrder(t *testing.T) {
	s := NewFake()
	var order []string
	s.AfterFunc(30*time.Millisecond, func() { order = append(order, "slow") })
	s.AfterFunc(10*time.Millisecond, func() { order = append(order, "fast") })
	s.AfterFunc(10*time.Millisecond, func() { order = append(order, "fast-second") })

	s.Advance(time.Second)
	assert.Equal(t, []string{"fast", "fast-second", "slow"}, order)
}

func TestFakeCancel(t *testing.T) {
	s := NewFake()
	ran := false
	h := s.AfterFunc(time.Second, func() { ran = true })

	assert.True(t, h.Cancel())
	assert.False(t, h.Cancel())
	s.Advance(2 * time.Second)
	assert.False(t, ran)
}

func TestFakeNestedScheduling(t *testing.T) {
	s := NewFake()
	var order []int
	s.AfterFunc(10*time.Millisecond, func() {
		order = append(order, 1)
		s.AfterFunc(10*time.Millisecond, func() { order = append(order, 2) })
	})

	s.Advance(30 * time.Millisecond)
	assert.Equal(t, []int{1, 2}, order)
	assert.Equal(t, 30*time.Millisecond, s.Elapsed())
}

func TestFakeImmediate(t *testing.T) {
	s := NewFake()
	ran := false
	h := s.AfterFunc(0, func() { ran = true })
	assert.True(t, ran)
	assert.False(t, h.Cancel())
}

func TestNilHandleCancel(t *testing.T) {
	var h *Handle
	assert.False(t, h.Cancel())
}
