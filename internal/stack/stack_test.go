package stack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptyStack(t *testing.T) {
	var s Stack[string]

	v, ok := s.Peek()
	assert.False(t, ok)
	assert.Equal(t, "", v)

	popped, ok := s.Pop()
	assert.False(t, ok)
	assert.True(t, popped.Empty())

	assert.True(t, s.Empty())
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.Values())
}

func TestPushPeekPop(t *testing.T) {
	s := New[int]().Push(1).Push(2).Push(3)

	top, ok := s.Peek()
	require.True(t, ok)
	assert.Equal(t, 3, top)
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, []int{3, 2, 1}, s.Values())

	rest, ok := s.Pop()
	require.True(t, ok)
	assert.Equal(t, []int{2, 1}, rest.Values())
}

func TestPopUndoesPush(t *testing.T) {
	base := New[string]().Push("a").Push("b")

	pushed := base.Push("c")
	undone, ok := pushed.Pop()
	require.True(t, ok)

	assert.Equal(t, base.Values(), undone.Values())
	baseTop, _ := base.Peek()
	undoneTop, _ := undone.Peek()
	assert.Equal(t, baseTop, undoneTop)
	// The popped stack reuses the original frames.
	assert.Same(t, base.top, undone.top)
}

func TestPushDoesNotAlterExistingReferences(t *testing.T) {
	base := New[string]().Push("x")
	left := base.Push("left")
	right := base.Push("right")

	assert.Equal(t, []string{"x"}, base.Values())
	assert.Equal(t, []string{"left", "x"}, left.Values())
	assert.Equal(t, []string{"right", "x"}, right.Values())
	assert.Same(t, left.top.next, right.top.next, "siblings share their tail")
}

func TestAllStopsEarly(t *testing.T) {
	s := New[int]().Push(1).Push(2).Push(3)

	var seen []int
	for v := range s.All() {
		seen = append(seen, v)
		if v == 2 {
			break
		}
	}
	assert.Equal(t, []int{3, 2}, seen)
}
