package stack

import "iter"

// node is one immutable frame of a stack.
type node[T any] struct {
	value T
	next  *node[T]
}

// Stack is an immutable last-in-first-out sequence. The zero value is an
// empty stack ready to use.
type Stack[T any] struct {
	top *node[T]
}

// New returns an empty stack.
func New[T any]() Stack[T] {
	return Stack[T]{}
}

// Push returns a new stack with v on top. The receiver is not modified.
func (s Stack[T]) Push(v T) Stack[T] {
	return Stack[T]{top: &node[T]{value: v, next: s.top}}
}

// Peek returns the top value. On an empty stack it returns the zero value
// and false.
func (s Stack[T]) Peek() (T, bool) {
	if s.top == nil {
		var zero T
		return zero, false
	}
	return s.top.value, true
}

// Pop returns the stack below the top frame. On an empty stack it returns an
// empty stack and false.
func (s Stack[T]) Pop() (Stack[T], bool) {
	if s.top == nil {
		return Stack[T]{}, false
	}
	return Stack[T]{top: s.top.next}, true
}

// Empty reports whether the stack has no frames.
func (s Stack[T]) Empty() bool {
	return s.top == nil
}

// Len counts the frames by walking the stack.
func (s Stack[T]) Len() int {
	n := 0
	for range s.All() {
		n++
	}
	return n
}

// All yields the values from top to bottom.
func (s Stack[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for n := s.top; n != nil; n = n.next {
			if !yield(n.value) {
				return
			}
		}
	}
}

// Values returns the values from top to bottom in a fresh slice.
func (s Stack[T]) Values() []T {
	out := make([]T, 0)
	for v := range s.All() {
		out = append(out, v)
	}
	return out
}
