// Package stack provides a persistent, structurally shared LIFO stack.
//
// A Stack is a small value wrapping a pointer to an immutable linked node.
// Push allocates exactly one node and reuses the existing tail, so any number
// of stacks can share a common suffix. Nothing in this package mutates a node
// after it is created, which makes every Stack value safe to copy, keep and
// read from multiple goroutines.
//
//	s0 := stack.New[int]()
//	s1 := s0.Push(1)
//	s2 := s1.Push(2)   // s1 is unchanged
//	s3, _ := s2.Pop()  // s3 shares its node with s1
package stack
