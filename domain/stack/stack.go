// Package stack adapts a back-insertable container into a LIFO stack.
package stack

import (
	"iter"

	"ftl/domain/algo"
	"ftl/domain/vector"

	"golang.org/x/exp/constraints"
)

// Container is what a Stack needs from its storage. All yields the
// elements bottom to top.
type Container[T any] interface {
	PushBack(v T) error
	PopBack()
	BackRef() *T
	Len() int
	All() iter.Seq[T]
}

var _ Container[int] = (*vector.Vector[int])(nil)

type Stack[T any] struct {
	c Container[T]
}

// New creates a stack backed by a vector.
func New[T any]() *Stack[T] { return &Stack[T]{c: vector.New[T]()} }

// NewOn creates a stack on top of c, keeping whatever c already holds.
func NewOn[T any](c Container[T]) *Stack[T] { return &Stack[T]{c: c} }

func (s *Stack[T]) Push(v T) error { return s.c.PushBack(v) }

// Pop drops the top element. Undefined on an empty stack.
func (s *Stack[T]) Pop() { s.c.PopBack() }

func (s *Stack[T]) Top() T      { return *s.c.BackRef() }
func (s *Stack[T]) TopRef() *T  { return s.c.BackRef() }
func (s *Stack[T]) Len() int    { return s.c.Len() }
func (s *Stack[T]) Empty() bool { return s.c.Len() == 0 }

func (s *Stack[T]) Swap(o *Stack[T]) { s.c, o.c = o.c, s.c }

// All yields the elements bottom to top.
func (s *Stack[T]) All() iter.Seq[T] { return s.c.All() }

// Equal compares stacks element by element from the bottom.
func Equal[T comparable](a, b *Stack[T]) bool {
	return a.Len() == b.Len() && algo.Equal(a.All(), b.All())
}

// Less orders stacks lexicographically from the bottom.
func Less[T constraints.Ordered](a, b *Stack[T]) bool {
	return algo.LexicographicalCompare(a.All(), b.All())
}
