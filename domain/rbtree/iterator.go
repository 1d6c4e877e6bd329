package rbtree

import "ftl/infra/memory"

// Position is implemented by Iterator and ConstIterator. Positions are
// equal when they address the same node, whatever their constness.
type Position interface {
	position() memory.Handle
}

// Iterator is a bidirectional cursor that may modify the element it
// addresses. The zero Iterator is not usable.
type Iterator[T any] struct {
	b *body[T]
	h memory.Handle
}

// Value returns a copy of the element. Undefined at End().
func (it Iterator[T]) Value() T { return it.b.node(it.h).value }

// Ref returns the element in place. The caller must not change anything
// that affects its ordering. Undefined at End().
func (it Iterator[T]) Ref() *T { return &it.b.node(it.h).value }

// Next steps to the in-order successor.
func (it Iterator[T]) Next() Iterator[T] { return Iterator[T]{it.b, it.b.next(it.h)} }

// Prev steps to the in-order predecessor. End().Prev() is the maximum.
func (it Iterator[T]) Prev() Iterator[T] { return Iterator[T]{it.b, it.b.prev(it.h)} }

// IsEnd reports whether the iterator is one past the maximum.
func (it Iterator[T]) IsEnd() bool { return it.h == end }

// Equal reports whether both positions address the same node.
func (it Iterator[T]) Equal(o Position) bool { return it.h == o.position() }

// Const drops write access.
func (it Iterator[T]) Const() ConstIterator[T] { return ConstIterator[T]{it} }

func (it Iterator[T]) position() memory.Handle { return it.h }

// ConstIterator is a read-only Iterator. It wraps the mutable cursor
// without exposing it, so it cannot be turned back into one.
type ConstIterator[T any] struct {
	it Iterator[T]
}

// Value returns a copy of the element. Undefined at End().
func (c ConstIterator[T]) Value() T { return c.it.Value() }

// Next steps to the in-order successor.
func (c ConstIterator[T]) Next() ConstIterator[T] { return ConstIterator[T]{c.it.Next()} }

// Prev steps to the in-order predecessor.
func (c ConstIterator[T]) Prev() ConstIterator[T] { return ConstIterator[T]{c.it.Prev()} }

// IsEnd reports whether the iterator is one past the maximum.
func (c ConstIterator[T]) IsEnd() bool { return c.it.IsEnd() }

// Equal reports whether both positions address the same node.
func (c ConstIterator[T]) Equal(o Position) bool { return c.it.h == o.position() }

func (c ConstIterator[T]) position() memory.Handle { return c.it.h }
