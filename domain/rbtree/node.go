package rbtree

import (
	"math"

	"ftl/infra/memory"
)

type color uint8

// black is the zero value, so the reserved memory.Nil slot of any arena
// is a black sentinel without further setup.
const (
	black color = iota
	red
)

func (c color) String() string {
	if c == red {
		return "red"
	}
	return "black"
}

const (
	null = memory.Nil
	end  = memory.Handle(math.MaxUint32)
)

// Node is the allocator record of one element. It is exported so callers
// can supply a memory.Allocator[Node[T]]; its fields are private to the
// tree.
type Node[T any] struct {
	value  T
	parent memory.Handle
	left   memory.Handle
	right  memory.Handle
	color  color
}

// body is the state shared by a Tree and its iterators. Swap exchanges
// bodies between trees, so iterators follow their elements.
type body[T any] struct {
	base  Node[T] // header: base.left is the root
	begin memory.Handle
	size  int
	less  func(a, b T) bool
	alloc memory.Allocator[Node[T]]
}

func (b *body[T]) node(h memory.Handle) *Node[T] {
	if h == end {
		return &b.base
	}
	return b.alloc.Get(h)
}

func (b *body[T]) root() memory.Handle { return b.base.left }

func (b *body[T]) colorOf(h memory.Handle) color { return b.node(h).color }

func (b *body[T]) minimum(h memory.Handle) memory.Handle {
	for l := b.node(h).left; l != null; l = b.node(h).left {
		h = l
	}
	return h
}

func (b *body[T]) maximum(h memory.Handle) memory.Handle {
	for r := b.node(h).right; r != null; r = b.node(h).right {
		h = r
	}
	return h
}

// next returns the in-order successor of h, or end after the maximum.
func (b *body[T]) next(h memory.Handle) memory.Handle {
	n := b.node(h)
	if n.right != null {
		return b.minimum(n.right)
	}
	p := n.parent
	for h == b.node(p).right {
		h = p
		p = b.node(p).parent
	}
	return p
}

// prev returns the in-order predecessor of h; prev(end) is the maximum.
func (b *body[T]) prev(h memory.Handle) memory.Handle {
	if h == end {
		if b.root() == null {
			return end
		}
		return b.maximum(b.root())
	}
	n := b.node(h)
	if n.left != null {
		return b.maximum(n.left)
	}
	p := n.parent
	for h == b.node(p).left {
		h = p
		p = b.node(p).parent
	}
	return p
}
