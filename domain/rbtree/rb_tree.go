package rbtree

import (
	"iter"

	"ftl/infra/memory"

	"golang.org/x/exp/constraints"
)

// Tree is a red-black tree of unique values ordered by a strict weak
// order. Values that compare equivalent are duplicates; the first one
// inserted wins.
type Tree[T any] struct {
	b *body[T]
}

// Option configures a Tree.
type Option[T any] func(*body[T])

// WithAllocator makes the tree take its nodes from a. The allocator may
// be shared with other trees.
func WithAllocator[T any](a memory.Allocator[Node[T]]) Option[T] {
	return func(b *body[T]) { b.alloc = a }
}

// New creates an empty tree ordered by less.
func New[T any](less func(a, b T) bool, opts ...Option[T]) *Tree[T] {
	b := &body[T]{less: less, begin: end}
	b.base.parent = end
	for _, opt := range opts {
		opt(b)
	}
	if b.alloc == nil {
		b.alloc = memory.NewArena[Node[T]]()
	}
	return &Tree[T]{b: b}
}

// NewOrdered creates an empty tree ordered by <.
func NewOrdered[T constraints.Ordered](opts ...Option[T]) *Tree[T] {
	return New(func(a, b T) bool { return a < b }, opts...)
}

// Len returns the number of elements.
func (t *Tree[T]) Len() int { return t.b.size }

// Empty reports whether the tree has no elements.
func (t *Tree[T]) Empty() bool { return t.b.size == 0 }

// MaxSize is bounded by the allocator.
func (t *Tree[T]) MaxSize() int { return t.b.alloc.MaxSize() }

// Less returns the ordering the tree was built with.
func (t *Tree[T]) Less() func(a, b T) bool { return t.b.less }

// Allocator returns the node allocator.
func (t *Tree[T]) Allocator() memory.Allocator[Node[T]] { return t.b.alloc }

// Begin addresses the minimum element, or End() when empty.
func (t *Tree[T]) Begin() Iterator[T] { return Iterator[T]{t.b, t.b.begin} }

// End addresses the position one past the maximum.
func (t *Tree[T]) End() Iterator[T] { return Iterator[T]{t.b, end} }

// Min returns the smallest element.
func (t *Tree[T]) Min() (T, bool) {
	if t.b.size == 0 {
		var zero T
		return zero, false
	}
	return t.b.node(t.b.begin).value, true
}

// Max returns the largest element.
func (t *Tree[T]) Max() (T, bool) {
	if t.b.size == 0 {
		var zero T
		return zero, false
	}
	return t.b.node(t.b.maximum(t.b.root())).value, true
}

// Insert adds v unless an equivalent value is present. It returns the
// position of v or of the value that blocked it, and whether v was
// added. An allocation failure is returned unchanged and leaves the tree
// as it was.
func (t *Tree[T]) Insert(v T) (Iterator[T], bool, error) {
	b := t.b
	y, x := end, b.root()
	asLeft := true
	for x != null {
		y = x
		n := b.node(x)
		switch {
		case b.less(v, n.value):
			x, asLeft = n.left, true
		case b.less(n.value, v):
			x, asLeft = n.right, false
		default:
			return Iterator[T]{b, x}, false, nil
		}
	}
	z, err := b.attach(y, asLeft, v)
	if err != nil {
		return t.End(), false, err
	}
	return Iterator[T]{b, z}, true, nil
}

// InsertHint inserts v, using hint as a guess for the position right
// after v. When v belongs immediately before hint (or hint is End() and
// v is greater than every element) the new node is linked without a
// search from the root; otherwise InsertHint falls back to Insert.
func (t *Tree[T]) InsertHint(hint Position, v T) (Iterator[T], error) {
	b := t.b
	h := hint.position()
	if h != end {
		n := b.node(h)
		if !b.less(v, n.value) && !b.less(n.value, v) {
			return Iterator[T]{b, h}, nil
		}
	}
	if p, asLeft, ok := b.hintSlot(h, v); ok {
		z, err := b.attach(p, asLeft, v)
		if err != nil {
			return t.End(), err
		}
		return Iterator[T]{b, z}, nil
	}
	it, _, err := t.Insert(v)
	return it, err
}

// InsertRange inserts every value of seq. On error the values inserted
// before the failure stay in the tree.
func (t *Tree[T]) InsertRange(seq iter.Seq[T]) error {
	for v := range seq {
		if _, err := t.InsertHint(t.End(), v); err != nil {
			return err
		}
	}
	return nil
}

// Erase removes the element at pos and returns its successor. Erasing
// End() does nothing and returns End().
func (t *Tree[T]) Erase(pos Position) Iterator[T] {
	h := pos.position()
	if h == end {
		return t.End()
	}
	next := t.b.next(h)
	t.b.erase(h)
	return Iterator[T]{t.b, next}
}

// EraseValue removes the element equivalent to v and returns how many
// were removed.
func (t *Tree[T]) EraseValue(v T) int {
	h := t.b.find(v)
	if h == end {
		return 0
	}
	t.b.erase(h)
	return 1
}

// EraseRange removes [first, last) and returns last.
func (t *Tree[T]) EraseRange(first, last Position) Iterator[T] {
	f, l := first.position(), last.position()
	if f == t.b.begin && l == end {
		t.Clear()
		return t.End()
	}
	for f != l {
		next := t.b.next(f)
		t.b.erase(f)
		f = next
	}
	return Iterator[T]{t.b, l}
}

// Find returns the element equivalent to v, or End().
func (t *Tree[T]) Find(v T) Iterator[T] { return Iterator[T]{t.b, t.b.find(v)} }

// Contains reports whether an element equivalent to v is present.
func (t *Tree[T]) Contains(v T) bool { return t.b.find(v) != end }

// Count returns 1 if an element equivalent to v is present, else 0.
func (t *Tree[T]) Count(v T) int {
	if t.b.find(v) == end {
		return 0
	}
	return 1
}

// LowerBound returns the first element not ordered before v.
func (t *Tree[T]) LowerBound(v T) Iterator[T] {
	return Iterator[T]{t.b, t.b.lowerBound(v)}
}

// UpperBound returns the first element ordered after v.
func (t *Tree[T]) UpperBound(v T) Iterator[T] {
	return Iterator[T]{t.b, t.b.upperBound(v)}
}

// EqualRange returns [LowerBound(v), UpperBound(v)). It spans at most
// one element.
func (t *Tree[T]) EqualRange(v T) (Iterator[T], Iterator[T]) {
	return t.LowerBound(v), t.UpperBound(v)
}

// Clear destroys every node.
func (t *Tree[T]) Clear() { t.b.clear() }

// Clone returns a deep copy that takes its nodes from the same
// allocator.
func (t *Tree[T]) Clone() (*Tree[T], error) {
	return t.CloneWith(t.b.alloc)
}

// CloneWith returns a deep copy that takes its nodes from a. On error
// every node allocated for the copy has been released.
func (t *Tree[T]) CloneWith(a memory.Allocator[Node[T]]) (*Tree[T], error) {
	c := New(t.b.less, WithAllocator(a))
	if err := c.b.copyFrom(t.b); err != nil {
		return nil, err
	}
	return c, nil
}

// Assign replaces the contents of t with a deep copy of src. On error t
// is left valid but may be empty.
func (t *Tree[T]) Assign(src *Tree[T]) error {
	if t.b == src.b {
		return nil
	}
	t.b.clear()
	t.b.less = src.b.less
	return t.b.copyFrom(src.b)
}

// Swap exchanges the contents of two trees in O(1). Iterators stay valid
// and follow their elements into the other tree.
func (t *Tree[T]) Swap(o *Tree[T]) {
	t.b, o.b = o.b, t.b
}

// All yields the elements in ascending order.
func (t *Tree[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		t.Ascend(yield)
	}
}

// Backward yields the elements in descending order.
func (t *Tree[T]) Backward() iter.Seq[T] {
	return func(yield func(T) bool) {
		t.Descend(yield)
	}
}

// Ascend calls fn on each element in ascending order until fn returns
// false.
func (t *Tree[T]) Ascend(fn func(T) bool) {
	b := t.b
	for h := b.begin; h != end; h = b.next(h) {
		if !fn(b.node(h).value) {
			return
		}
	}
}

// Descend calls fn on each element in descending order until fn returns
// false.
func (t *Tree[T]) Descend(fn func(T) bool) {
	b := t.b
	if b.size == 0 {
		return
	}
	for h := b.maximum(b.root()); ; h = b.prev(h) {
		if !fn(b.node(h).value) || h == b.begin {
			return
		}
	}
}

/******************** Internal helpers ********************/

func (b *body[T]) find(v T) memory.Handle {
	h := b.lowerBound(v)
	if h == end || b.less(v, b.node(h).value) {
		return end
	}
	return h
}

func (b *body[T]) lowerBound(v T) memory.Handle {
	y, x := end, b.root()
	for x != null {
		n := b.node(x)
		if !b.less(n.value, v) {
			y, x = x, n.left
		} else {
			x = n.right
		}
	}
	return y
}

func (b *body[T]) upperBound(v T) memory.Handle {
	y, x := end, b.root()
	for x != null {
		n := b.node(x)
		if b.less(v, n.value) {
			y, x = x, n.left
		} else {
			x = n.right
		}
	}
	return y
}

// hintSlot reports where v can be linked when it sorts immediately
// before hint. A hint of end means "after the maximum".
func (b *body[T]) hintSlot(h memory.Handle, v T) (parent memory.Handle, asLeft bool, ok bool) {
	if b.size == 0 {
		return end, true, h == end
	}
	if h == end {
		mx := b.maximum(b.root())
		if b.less(b.node(mx).value, v) {
			return mx, false, true
		}
		return null, false, false
	}
	n := b.node(h)
	switch {
	case b.less(v, n.value):
		if h == b.begin {
			return h, true, true
		}
		p := b.prev(h)
		if !b.less(b.node(p).value, v) {
			return null, false, false
		}
		if n.left == null {
			return h, true, true
		}
		return p, false, true
	case b.less(n.value, v):
		nx := b.next(h)
		if nx != end && !b.less(v, b.node(nx).value) {
			return null, false, false
		}
		if n.right == null {
			return h, false, true
		}
		return nx, true, true
	}
	return null, false, false
}

// attach links a new red node holding v under p and rebalances.
func (b *body[T]) attach(p memory.Handle, asLeft bool, v T) (memory.Handle, error) {
	z, err := b.alloc.Allocate()
	if err != nil {
		return null, err
	}
	b.alloc.Construct(z, Node[T]{value: v, parent: p, left: null, right: null, color: red})
	pn := b.node(p)
	if asLeft {
		pn.left = z
	} else {
		pn.right = z
	}
	if b.begin == end || (asLeft && p == b.begin) {
		b.begin = z
	}
	b.size++
	b.insertFixup(z)
	return z, nil
}

func (b *body[T]) release(h memory.Handle) {
	b.alloc.Destroy(h)
	b.alloc.Deallocate(h)
}

// destroy frees the subtree rooted at h in post-order.
func (b *body[T]) destroy(h memory.Handle) {
	if h == null {
		return
	}
	n := b.node(h)
	b.destroy(n.left)
	b.destroy(n.right)
	b.release(h)
}

func (b *body[T]) clear() {
	b.destroy(b.root())
	b.base.left = null
	b.begin = end
	b.size = 0
}

func (b *body[T]) copyFrom(src *body[T]) error {
	if src.size == 0 {
		return nil
	}
	root, err := b.cloneSubtree(src, src.root(), end)
	if err != nil {
		return err
	}
	b.base.left = root
	b.begin = b.minimum(root)
	b.size = src.size
	return nil
}

// cloneSubtree copies the subtree at h in pre-order, keeping colors.
func (b *body[T]) cloneSubtree(src *body[T], h, parent memory.Handle) (memory.Handle, error) {
	sn := src.node(h)
	c, err := b.alloc.Allocate()
	if err != nil {
		return null, err
	}
	b.alloc.Construct(c, Node[T]{value: sn.value, parent: parent, color: sn.color})
	if sn.left != null {
		l, err := b.cloneSubtree(src, sn.left, c)
		if err != nil {
			b.release(c)
			return null, err
		}
		b.node(c).left = l
	}
	if sn.right != null {
		r, err := b.cloneSubtree(src, sn.right, c)
		if err != nil {
			b.destroy(c)
			return null, err
		}
		b.node(c).right = r
	}
	return c, nil
}

// replaceChild points p's link to old at repl instead. p may be the
// header.
func (b *body[T]) replaceChild(p, old, repl memory.Handle) {
	pn := b.node(p)
	if pn.left == old {
		pn.left = repl
	} else {
		pn.right = repl
	}
}

func (b *body[T]) rotateLeft(x memory.Handle) {
	xn := b.node(x)
	y := xn.right
	yn := b.node(y)
	xn.right = yn.left
	if yn.left != null {
		b.node(yn.left).parent = x
	}
	yn.parent = xn.parent
	b.replaceChild(xn.parent, x, y)
	yn.left = x
	xn.parent = y
}

func (b *body[T]) rotateRight(y memory.Handle) {
	yn := b.node(y)
	x := yn.left
	xn := b.node(x)
	yn.left = xn.right
	if xn.right != null {
		b.node(xn.right).parent = y
	}
	xn.parent = yn.parent
	b.replaceChild(yn.parent, y, x)
	xn.right = y
	yn.parent = x
}

func (b *body[T]) insertFixup(z memory.Handle) {
	for b.colorOf(b.node(z).parent) == red {
		zp := b.node(z).parent
		zpp := b.node(zp).parent
		if zp == b.node(zpp).left {
			y := b.node(zpp).right
			if b.colorOf(y) == red {
				b.node(zp).color = black
				b.node(y).color = black
				b.node(zpp).color = red
				z = zpp
				continue
			}
			if z == b.node(zp).right {
				z = zp
				b.rotateLeft(z)
				zp = b.node(z).parent
			}
			b.node(zp).color = black
			b.node(zpp).color = red
			b.rotateRight(zpp)
		} else {
			y := b.node(zpp).left
			if b.colorOf(y) == red {
				b.node(zp).color = black
				b.node(y).color = black
				b.node(zpp).color = red
				z = zpp
				continue
			}
			if z == b.node(zp).left {
				z = zp
				b.rotateRight(z)
				zp = b.node(z).parent
			}
			b.node(zp).color = black
			b.node(zpp).color = red
			b.rotateLeft(zpp)
		}
	}
	b.node(b.root()).color = black
}

// transplant puts v where u hangs. v may be the sentinel, whose parent
// link is left alone.
func (b *body[T]) transplant(u, v memory.Handle) {
	p := b.node(u).parent
	b.replaceChild(p, u, v)
	if v != null {
		b.node(v).parent = p
	}
}

func (b *body[T]) erase(z memory.Handle) {
	if z == b.begin {
		b.begin = b.next(z)
	}
	zn := b.node(z)
	yColor := zn.color
	var x, xp memory.Handle
	switch {
	case zn.left == null:
		x, xp = zn.right, zn.parent
		b.transplant(z, x)
	case zn.right == null:
		x, xp = zn.left, zn.parent
		b.transplant(z, x)
	default:
		y := b.minimum(zn.right)
		yn := b.node(y)
		yColor = yn.color
		x = yn.right
		if yn.parent == z {
			xp = y
		} else {
			xp = yn.parent
			b.transplant(y, x)
			yn.right = zn.right
			b.node(yn.right).parent = y
		}
		b.transplant(z, y)
		yn.left = zn.left
		b.node(yn.left).parent = y
		yn.color = zn.color
	}
	if yColor == black {
		b.deleteFixup(x, xp)
	}
	b.release(z)
	b.size--
}

// deleteFixup restores the black height after a black node left the
// path through x. xp is x's parent, tracked here because x may be the
// sentinel.
func (b *body[T]) deleteFixup(x, xp memory.Handle) {
	for x != b.root() && b.colorOf(x) == black {
		pn := b.node(xp)
		if x == pn.left {
			w := pn.right
			if b.colorOf(w) == red {
				b.node(w).color = black
				pn.color = red
				b.rotateLeft(xp)
				w = pn.right
			}
			wn := b.node(w)
			if b.colorOf(wn.left) == black && b.colorOf(wn.right) == black {
				wn.color = red
				x, xp = xp, pn.parent
				continue
			}
			if b.colorOf(wn.right) == black {
				b.node(wn.left).color = black
				wn.color = red
				b.rotateRight(w)
				w = pn.right
				wn = b.node(w)
			}
			wn.color = pn.color
			pn.color = black
			b.node(wn.right).color = black
			b.rotateLeft(xp)
			x = b.root()
		} else {
			w := pn.left
			if b.colorOf(w) == red {
				b.node(w).color = black
				pn.color = red
				b.rotateRight(xp)
				w = pn.left
			}
			wn := b.node(w)
			if b.colorOf(wn.right) == black && b.colorOf(wn.left) == black {
				wn.color = red
				x, xp = xp, pn.parent
				continue
			}
			if b.colorOf(wn.left) == black {
				b.node(wn.right).color = black
				wn.color = red
				b.rotateLeft(w)
				w = pn.left
				wn = b.node(w)
			}
			wn.color = pn.color
			pn.color = black
			b.node(wn.left).color = black
			b.rotateRight(xp)
			x = b.root()
		}
	}
	if x != null {
		b.node(x).color = black
	}
}
