package rbtree

import (
	"fmt"
	"io"
	"strings"

	"ftl/infra/memory"

	"github.com/cockroachdb/errors"
)

// Verify checks the structural invariants: the sentinel is black and
// unlinked, the root is black and hangs off the header, parent and child
// links agree, no red node has a red child, every path has the same
// number of black nodes, values are strictly increasing, the begin cache
// is the minimum and Len matches the node count.
func (t *Tree[T]) Verify() error {
	b := t.b
	s := b.alloc.Get(null)
	if s.color != black || s.left != null || s.right != null || s.parent != null {
		return errors.AssertionFailedf("sentinel was written: color=%s left=%d right=%d parent=%d",
			s.color, s.left, s.right, s.parent)
	}
	if b.base.color != black || b.base.parent != end || b.base.right != null {
		return errors.AssertionFailedf("header was written")
	}
	root := b.root()
	if root == null {
		if b.size != 0 {
			return errors.AssertionFailedf("empty tree reports size %d", b.size)
		}
		if b.begin != end {
			return errors.AssertionFailedf("empty tree caches begin %d", b.begin)
		}
		return nil
	}
	rn := b.node(root)
	if rn.color != black {
		return errors.AssertionFailedf("root %d is red", root)
	}
	if rn.parent != end {
		return errors.AssertionFailedf("root %d has parent %d", root, rn.parent)
	}
	count, _, err := b.verifySubtree(root)
	if err != nil {
		return err
	}
	if count != b.size {
		return errors.AssertionFailedf("size %d, but %d nodes are reachable", b.size, count)
	}
	if lo := b.minimum(root); b.begin != lo {
		return errors.AssertionFailedf("begin cache %d, minimum is %d", b.begin, lo)
	}
	prev := b.begin
	for h := b.next(prev); h != end; h = b.next(h) {
		if !b.less(b.node(prev).value, b.node(h).value) {
			return errors.AssertionFailedf("node %d does not sort after node %d", h, prev)
		}
		prev = h
	}
	return nil
}

// verifySubtree returns the node count and black height of the subtree
// at h.
func (b *body[T]) verifySubtree(h memory.Handle) (count, blackHeight int, _ error) {
	if h == null {
		return 0, 1, nil
	}
	n := b.node(h)
	if n.color != red && n.color != black {
		return 0, 0, errors.AssertionFailedf("node %d has color %d", h, n.color)
	}
	for _, c := range []memory.Handle{n.left, n.right} {
		if c == null {
			continue
		}
		cn := b.node(c)
		if cn.parent != h {
			return 0, 0, errors.AssertionFailedf("node %d is a child of %d but links to parent %d", c, h, cn.parent)
		}
		if n.color == red && cn.color == red {
			return 0, 0, errors.AssertionFailedf("red node %d has red child %d", h, c)
		}
	}
	lc, lbh, err := b.verifySubtree(n.left)
	if err != nil {
		return 0, 0, err
	}
	rc, rbh, err := b.verifySubtree(n.right)
	if err != nil {
		return 0, 0, err
	}
	if lbh != rbh {
		return 0, 0, errors.AssertionFailedf("node %d: black height %d on the left, %d on the right", h, lbh, rbh)
	}
	if n.color == black {
		lbh++
	}
	return lc + rc + 1, lbh, nil
}

// Dump writes the tree shape, one node per line in pre-order.
func (t *Tree[T]) Dump(w io.Writer) {
	if t.b.root() == null {
		fmt.Fprintln(w, "<empty>")
		return
	}
	t.b.dump(w, t.b.root(), 0, "")
}

func (b *body[T]) dump(w io.Writer, h memory.Handle, depth int, side string) {
	n := b.node(h)
	fmt.Fprintf(w, "%s%s%v %s\n", strings.Repeat("  ", depth), side, n.value, n.color)
	if n.left != null {
		b.dump(w, n.left, depth+1, "L ")
	}
	if n.right != null {
		b.dump(w, n.right, depth+1, "R ")
	}
}
