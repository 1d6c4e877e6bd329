package ordered

import (
	"iter"

	"ftl/domain/algo"
	"ftl/domain/rbtree"

	"golang.org/x/exp/constraints"
)

// Set holds unique values. Its only iterator is rbtree.ConstIterator:
// values never change once inserted.
type Set[T any] struct {
	t *rbtree.Tree[T]
}

// NewSet creates an empty set ordered by <.
func NewSet[T constraints.Ordered](opts ...rbtree.Option[T]) *Set[T] {
	return &Set[T]{t: rbtree.NewOrdered(opts...)}
}

// NewSetFunc creates an empty set ordered by less.
func NewSetFunc[T any](less func(a, b T) bool, opts ...rbtree.Option[T]) *Set[T] {
	return &Set[T]{t: rbtree.New(less, opts...)}
}

func (s *Set[T]) Len() int                { return s.t.Len() }
func (s *Set[T]) Empty() bool             { return s.t.Empty() }
func (s *Set[T]) MaxSize() int            { return s.t.MaxSize() }
func (s *Set[T]) Less() func(a, b T) bool { return s.t.Less() }

func (s *Set[T]) Begin() rbtree.ConstIterator[T] { return s.t.Begin().Const() }
func (s *Set[T]) End() rbtree.ConstIterator[T]   { return s.t.End().Const() }

func (s *Set[T]) Min() (T, bool) { return s.t.Min() }
func (s *Set[T]) Max() (T, bool) { return s.t.Max() }

// Insert adds v unless an equivalent value is present.
func (s *Set[T]) Insert(v T) (rbtree.ConstIterator[T], bool, error) {
	it, ok, err := s.t.Insert(v)
	return it.Const(), ok, err
}

// InsertHint inserts v using hint as the position expected right after
// it.
func (s *Set[T]) InsertHint(hint rbtree.ConstIterator[T], v T) (rbtree.ConstIterator[T], error) {
	it, err := s.t.InsertHint(hint, v)
	return it.Const(), err
}

// InsertRange inserts every value of seq. Values inserted before a
// failure stay.
func (s *Set[T]) InsertRange(seq iter.Seq[T]) error { return s.t.InsertRange(seq) }

func (s *Set[T]) Find(v T) rbtree.ConstIterator[T] { return s.t.Find(v).Const() }
func (s *Set[T]) Contains(v T) bool                { return s.t.Contains(v) }
func (s *Set[T]) Count(v T) int                    { return s.t.Count(v) }

func (s *Set[T]) LowerBound(v T) rbtree.ConstIterator[T] { return s.t.LowerBound(v).Const() }
func (s *Set[T]) UpperBound(v T) rbtree.ConstIterator[T] { return s.t.UpperBound(v).Const() }

func (s *Set[T]) EqualRange(v T) (rbtree.ConstIterator[T], rbtree.ConstIterator[T]) {
	lo, hi := s.t.EqualRange(v)
	return lo.Const(), hi.Const()
}

// Erase removes the value at it and returns the next one.
func (s *Set[T]) Erase(it rbtree.ConstIterator[T]) rbtree.ConstIterator[T] {
	return s.t.Erase(it).Const()
}

// EraseValue removes v and returns how many values were removed.
func (s *Set[T]) EraseValue(v T) int { return s.t.EraseValue(v) }

// EraseRange removes [first, last) and returns last.
func (s *Set[T]) EraseRange(first, last rbtree.ConstIterator[T]) rbtree.ConstIterator[T] {
	return s.t.EraseRange(first, last).Const()
}

func (s *Set[T]) Clear() { s.t.Clear() }

// Clone returns a deep copy sharing the node allocator.
func (s *Set[T]) Clone() (*Set[T], error) {
	t, err := s.t.Clone()
	if err != nil {
		return nil, err
	}
	return &Set[T]{t: t}, nil
}

func (s *Set[T]) Assign(src *Set[T]) error { return s.t.Assign(src.t) }

func (s *Set[T]) Swap(o *Set[T]) { s.t.Swap(o.t) }

// All yields the values in ascending order.
func (s *Set[T]) All() iter.Seq[T] { return s.t.All() }

// Backward yields the values in descending order.
func (s *Set[T]) Backward() iter.Seq[T] { return s.t.Backward() }

func (s *Set[T]) Verify() error { return s.t.Verify() }

// SetEqual reports whether both sets hold the same values.
func SetEqual[T comparable](a, b *Set[T]) bool {
	return a.Len() == b.Len() && algo.Equal(a.All(), b.All())
}

// SetLess orders sets lexicographically.
func SetLess[T constraints.Ordered](a, b *Set[T]) bool {
	return algo.LexicographicalCompare(a.All(), b.All())
}
