// Package ordered provides the associative containers built on the
// red-black tree: Map, keyed and mutable in its mapped values, and Set,
// whose elements are immutable once inserted.
package ordered

import (
	"iter"

	"ftl/domain/algo"
	"ftl/domain/bounds"
	"ftl/domain/pair"
	"ftl/domain/rbtree"
	"ftl/infra/memory"

	"golang.org/x/exp/constraints"
)

// Entry is the element type a Map stores.
type Entry[K, V any] = pair.Pair[K, V]

// MapOption configures a Map.
type MapOption[K, V any] = rbtree.Option[Entry[K, V]]

// WithMapAllocator makes the map take its nodes from a.
func WithMapAllocator[K, V any](a memory.Allocator[rbtree.Node[Entry[K, V]]]) MapOption[K, V] {
	return rbtree.WithAllocator(a)
}

// Map associates unique keys with values. Lookups build a probe entry
// with a zero value; only its key takes part in the comparison.
type Map[K, V any] struct {
	t    *rbtree.Tree[Entry[K, V]]
	less func(a, b K) bool
}

// NewMap creates an empty map ordered by <.
func NewMap[K constraints.Ordered, V any](opts ...MapOption[K, V]) *Map[K, V] {
	return NewMapFunc[K, V](func(a, b K) bool { return a < b }, opts...)
}

// NewMapFunc creates an empty map ordered by less.
func NewMapFunc[K, V any](less func(a, b K) bool, opts ...MapOption[K, V]) *Map[K, V] {
	return &Map[K, V]{
		t:    rbtree.New(func(a, b Entry[K, V]) bool { return less(a.First, b.First) }, opts...),
		less: less,
	}
}

func probe[K, V any](k K) Entry[K, V] { return Entry[K, V]{First: k} }

// Len is the number of entries.
func (m *Map[K, V]) Len() int    { return m.t.Len() }
func (m *Map[K, V]) Empty() bool { return m.t.Empty() }

// MaxSize is the node limit of the map's allocator.
func (m *Map[K, V]) MaxSize() int { return m.t.MaxSize() }

// KeyLess returns the key ordering the map was built with.
func (m *Map[K, V]) KeyLess() func(a, b K) bool { return m.less }

func (m *Map[K, V]) Begin() MapIterator[K, V] { return MapIterator[K, V]{m.t.Begin()} }
func (m *Map[K, V]) End() MapIterator[K, V]   { return MapIterator[K, V]{m.t.End()} }

// Insert adds k unless it is present. The returned flag reports whether
// the entry was added; when it was not, the iterator addresses the entry
// that blocked it and its value is left alone.
func (m *Map[K, V]) Insert(k K, v V) (MapIterator[K, V], bool, error) {
	return m.InsertPair(pair.Make(k, v))
}

// InsertPair is Insert for a ready-made entry.
func (m *Map[K, V]) InsertPair(e Entry[K, V]) (MapIterator[K, V], bool, error) {
	it, ok, err := m.t.Insert(e)
	return MapIterator[K, V]{it}, ok, err
}

// InsertHint inserts (k, v) using hint as the position expected right
// after k.
func (m *Map[K, V]) InsertHint(hint MapIterator[K, V], k K, v V) (MapIterator[K, V], error) {
	it, err := m.t.InsertHint(hint.it, pair.Make(k, v))
	return MapIterator[K, V]{it}, err
}

// Upsert returns the value slot of k, inserting a zero value first when
// k is absent. The pointer stays valid until the entry is erased.
func (m *Map[K, V]) Upsert(k K) (*V, error) {
	it := m.t.LowerBound(probe[K, V](k))
	if !it.IsEnd() && !m.less(k, it.Ref().First) {
		return &it.Ref().Second, nil
	}
	it, err := m.t.InsertHint(it, probe[K, V](k))
	if err != nil {
		return nil, err
	}
	return &it.Ref().Second, nil
}

// Set stores v under k, replacing any previous value.
func (m *Map[K, V]) Set(k K, v V) error {
	slot, err := m.Upsert(k)
	if err != nil {
		return err
	}
	*slot = v
	return nil
}

// At returns the value of k, or an error matching bounds.ErrOutOfRange.
func (m *Map[K, V]) At(k K) (V, error) {
	it := m.t.Find(probe[K, V](k))
	if it.IsEnd() {
		var zero V
		return zero, bounds.OutOfRangef("ordered: key %v not in map", k)
	}
	return it.Ref().Second, nil
}

// Get returns the value of k and whether it was present.
func (m *Map[K, V]) Get(k K) (V, bool) {
	it := m.t.Find(probe[K, V](k))
	if it.IsEnd() {
		var zero V
		return zero, false
	}
	return it.Ref().Second, true
}

// Find returns the entry of k, or End() when k is absent.
func (m *Map[K, V]) Find(k K) MapIterator[K, V] {
	return MapIterator[K, V]{m.t.Find(probe[K, V](k))}
}

func (m *Map[K, V]) Contains(k K) bool { return m.t.Contains(probe[K, V](k)) }

// Count is 1 if k is present and 0 otherwise.
func (m *Map[K, V]) Count(k K) int { return m.t.Count(probe[K, V](k)) }

// LowerBound returns the first entry whose key is not ordered before k.
func (m *Map[K, V]) LowerBound(k K) MapIterator[K, V] {
	return MapIterator[K, V]{m.t.LowerBound(probe[K, V](k))}
}

// UpperBound returns the first entry whose key is ordered after k.
func (m *Map[K, V]) UpperBound(k K) MapIterator[K, V] {
	return MapIterator[K, V]{m.t.UpperBound(probe[K, V](k))}
}

// EqualRange returns LowerBound(k) and UpperBound(k). The range holds
// at most one entry.
func (m *Map[K, V]) EqualRange(k K) (MapIterator[K, V], MapIterator[K, V]) {
	lo, hi := m.t.EqualRange(probe[K, V](k))
	return MapIterator[K, V]{lo}, MapIterator[K, V]{hi}
}

// Erase removes the entry at it and returns the next one.
func (m *Map[K, V]) Erase(it MapIterator[K, V]) MapIterator[K, V] {
	return MapIterator[K, V]{m.t.Erase(it.it)}
}

// EraseKey removes k and returns how many entries were removed.
func (m *Map[K, V]) EraseKey(k K) int { return m.t.EraseValue(probe[K, V](k)) }

// EraseRange removes [first, last) and returns last.
func (m *Map[K, V]) EraseRange(first, last MapIterator[K, V]) MapIterator[K, V] {
	return MapIterator[K, V]{m.t.EraseRange(first.it, last.it)}
}

// Clear removes every entry and releases its nodes.
func (m *Map[K, V]) Clear() { m.t.Clear() }

// Clone returns a deep copy sharing the node allocator.
func (m *Map[K, V]) Clone() (*Map[K, V], error) {
	t, err := m.t.Clone()
	if err != nil {
		return nil, err
	}
	return &Map[K, V]{t: t, less: m.less}, nil
}

// Assign replaces the contents of m with a deep copy of src.
func (m *Map[K, V]) Assign(src *Map[K, V]) error {
	m.less = src.less
	return m.t.Assign(src.t)
}

// Swap exchanges the contents of m and o. Iterators follow their
// entries.
func (m *Map[K, V]) Swap(o *Map[K, V]) {
	m.t.Swap(o.t)
	m.less, o.less = o.less, m.less
}

// All yields the entries in key order.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		m.t.Ascend(func(e Entry[K, V]) bool { return yield(e.First, e.Second) })
	}
}

// Backward yields the entries in reverse key order.
func (m *Map[K, V]) Backward() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		m.t.Descend(func(e Entry[K, V]) bool { return yield(e.First, e.Second) })
	}
}

// Pairs yields the entries in key order as pairs.
func (m *Map[K, V]) Pairs() iter.Seq[Entry[K, V]] { return m.t.All() }

// Keys yields the keys in order.
func (m *Map[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		m.t.Ascend(func(e Entry[K, V]) bool { return yield(e.First) })
	}
}

// Values yields the values in key order.
func (m *Map[K, V]) Values() iter.Seq[V] {
	return func(yield func(V) bool) {
		m.t.Ascend(func(e Entry[K, V]) bool { return yield(e.Second) })
	}
}

// Verify checks the underlying tree.
func (m *Map[K, V]) Verify() error { return m.t.Verify() }

// MapEqual reports whether both maps hold the same entries.
func MapEqual[K, V comparable](a, b *Map[K, V]) bool {
	return a.Len() == b.Len() && algo.EqualFunc(a.Pairs(), b.Pairs(), pair.Equal[K, V])
}

// MapLess orders maps lexicographically by their entries.
func MapLess[K, V constraints.Ordered](a, b *Map[K, V]) bool {
	return algo.LexicographicalCompareFunc(a.Pairs(), b.Pairs(), pair.Less[K, V])
}

// MapIterator addresses an entry of a Map. Its key is read-only; the
// value may be changed through Ref.
type MapIterator[K, V any] struct {
	it rbtree.Iterator[Entry[K, V]]
}

// Key is undefined at End().
func (i MapIterator[K, V]) Key() K { return i.it.Ref().First }

// Value returns a copy of the mapped value.
func (i MapIterator[K, V]) Value() V { return i.it.Ref().Second }

// Ref returns the value slot in place.
func (i MapIterator[K, V]) Ref() *V { return &i.it.Ref().Second }

// Pair returns a copy of the whole entry.
func (i MapIterator[K, V]) Pair() Entry[K, V] { return i.it.Value() }

// Next and Prev step in key order. End().Prev() is the last entry.
func (i MapIterator[K, V]) Next() MapIterator[K, V] { return MapIterator[K, V]{i.it.Next()} }
func (i MapIterator[K, V]) Prev() MapIterator[K, V] { return MapIterator[K, V]{i.it.Prev()} }
func (i MapIterator[K, V]) IsEnd() bool             { return i.it.IsEnd() }

// Equal reports whether both iterators address the same entry.
func (i MapIterator[K, V]) Equal(o MapIterator[K, V]) bool { return i.it.Equal(o.it) }

// Position exposes the underlying tree position.
func (i MapIterator[K, V]) Position() rbtree.Position { return i.it }
