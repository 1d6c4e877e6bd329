package ordered

import (
	"reflect"
	"slices"
	"testing"

	"ftl/domain/rbtree"
	"ftl/infra/memory"

	"github.com/google/btree"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"
)

func TestSetBasics(t *testing.T) {
	s := NewSet[int]()
	require.True(t, s.Empty())
	for _, v := range []int{5, 3, 8, 1, 4, 7, 9} {
		_, ok, err := s.Insert(v)
		require.NoError(t, err)
		require.True(t, ok)
	}
	it, ok, err := s.Insert(4)
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, 4, it.Value())

	require.Equal(t, []int{1, 3, 4, 5, 7, 8, 9}, slices.Collect(s.All()))
	require.Equal(t, []int{9, 8, 7, 5, 4, 3, 1}, slices.Collect(s.Backward()))
	require.True(t, s.Contains(7))
	require.Equal(t, 0, s.Count(6))
	require.Equal(t, 7, s.LowerBound(6).Value())
	require.Equal(t, 7, s.UpperBound(5).Value())
	mn, _ := s.Min()
	mx, _ := s.Max()
	require.Equal(t, 1, mn)
	require.Equal(t, 9, mx)

	lo, hi := s.EqualRange(6)
	require.True(t, lo.Equal(hi))

	next := s.Erase(s.Find(5))
	require.Equal(t, 7, next.Value())
	require.Equal(t, 1, s.EraseValue(1))
	last := s.EraseRange(s.Find(3), s.Find(8))
	require.Equal(t, 8, last.Value())
	require.Equal(t, []int{8, 9}, slices.Collect(s.All()))
	require.NoError(t, s.Verify())

	s.Clear()
	require.True(t, s.Begin().Equal(s.End()))
}

func TestSetIteratorIsReadOnly(t *testing.T) {
	s := NewSet[int]()
	for _, v := range []int{2, 1, 3} {
		_, _, err := s.Insert(v)
		require.NoError(t, err)
	}
	it := s.Find(2)
	require.Equal(t, 2, it.Value())
	require.Equal(t, 3, it.Next().Value())

	ct := reflect.TypeOf(it)
	require.False(t, ct.ConvertibleTo(reflect.TypeOf(rbtree.Iterator[int]{})))
	_, ok := ct.MethodByName("Ref")
	require.False(t, ok)
	require.Equal(t, []int{1, 2, 3}, slices.Collect(s.All()))
}

func TestSetInsertHintAndRange(t *testing.T) {
	s := NewSet[string]()
	require.NoError(t, s.InsertRange(slices.Values([]string{"b", "d", "f"})))
	it, err := s.InsertHint(s.Find("d"), "c")
	require.NoError(t, err)
	require.Equal(t, "c", it.Value())
	require.True(t, it.Next().Equal(s.Find("d")))
	require.Equal(t, []string{"b", "c", "d", "f"}, slices.Collect(s.All()))
}

func TestSetCompareCloneSwap(t *testing.T) {
	mk := func(vals ...int) *Set[int] {
		s := NewSet[int]()
		require.NoError(t, s.InsertRange(slices.Values(vals)))
		return s
	}
	require.True(t, SetEqual(mk(3, 1, 2), mk(1, 2, 3)))
	require.False(t, SetEqual(mk(1, 2), mk(1, 2, 3)))
	require.True(t, SetLess(mk(1, 2), mk(1, 3)))
	require.True(t, SetLess(mk(1, 2), mk(1, 2, 5)))
	require.False(t, SetLess(mk(2), mk(1, 5)))

	a := mk(1, 2, 3)
	c, err := a.Clone()
	require.NoError(t, err)
	c.EraseValue(2)
	require.Equal(t, 3, a.Len())

	b := mk(10)
	it := b.Begin()
	a.Swap(b)
	require.Equal(t, []int{10}, slices.Collect(a.All()))
	require.True(t, it.Equal(a.Begin()))

	require.NoError(t, c.Assign(b))
	require.True(t, SetEqual(c, b))
}

func TestSetDescendingOrder(t *testing.T) {
	s := NewSetFunc(func(a, b int) bool { return a > b })
	require.NoError(t, s.InsertRange(slices.Values([]int{2, 9, 4})))
	require.Equal(t, []int{9, 4, 2}, slices.Collect(s.All()))
	require.Equal(t, 4, s.LowerBound(5).Value())
}

func TestSetSharedArena(t *testing.T) {
	a := memory.NewArena[rbtree.Node[int]]()
	s1 := NewSet(rbtree.WithAllocator[int](a))
	s2 := NewSet(rbtree.WithAllocator[int](a))
	require.NoError(t, s1.InsertRange(slices.Values([]int{1, 2, 3})))
	require.NoError(t, s2.InsertRange(slices.Values([]int{4, 5})))
	require.Equal(t, 5, a.Live())
	s1.Clear()
	s2.Clear()
	require.True(t, a.Stats().Balanced())
}

func TestSetMatchesBTree(t *testing.T) {
	properties := gopter.NewProperties(nil)
	properties.Property("set mirrors a btree under inserts and erases", prop.ForAll(
		func(ins, del []int) bool {
			s := NewSet[int]()
			ref := btree.NewOrderedG[int](8)
			for _, v := range ins {
				if _, _, err := s.Insert(v); err != nil {
					return false
				}
				ref.ReplaceOrInsert(v)
			}
			for _, v := range del {
				s.EraseValue(v)
				ref.Delete(v)
			}
			var want []int
			ref.Ascend(func(v int) bool {
				want = append(want, v)
				return true
			})
			return s.Verify() == nil && slices.Equal(want, slices.Collect(s.All()))
		},
		gen.SliceOf(gen.IntRange(0, 100)),
		gen.SliceOf(gen.IntRange(0, 100)),
	))
	properties.TestingRun(t)
}
