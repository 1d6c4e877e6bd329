package stack

import (
	"slices"
	"testing"

	"ftl/domain/bounds"
	"ftl/domain/vector"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

func TestLIFO(t *testing.T) {
	s := New[int]()
	require.True(t, s.Empty())
	for i := 1; i <= 3; i++ {
		require.NoError(t, s.Push(i))
	}
	require.Equal(t, 3, s.Len())

	var popped []int
	for !s.Empty() {
		popped = append(popped, s.Top())
		s.Pop()
	}
	require.Equal(t, []int{3, 2, 1}, popped)
}

func TestTopRef(t *testing.T) {
	s := New[string]()
	require.NoError(t, s.Push("a"))
	*s.TopRef() += "b"
	require.Equal(t, "ab", s.Top())
}

func TestBoundedContainer(t *testing.T) {
	s := NewOn[int](vector.NewWithMax[int](2))
	require.NoError(t, s.Push(1))
	require.NoError(t, s.Push(2))
	err := s.Push(3)
	require.True(t, errors.Is(err, bounds.ErrLength))
	require.Equal(t, 2, s.Top())
}

func TestNewOnKeepsContents(t *testing.T) {
	s := NewOn[int](vector.From(4, 5))
	require.Equal(t, 5, s.Top())
	require.Equal(t, []int{4, 5}, slices.Collect(s.All()))
}

func TestSwapAndCompare(t *testing.T) {
	a, b := New[int](), New[int]()
	require.NoError(t, a.Push(1))
	require.NoError(t, a.Push(2))
	require.NoError(t, b.Push(1))
	require.NoError(t, b.Push(3))

	require.True(t, Less(a, b))
	require.False(t, Equal(a, b))

	a.Swap(b)
	require.Equal(t, 3, a.Top())
	require.Equal(t, 2, b.Top())

	c := New[int]()
	require.NoError(t, c.Push(1))
	require.NoError(t, c.Push(3))
	require.True(t, Equal(a, c))
	require.False(t, Less(a, c))
}
