// Package vector provides a growable array with an explicit capacity
// bound. It is the default backing container of package stack.
package vector

import (
	"iter"
	"math"

	"ftl/domain/algo"
	"ftl/domain/bounds"

	"golang.org/x/exp/constraints"
)

// DefaultMaxSize bounds vectors created without NewWithMax.
const DefaultMaxSize = math.MaxInt32

// Vector is a contiguous sequence. Capacity doubles on growth and never
// exceeds MaxSize. Element pointers from Ref are invalidated by any call
// that grows the vector.
type Vector[T any] struct {
	data []T
	max  int
}

func New[T any]() *Vector[T] { return &Vector[T]{max: DefaultMaxSize} }

// NewWithMax creates a vector that refuses to hold more than n
// elements.
func NewWithMax[T any](n int) *Vector[T] {
	if n <= 0 || n > DefaultMaxSize {
		n = DefaultMaxSize
	}
	return &Vector[T]{max: n}
}

// From copies vals into a new vector.
func From[T any](vals ...T) *Vector[T] {
	v := New[T]()
	v.data = append(make([]T, 0, len(vals)), vals...)
	return v
}

func (v *Vector[T]) Len() int     { return len(v.data) }
func (v *Vector[T]) Cap() int     { return cap(v.data) }
func (v *Vector[T]) Empty() bool  { return len(v.data) == 0 }
func (v *Vector[T]) MaxSize() int { return v.max }

// Reserve makes room for n elements without further growth.
func (v *Vector[T]) Reserve(n int) error {
	if n > v.max {
		return bounds.Lengthf("vector: reserve %d exceeds max size %d", n, v.max)
	}
	if n > cap(v.data) {
		v.realloc(n)
	}
	return nil
}

// Resize sets the length to n, appending copies of fill when growing.
func (v *Vector[T]) Resize(n int, fill T) error {
	if n < 0 {
		return bounds.Lengthf("vector: negative size %d", n)
	}
	if n <= len(v.data) {
		clear(v.data[n:])
		v.data = v.data[:n]
		return nil
	}
	if err := v.grow(n); err != nil {
		return err
	}
	for len(v.data) < n {
		v.data = append(v.data, fill)
	}
	return nil
}

// PushBack appends x.
func (v *Vector[T]) PushBack(x T) error {
	if err := v.grow(len(v.data) + 1); err != nil {
		return err
	}
	v.data = append(v.data, x)
	return nil
}

// PopBack drops the last element. It panics on an empty vector.
func (v *Vector[T]) PopBack() {
	n := len(v.data) - 1
	var zero T
	v.data[n] = zero
	v.data = v.data[:n]
}

// Insert places x at pos, shifting later elements up. pos may equal Len.
func (v *Vector[T]) Insert(pos int, x T) error {
	if pos < 0 || pos > len(v.data) {
		return bounds.OutOfRangef("vector: insert at %d, length %d", pos, len(v.data))
	}
	if err := v.grow(len(v.data) + 1); err != nil {
		return err
	}
	var zero T
	v.data = append(v.data, zero)
	copy(v.data[pos+1:], v.data[pos:])
	v.data[pos] = x
	return nil
}

// Erase removes the element at pos, shifting later elements down.
func (v *Vector[T]) Erase(pos int) error {
	if pos < 0 || pos >= len(v.data) {
		return bounds.OutOfRangef("vector: erase at %d, length %d", pos, len(v.data))
	}
	copy(v.data[pos:], v.data[pos+1:])
	v.PopBack()
	return nil
}

// At returns element i, or an error matching bounds.ErrOutOfRange.
func (v *Vector[T]) At(i int) (T, error) {
	if i < 0 || i >= len(v.data) {
		var zero T
		return zero, bounds.OutOfRangef("vector: index %d, length %d", i, len(v.data))
	}
	return v.data[i], nil
}

// Ref returns element i in place. Unchecked.
func (v *Vector[T]) Ref(i int) *T { return &v.data[i] }

func (v *Vector[T]) Front() T    { return v.data[0] }
func (v *Vector[T]) Back() T     { return v.data[len(v.data)-1] }
func (v *Vector[T]) BackRef() *T { return &v.data[len(v.data)-1] }

// Clear drops every element and keeps the capacity.
func (v *Vector[T]) Clear() {
	clear(v.data)
	v.data = v.data[:0]
}

func (v *Vector[T]) Swap(o *Vector[T]) {
	v.data, o.data = o.data, v.data
	v.max, o.max = o.max, v.max
}

// Clone returns a copy with the same capacity bound.
func (v *Vector[T]) Clone() *Vector[T] {
	return &Vector[T]{data: append(make([]T, 0, cap(v.data)), v.data...), max: v.max}
}

// Data exposes the elements. The slice aliases the vector until the
// next growth.
func (v *Vector[T]) Data() []T { return v.data }

func (v *Vector[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, x := range v.data {
			if !yield(x) {
				return
			}
		}
	}
}

func (v *Vector[T]) Backward() iter.Seq[T] {
	return func(yield func(T) bool) {
		for i := len(v.data) - 1; i >= 0; i-- {
			if !yield(v.data[i]) {
				return
			}
		}
	}
}

// grow ensures room for need elements, doubling the capacity.
func (v *Vector[T]) grow(need int) error {
	if need <= cap(v.data) {
		return nil
	}
	if need > v.max {
		return bounds.Lengthf("vector: length %d exceeds max size %d", need, v.max)
	}
	c := cap(v.data) * 2
	if c < need {
		c = need
	}
	if c > v.max {
		c = v.max
	}
	v.realloc(c)
	return nil
}

func (v *Vector[T]) realloc(c int) {
	data := make([]T, len(v.data), c)
	copy(data, v.data)
	v.data = data
}

// Equal reports whether a and b hold equal elements in the same order.
func Equal[T comparable](a, b *Vector[T]) bool {
	return a.Len() == b.Len() && algo.Equal(a.All(), b.All())
}

// Less orders vectors lexicographically.
func Less[T constraints.Ordered](a, b *Vector[T]) bool {
	return algo.LexicographicalCompare(a.All(), b.All())
}
