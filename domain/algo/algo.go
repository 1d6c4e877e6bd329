// Package algo holds sequence algorithms shared by the containers.
package algo

import (
	"iter"

	"golang.org/x/exp/constraints"
)

// Equal reports whether a and b yield the same elements in the same
// order.
func Equal[T comparable](a, b iter.Seq[T]) bool {
	return EqualFunc(a, b, func(x, y T) bool { return x == y })
}

// EqualFunc is Equal with a caller-supplied equivalence.
func EqualFunc[T any](a, b iter.Seq[T], eq func(x, y T) bool) bool {
	next, stop := iter.Pull(b)
	defer stop()
	for x := range a {
		y, ok := next()
		if !ok || !eq(x, y) {
			return false
		}
	}
	_, ok := next()
	return !ok
}

// LexicographicalCompare reports whether a orders before b.
func LexicographicalCompare[T constraints.Ordered](a, b iter.Seq[T]) bool {
	return LexicographicalCompareFunc(a, b, func(x, y T) bool { return x < y })
}

// LexicographicalCompareFunc reports whether a orders before b under
// less. A proper prefix orders before the longer sequence.
func LexicographicalCompareFunc[T any](a, b iter.Seq[T], less func(x, y T) bool) bool {
	next, stop := iter.Pull(b)
	defer stop()
	for x := range a {
		y, ok := next()
		if !ok {
			return false
		}
		if less(x, y) {
			return true
		}
		if less(y, x) {
			return false
		}
	}
	_, ok := next()
	return ok
}

// Swap exchanges the values behind a and b.
func Swap[T any](a, b *T) {
	*a, *b = *b, *a
}

// Copy writes elements of src into dst until either runs out and
// returns the number written.
func Copy[T any](dst []T, src iter.Seq[T]) int {
	n := 0
	if len(dst) == 0 {
		return 0
	}
	for v := range src {
		dst[n] = v
		n++
		if n == len(dst) {
			break
		}
	}
	return n
}
