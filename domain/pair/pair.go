// Package pair provides a two-field value with lexicographic ordering.
package pair

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

// Pair holds two values. Ordering compares First, then Second.
type Pair[A, B any] struct {
	First  A
	Second B
}

// Make builds a pair.
func Make[A, B any](a A, b B) Pair[A, B] {
	return Pair[A, B]{First: a, Second: b}
}

// Less orders pairs lexicographically.
func Less[A, B constraints.Ordered](x, y Pair[A, B]) bool {
	if x.First < y.First {
		return true
	}
	if y.First < x.First {
		return false
	}
	return x.Second < y.Second
}

// LessFunc lifts two strict weak orders into a lexicographic order on
// pairs.
func LessFunc[A, B any](lessA func(a, b A) bool, lessB func(a, b B) bool) func(x, y Pair[A, B]) bool {
	return func(x, y Pair[A, B]) bool {
		if lessA(x.First, y.First) {
			return true
		}
		if lessA(y.First, x.First) {
			return false
		}
		return lessB(x.Second, y.Second)
	}
}

// Equal reports whether both fields are equal.
func Equal[A, B comparable](x, y Pair[A, B]) bool {
	return x.First == y.First && x.Second == y.Second
}

// Swap exchanges the contents of p and o.
func (p *Pair[A, B]) Swap(o *Pair[A, B]) {
	*p, *o = *o, *p
}

func (p Pair[A, B]) String() string {
	return fmt.Sprintf("(%v, %v)", p.First, p.Second)
}
