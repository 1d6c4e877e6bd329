// Package service drives the containers through long randomized runs
// and checks them against reference implementations.
//
// A Runner owns an ordered.Map, an ordered.Set and a stack.Stack, each
// paired with a reference: a Go map, a google/btree ordered set and a
// slice. Every operation is applied to both sides and the results are
// compared; the full contents and the tree invariants are checked every
// VerifyEvery operations and once more at the end, after which every
// container is cleared and its node arena must be empty.
package service
