// Package rbtree implements the red-black tree that backs the ordered
// map and set.
//
// Nodes live in a memory.Allocator and link to each other by handle.
// Two handles are reserved. memory.Nil is the sentinel: it stands for
// every missing child, is always black and is never written. The
// header handle addresses a node owned by the tree itself whose left
// link is the root; an iterator positioned on the header is End().
// The tree also caches its minimum node so Begin() is O(1).
//
// Inserting never moves or invalidates existing nodes. Erasing
// invalidates only iterators to the erased element.
//
// Dereferencing End(), stepping before Begin() and passing an iterator
// from another tree are undefined and not checked. A Tree is not safe
// for concurrent use.
package rbtree
