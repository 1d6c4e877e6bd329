// Package memory provides the node allocator used by the ordered
// containers. An Arena hands out fixed slots addressed by Handle
// instead of pointers, recycles released slots through a FIFO free
// ring, and keeps call counts so callers can check that every
// Allocate is matched by a Deallocate.
//
// Slot 0 of every arena is reserved (Nil) and is never handed out.
package memory
