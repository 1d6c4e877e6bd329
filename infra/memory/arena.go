package memory

import (
	"math"
	"math/bits"

	"github.com/cockroachdb/errors"
)

// Handle addresses a slot in an Arena.
type Handle uint32

// Nil is the reserved handle of every arena. Its slot always holds the
// zero value of T.
const Nil Handle = 0

// ErrExhausted is returned by Allocate when the arena already holds
// MaxSize live slots.
var ErrExhausted = errors.New("memory: arena exhausted")

const (
	defaultChunkSize = 256
	defaultMaxSize   = math.MaxInt32
)

// Allocator is the slot allocation protocol consumed by the containers.
// Allocate and Deallocate manage raw slots; Construct and Destroy manage
// the value living in a slot.
type Allocator[T any] interface {
	Allocate() (Handle, error)
	Deallocate(h Handle)
	Construct(h Handle, v T)
	Destroy(h Handle)
	Get(h Handle) *T
	MaxSize() int
}

// Stats counts calls into an Arena.
type Stats struct {
	Allocations   uint64
	Deallocations uint64
	Constructions uint64
	Destructions  uint64
}

// Balanced reports whether every allocation was released and every
// constructed value destroyed.
func (s Stats) Balanced() bool {
	return s.Allocations == s.Deallocations && s.Constructions == s.Destructions
}

type config struct {
	maxSize   int
	chunkSize int
}

// Option configures an Arena.
type Option func(*config)

// WithMaxSize bounds the number of live slots.
func WithMaxSize(n int) Option {
	return func(c *config) { c.maxSize = n }
}

// WithChunkSize sets how many slots are reserved at a time. It is
// rounded up to a power of two.
func WithChunkSize(n int) Option {
	return func(c *config) { c.chunkSize = n }
}

// Arena is a chunked slot allocator. Storage is never moved, so a
// pointer returned by Get stays valid until the slot is deallocated.
//
// Arena is not safe for concurrent use.
type Arena[T any] struct {
	chunks [][]T
	shift  uint
	mask   Handle
	next   Handle
	free   freeRing
	live   int
	max    int
	stats  Stats
}

var _ Allocator[int] = (*Arena[int])(nil)

// NewArena creates an empty arena.
func NewArena[T any](opts ...Option) *Arena[T] {
	cfg := config{maxSize: defaultMaxSize, chunkSize: defaultChunkSize}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.maxSize <= 0 || cfg.maxSize > defaultMaxSize {
		cfg.maxSize = defaultMaxSize
	}
	if cfg.chunkSize < 2 {
		cfg.chunkSize = 2
	}
	shift := uint(bits.Len(uint(cfg.chunkSize - 1)))
	a := &Arena[T]{
		shift: shift,
		mask:  Handle(1)<<shift - 1,
		next:  Nil + 1,
		max:   cfg.maxSize,
	}
	a.chunks = append(a.chunks, make([]T, 1<<shift))
	return a
}

// Allocate reserves a zeroed slot.
func (a *Arena[T]) Allocate() (Handle, error) {
	if a.live >= a.max {
		return Nil, errors.Wrapf(ErrExhausted, "%d of %d slots in use", a.live, a.max)
	}
	h, ok := a.free.pop()
	if !ok {
		h = a.next
		if int(h>>a.shift) == len(a.chunks) {
			a.chunks = append(a.chunks, make([]T, 1<<a.shift))
		}
		a.next++
	}
	a.live++
	a.stats.Allocations++
	return h, nil
}

// Deallocate releases a slot. The slot must have been destroyed.
func (a *Arena[T]) Deallocate(h Handle) {
	if h == Nil || h >= a.next {
		panic(errors.AssertionFailedf("memory: deallocating invalid handle %d", h))
	}
	a.free.push(h)
	a.live--
	a.stats.Deallocations++
}

// Construct stores v in an allocated slot.
func (a *Arena[T]) Construct(h Handle, v T) {
	*a.Get(h) = v
	a.stats.Constructions++
}

// Destroy resets a slot to the zero value so that the garbage collector
// can reclaim whatever the value referenced.
func (a *Arena[T]) Destroy(h Handle) {
	var zero T
	*a.Get(h) = zero
	a.stats.Destructions++
}

// Get returns the slot addressed by h.
func (a *Arena[T]) Get(h Handle) *T {
	return &a.chunks[h>>a.shift][h&a.mask]
}

// MaxSize returns the largest number of live slots.
func (a *Arena[T]) MaxSize() int { return a.max }

// Live returns the number of allocated slots.
func (a *Arena[T]) Live() int { return a.live }

// Free returns the number of released slots waiting for reuse.
func (a *Arena[T]) Free() int { return a.free.len() }

// Stats returns the call counters.
func (a *Arena[T]) Stats() Stats { return a.stats }
