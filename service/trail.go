package service

// trail keeps the most recent operations of a run so a divergence can
// be reported with the steps that led to it. Once full, each record
// overwrites the oldest one.
type trail struct {
	head uint64
	buf  []op
	mask uint64
}

// newTrail allocates a ring of at least n records, rounded up to a power
// of two.
func newTrail(n int) *trail {
	size := 1
	for size < n {
		size <<= 1
	}
	return &trail{buf: make([]op, size), mask: uint64(size - 1)}
}

func (t *trail) record(o op) {
	t.buf[t.head&t.mask] = o
	t.head++
}

func (t *trail) len() int {
	if t.head < uint64(len(t.buf)) {
		return int(t.head)
	}
	return len(t.buf)
}

// ops returns the retained records, oldest first.
func (t *trail) ops() []op {
	n := uint64(t.len())
	out := make([]op, 0, n)
	for i := t.head - n; i < t.head; i++ {
		out = append(out, t.buf[i&t.mask])
	}
	return out
}
