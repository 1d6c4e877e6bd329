package memory

// freeRing is a growable ring of released handles. Slots are reused in
// the order they were freed, so a freshly released slot is the last one
// to come back.
type freeRing struct {
	head uint64
	tail uint64
	buf  []Handle
	mask uint64
}

func (r *freeRing) push(h Handle) {
	if r.head-r.tail == uint64(len(r.buf)) {
		r.grow()
	}
	r.buf[r.head&r.mask] = h
	r.head++
}

func (r *freeRing) pop() (Handle, bool) {
	if r.tail == r.head {
		return Nil, false
	}
	h := r.buf[r.tail&r.mask]
	r.tail++
	return h, true
}

func (r *freeRing) len() int { return int(r.head - r.tail) }

// grow doubles the ring, keeping the size a power of two.
func (r *freeRing) grow() {
	size := 2 * len(r.buf)
	if size == 0 {
		size = 16
	}
	buf := make([]Handle, size)
	n := r.head - r.tail
	for i := uint64(0); i < n; i++ {
		buf[i] = r.buf[(r.tail+i)&r.mask]
	}
	r.buf = buf
	r.mask = uint64(size - 1)
	r.tail = 0
	r.head = n
}
