package ringbuf

// Pure index arithmetic over a circular allocation. Everything in this file
// is a function of (capacity, offset, count) only and never touches storage,
// so the wraparound cases can be tested exhaustively on their own.

// rawRange is a contiguous half-open range [lo, hi) in raw slot space.
type rawRange struct {
	lo, hi int
}

func (rr rawRange) len() int { return rr.hi - rr.lo }

func (rr rawRange) empty() bool { return rr.hi <= rr.lo }

// indexAfter returns the raw index one step forward from i, wrapping at
// capacity. capacity must be > 0.
func indexAfter(capacity, i int) int {
	i++
	if i == capacity {
		return 0
	}
	return i
}

// indexBefore returns the raw index one step backward from i, wrapping at
// capacity. capacity must be > 0.
func indexBefore(capacity, i int) int {
	if i == 0 {
		return capacity - 1
	}
	return i - 1
}

// indexOffsetBy returns the raw index n steps from i, wrapping in either
// direction. n may be negative and larger than capacity in magnitude.
// capacity must be > 0.
func indexOffsetBy(capacity, i, n int) int {
	return ((i+n)%capacity + capacity) % capacity
}

// wrapDistance returns the forward distance from raw index from to raw index
// to, which is always in [0, capacity). For a valid header with count <
// capacity, wrapDistance(start, end) == count; at count == capacity the end
// index aliases the start and the distance collapses to zero.
func wrapDistance(capacity, from, to int) int {
	if to >= from {
		return to - from
	}
	return to + capacity - from
}

// endSlot returns the raw index one past the last live element, i.e. the slot
// the next append writes. Requires 0 <= off < capacity and count <= capacity.
func endSlot(capacity, off, count int) int {
	e := off + count
	if e >= capacity {
		e -= capacity
	}
	return e
}

// splitRange maps the logical range [lo, hi), given as offsets from the first
// live element, onto raw slot space. The result is at most two contiguous
// pieces in logical order: a starts at logical lo, and b is non-empty only
// when the range crosses the physical end of the allocation, in which case a
// ends exactly at capacity and b starts at 0. Requires 0 <= lo <= hi and
// off+hi <= off+capacity so that the range fits the allocation once.
func splitRange(capacity, off, lo, hi int) (a, b rawRange) {
	start := off + lo
	end := off + hi
	switch {
	case start >= capacity:
		// entirely within the wrapped chunk
		return rawRange{start - capacity, end - capacity}, rawRange{}
	case end <= capacity:
		// entirely within the straight chunk
		return rawRange{start, end}, rawRange{}
	default:
		// straddles the physical end
		return rawRange{start, capacity}, rawRange{0, end - capacity}
	}
}
