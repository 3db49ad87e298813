package ringbuf

// moveRange relocates n elements from logical position srcLo to logical
// position dstLo within the same ring. Source and destination may overlap and
// either raw region may wrap past the end of the allocation.
func (r *Ring[T]) moveRange(dstLo, srcLo, n int) {
	moveSlots(r.slots, r.rawIndex(dstLo), r.rawIndex(srcLo), n)
}

// moveSlots moves a possibly wrapping block of n slots from raw index src to
// raw index dst. The two regions may overlap in at most one contiguous run,
// which holds whenever abs(dst-src)+n <= len(slots). Piece copies are ordered
// by move direction so no slot is read after it has been overwritten; within
// a single piece, copy has memmove semantics and handles overlap itself.
func moveSlots[T any](slots []T, dst, src, n int) {
	if src == dst || n == 0 {
		return
	}
	// forward means dst lands inside the moving block when walking ahead of
	// src, so the far pieces must be written first.
	forward := wrapDistance(len(slots), src, dst) < n
	srcRoom := len(slots) - src
	dstRoom := len(slots) - dst
	srcWraps := srcRoom < n
	dstWraps := dstRoom < n

	switch {
	case !srcWraps && !dstWraps:
		copy(slots[dst:], slots[src:src+n])
	case !forward && !srcWraps && dstWraps:
		copy(slots[dst:], slots[src:src+dstRoom])
		copy(slots, slots[src+dstRoom:src+n])
	case forward && !srcWraps && dstWraps:
		copy(slots, slots[src+dstRoom:src+n])
		copy(slots[dst:], slots[src:src+dstRoom])
	case !forward && srcWraps && !dstWraps:
		copy(slots[dst:], slots[src:src+srcRoom])
		copy(slots[dst+srcRoom:], slots[:n-srcRoom])
	case forward && srcWraps && !dstWraps:
		copy(slots[dst+srcRoom:], slots[:n-srcRoom])
		copy(slots[dst:], slots[src:src+srcRoom])
	case !forward && srcWraps && dstWraps:
		delta := dstRoom - srcRoom
		copy(slots[dst:], slots[src:src+srcRoom])
		copy(slots[dst+srcRoom:], slots[:delta])
		copy(slots, slots[delta:delta+n-dstRoom])
	default: // forward, both wrap
		delta := srcRoom - dstRoom
		copy(slots[delta:], slots[:n-srcRoom])
		copy(slots, slots[len(slots)-delta:])
		copy(slots[dst:], slots[src:src+dstRoom])
	}
}
