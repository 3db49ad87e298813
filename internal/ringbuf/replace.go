package ringbuf

// ReplaceRange replaces the logical range [lo, hi) with the values in xs,
// mutating in place. Elements outside the range keep their relative order and
// end up at their shifted logical positions; xs occupies the range's former
// position. Requires 0 <= lo <= hi <= Len and that the resulting count fits
// the capacity. Relocation of surviving elements always completes before any
// new value is written.
func (r *Ring[T]) ReplaceRange(lo, hi int, xs []T) {
	r.checkRange(lo, hi)
	erase := hi - lo
	grow := len(xs) - erase
	if r.count+grow > len(r.slots) {
		panic("ringbuf: replace past capacity")
	}
	switch {
	case grow <= 0:
		r.replaceShrink(lo, hi, xs)
	case hi == r.count:
		// pure append-style growth, nothing to relocate
		r.count += grow
		r.writeAt(lo, xs)
	case lo == 0:
		// pure prepend-style growth, offset absorbs the new room
		r.off = indexOffsetBy(len(r.slots), r.off, -grow)
		r.count += grow
		r.writeAt(0, xs)
	default:
		r.replaceGrowInterior(lo, hi, xs, grow)
	}
}

// replaceGrowInterior opens a hole of size grow at [lo, hi) by relocating one
// side of the buffer, then writes xs over the erased values and the hole.
func (r *Ring[T]) replaceGrowInterior(lo, hi int, xs []T, grow int) {
	cap := len(r.slots)
	if r.off+r.count > cap {
		// Wrapped: all free slots form one hole between the two physical
		// chunks. Route the relocation through the chunk holding the range.
		if r.off+hi <= cap {
			// range lies in the high chunk: shift the head backward
			copy(r.slots[r.off-grow:r.off-grow+lo], r.slots[r.off:r.off+lo])
			r.off -= grow
		} else {
			// range lies in the low chunk or straddles: shift the tail forward
			s := r.off + hi - cap
			e := r.off + r.count - cap
			copy(r.slots[s+grow:e+grow], r.slots[s:e])
		}
		r.count += grow
		r.writeAt(lo, xs)
		return
	}
	// Not wrapped: split the growth between the hole before the head and the
	// hole after the tail, filling the head-side hole first.
	left := min(grow, r.off)
	right := grow - left
	if left > 0 {
		copy(r.slots[r.off-left:r.off-left+lo], r.slots[r.off:r.off+lo])
	}
	if right > 0 {
		copy(r.slots[r.off+hi+right:r.off+r.count+right], r.slots[r.off+hi:r.off+r.count])
	}
	r.off -= left
	r.count += grow
	r.writeAt(lo, xs)
}

// replaceShrink overwrites the first len(xs) erased slots in place, then
// closes the remaining hole by sliding whichever adjacent retained run is
// shorter, zeroing the slots that leave the window.
func (r *Ring[T]) replaceShrink(lo, hi int, xs []T) {
	r.writeAt(lo, xs)
	gapLo := lo + len(xs)
	k := hi - gapLo
	if k == 0 {
		return
	}
	head := gapLo
	tail := r.count - hi
	if head <= tail {
		r.moveRange(k, 0, head)
		r.zeroLogical(0, k)
		r.off = indexOffsetBy(len(r.slots), r.off, k)
		r.count -= k
	} else {
		r.moveRange(gapLo, hi, tail)
		r.zeroLogical(r.count-k, r.count)
		r.count -= k
	}
}

// CopyReplacingRange returns a fresh ring holding the receiver's elements
// with [lo, hi) replaced by xs, laid out contiguously from slot 0. Capacity
// is at least minCap. The receiver is left untouched; this is the path taken
// when the held ring is shared or too small to mutate in place.
func (r *Ring[T]) CopyReplacingRange(lo, hi int, xs []T, minCap int) *Ring[T] {
	r.checkRange(lo, hi)
	newCount := r.count - (hi - lo) + len(xs)
	out := New[T](max(minCap, newCount))
	n := r.copyRangeTo(out.slots, 0, lo)
	n += copy(out.slots[n:], xs)
	r.copyRangeTo(out.slots[n:], hi, r.count)
	out.count = newCount
	return out
}

// CopyContentsFrom copies all of src's live elements into the receiver,
// laid out contiguously from slot 0. The receiver must be empty and have
// capacity for src's elements. Backs capacity growth that keeps the sequence
// unchanged.
func (r *Ring[T]) CopyContentsFrom(src *Ring[T]) {
	if r.count != 0 {
		panic("ringbuf: copy into non-empty ring")
	}
	if src.count > len(r.slots) {
		panic("ringbuf: copy exceeds capacity")
	}
	src.copyRangeTo(r.slots, 0, src.count)
	r.off = 0
	r.count = src.count
}

func (r *Ring[T]) checkRange(lo, hi int) {
	if lo < 0 || hi < lo || hi > r.count {
		panic("ringbuf: invalid range")
	}
}
