// Package ringbuf implements the fixed-capacity circular storage core behind
// the deque package. A Ring owns a raw slot array plus a header (offset and
// count) describing the logical window inside it; the window may wrap past
// the end of the allocation back to slot 0. All structural mutations keep
// surviving elements in order and zero every slot they vacate. Rings are
// shared between deque handles by reference counting; callers must establish
// unique ownership before mutating.
package ringbuf

// Ring is a fixed-capacity circular buffer. Zero value is not ready; use New.
type Ring[T any] struct {
	slots  []T
	off    int // raw index of logical element 0
	count  int // live elements, <= len(slots)
	owners int // reference count for copy-on-write sharing
}

// New allocates an empty ring with the given fixed capacity and one owner.
func New[T any](capacity int) *Ring[T] {
	if capacity < 0 {
		panic("ringbuf: negative capacity")
	}
	r := &Ring[T]{owners: 1}
	if capacity > 0 {
		r.slots = make([]T, capacity)
	}
	return r
}

// Len returns the number of live elements.
func (r *Ring[T]) Len() int { return r.count }

// Cap returns the fixed capacity.
func (r *Ring[T]) Cap() int { return len(r.slots) }

// Split reports whether the logical window wraps past the end of the
// allocation.
func (r *Ring[T]) Split() bool { return r.off+r.count > len(r.slots) }

// rawIndex translates logical index i to a raw slot index.
// Valid for 0 <= i <= count.
func (r *Ring[T]) rawIndex(i int) int {
	p := r.off + i
	if p >= len(r.slots) {
		p -= len(r.slots)
	}
	return p
}

// At returns the element at logical index i. Bounds are the caller's
// responsibility; the deque layer checks them before delegating.
func (r *Ring[T]) At(i int) T { return r.slots[r.rawIndex(i)] }

// SetAt overwrites the element at logical index i.
func (r *Ring[T]) SetAt(i int, x T) { r.slots[r.rawIndex(i)] = x }

// Append writes x after the last element. Panics when full.
func (r *Ring[T]) Append(x T) {
	if r.count == len(r.slots) {
		panic("ringbuf: append to full ring")
	}
	r.slots[r.rawIndex(r.count)] = x
	r.count++
}

// Prepend writes x before the first element, stepping the offset backward
// with wraparound. Panics when full.
func (r *Ring[T]) Prepend(x T) {
	if r.count == len(r.slots) {
		panic("ringbuf: prepend to full ring")
	}
	r.off = indexBefore(len(r.slots), r.off)
	r.slots[r.off] = x
	r.count++
}

// AppendMany pulls up to n values from next and writes them after the last
// element, stopping early when the source is exhausted. Returns the number
// actually written. The source continuation stays with the caller, so a
// partial fill can be resumed one element at a time.
func (r *Ring[T]) AppendMany(n int, next func() (T, bool)) int {
	if n > len(r.slots)-r.count {
		panic("ringbuf: append past capacity")
	}
	w := 0
	for w < n {
		x, ok := next()
		if !ok {
			break
		}
		r.slots[r.rawIndex(r.count)] = x
		r.count++
		w++
	}
	return w
}

// PopFront removes and returns the first element. ok=false when empty.
func (r *Ring[T]) PopFront() (out T, ok bool) {
	var z T
	if r.count == 0 {
		return z, false
	}
	out = r.slots[r.off]
	r.slots[r.off] = z
	r.off = indexAfter(len(r.slots), r.off)
	r.count--
	return out, true
}

// PopBack removes and returns the last element. ok=false when empty.
func (r *Ring[T]) PopBack() (out T, ok bool) {
	var z T
	if r.count == 0 {
		return z, false
	}
	p := r.rawIndex(r.count - 1)
	out = r.slots[p]
	r.slots[p] = z
	r.count--
	return out, true
}

// Clear zeroes exactly the live slots, both chunks when split, and resets the
// window. Unused slots are never touched; they hold zero values already.
func (r *Ring[T]) Clear() {
	r.zeroLogical(0, r.count)
	r.off, r.count = 0, 0
}

// CopyTo copies up to len(dst) elements in logical order into dst and returns
// the number copied.
func (r *Ring[T]) CopyTo(dst []T) int {
	n := min(len(dst), r.count)
	return r.copyRangeTo(dst, 0, n)
}

// Retain adds an owner reference. Each deque handle sharing the ring holds
// one reference.
func (r *Ring[T]) Retain() { r.owners++ }

// Release drops one owner reference. The last release zeroes the live slots
// so no stale values linger in the allocation.
func (r *Ring[T]) Release() {
	if r.owners <= 0 {
		panic("ringbuf: release of unowned ring")
	}
	r.owners--
	if r.owners == 0 {
		r.Clear()
	}
}

// Shared reports whether more than one owner references the ring. A shared
// ring must not be mutated; copy first.
func (r *Ring[T]) Shared() bool { return r.owners > 1 }

// writeAt copies xs into the logical range starting at lo, split across the
// wrap point as needed. The range must lie within [0, count).
func (r *Ring[T]) writeAt(lo int, xs []T) {
	a, b := splitRange(len(r.slots), r.off, lo, lo+len(xs))
	n := copy(r.slots[a.lo:a.hi], xs)
	if !b.empty() {
		copy(r.slots[b.lo:b.hi], xs[n:])
	}
}

// copyRangeTo copies the logical range [lo, hi) into dst and returns the
// number of elements copied.
func (r *Ring[T]) copyRangeTo(dst []T, lo, hi int) int {
	a, b := splitRange(len(r.slots), r.off, lo, hi)
	n := copy(dst, r.slots[a.lo:a.hi])
	if !b.empty() {
		n += copy(dst[n:], r.slots[b.lo:b.hi])
	}
	return n
}

// zeroLogical zeroes the slots of the logical range [lo, hi).
func (r *Ring[T]) zeroLogical(lo, hi int) {
	a, b := splitRange(len(r.slots), r.off, lo, hi)
	zeroSlots(r.slots, a)
	zeroSlots(r.slots, b)
}

func zeroSlots[T any](slots []T, rr rawRange) {
	var z T
	for i := rr.lo; i < rr.hi; i++ {
		slots[i] = z
	}
}
