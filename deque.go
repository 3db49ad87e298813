package deque

import (
	"fmt"

	"github.com/orizon-lang/deque/internal/ringbuf"
)

// minCapacity is the smallest ring allocated once a deque holds elements.
const minCapacity = 8

// Deque is a generic double-ended queue with random access and value-style
// copy-on-write sharing: Clone is O(1) and clones share storage until one of
// them mutates. Zero value is ready to use.
type Deque[T any] struct {
	ring *ringbuf.Ring[T]
}

// New returns an empty deque.
func New[T any]() *Deque[T] { return &Deque[T]{} }

// WithCapacity returns an empty deque with storage for at least n elements.
func WithCapacity[T any](n int) *Deque[T] {
	if n < 0 {
		n = 0
	}
	d := &Deque[T]{}
	if n > 0 {
		d.ring = ringbuf.New[T](n)
	}
	return d
}

// Of constructs a deque from values.
func Of[T any](xs ...T) *Deque[T] { return FromSlice(xs) }

// FromSlice builds a deque holding a copy of s.
func FromSlice[T any](s []T) *Deque[T] {
	d := WithCapacity[T](len(s))
	for _, x := range s {
		d.ring.Append(x)
	}
	return d
}

// Repeat builds a deque holding n copies of x.
func Repeat[T any](x T, n int) *Deque[T] {
	if n < 0 {
		panic(fmt.Sprintf("deque: negative repeat count %d", n))
	}
	d := WithCapacity[T](n)
	for i := 0; i < n; i++ {
		d.ring.Append(x)
	}
	return d
}

// Len returns the number of elements.
func (d *Deque[T]) Len() int {
	if d.ring == nil {
		return 0
	}
	return d.ring.Len()
}

// Cap returns the current storage capacity.
func (d *Deque[T]) Cap() int {
	if d.ring == nil {
		return 0
	}
	return d.ring.Cap()
}

// IsEmpty reports whether the deque has no elements.
func (d *Deque[T]) IsEmpty() bool { return d.Len() == 0 }

// At returns the element at index i. Panics if i is out of range.
func (d *Deque[T]) At(i int) T {
	if i < 0 || i >= d.Len() {
		panic(fmt.Sprintf("deque: index %d out of range (len %d)", i, d.Len()))
	}
	return d.ring.At(i)
}

// Get returns the element at index i. ok=false when out of range.
func (d *Deque[T]) Get(i int) (T, bool) {
	if i < 0 || i >= d.Len() {
		var z T
		return z, false
	}
	return d.ring.At(i), true
}

// Set overwrites the element at index i. Panics if i is out of range.
func (d *Deque[T]) Set(i int, x T) {
	if i < 0 || i >= d.Len() {
		panic(fmt.Sprintf("deque: index %d out of range (len %d)", i, d.Len()))
	}
	d.detach()
	d.ring.SetAt(i, x)
}

// Front returns the first element without removing it. ok=false when empty.
func (d *Deque[T]) Front() (T, bool) { return d.Get(0) }

// Back returns the last element without removing it. ok=false when empty.
func (d *Deque[T]) Back() (T, bool) { return d.Get(d.Len() - 1) }

// PushBack appends x at the back.
func (d *Deque[T]) PushBack(x T) {
	if r := d.ring; r != nil && !r.Shared() && r.Len() < r.Cap() {
		r.Append(x)
		return
	}
	d.replace(d.Len(), d.Len(), []T{x})
}

// PushFront inserts x at the front.
func (d *Deque[T]) PushFront(x T) {
	if r := d.ring; r != nil && !r.Shared() && r.Len() < r.Cap() {
		r.Prepend(x)
		return
	}
	d.replace(0, 0, []T{x})
}

// PopFront removes and returns the first element. ok=false when empty.
func (d *Deque[T]) PopFront() (T, bool) {
	if d.Len() == 0 {
		var z T
		return z, false
	}
	d.detach()
	return d.ring.PopFront()
}

// PopBack removes and returns the last element. ok=false when empty.
func (d *Deque[T]) PopBack() (T, bool) {
	if d.Len() == 0 {
		var z T
		return z, false
	}
	d.detach()
	return d.ring.PopBack()
}

// Insert places x at index i, shifting later elements back.
// Panics if i is out of range (i < 0 or i > Len).
func (d *Deque[T]) Insert(i int, x T) {
	if i < 0 || i > d.Len() {
		panic(fmt.Sprintf("deque: insert index %d out of range (len %d)", i, d.Len()))
	}
	d.replace(i, i, []T{x})
}

// RemoveAt removes and returns the element at index i, shifting later
// elements forward. Panics if i is out of range.
func (d *Deque[T]) RemoveAt(i int) T {
	if i < 0 || i >= d.Len() {
		panic(fmt.Sprintf("deque: index %d out of range (len %d)", i, d.Len()))
	}
	x := d.ring.At(i)
	d.replace(i, i+1, nil)
	return x
}

// ReplaceRange replaces the elements in [i, j) with xs. The deque grows or
// shrinks by len(xs)-(j-i). Panics if the range is out of bounds.
func (d *Deque[T]) ReplaceRange(i, j int, xs []T) {
	if i < 0 || j < i || j > d.Len() {
		panic(fmt.Sprintf("deque: range [%d,%d) out of range (len %d)", i, j, d.Len()))
	}
	d.replace(i, j, xs)
}

// EnsureCapacity grows storage to hold at least n elements. When the deque
// uniquely owns a ring of sufficient capacity this is a no-op and storage
// identity is preserved; otherwise the elements move to a fresh ring.
func (d *Deque[T]) EnsureCapacity(n int) {
	if n < 0 {
		n = 0
	}
	r := d.ring
	if r == nil {
		if n > 0 {
			d.ring = ringbuf.New[T](n)
		}
		return
	}
	if !r.Shared() && r.Cap() >= n {
		return
	}
	fresh := ringbuf.New[T](max(n, r.Cap()))
	fresh.CopyContentsFrom(r)
	r.Release()
	d.ring = fresh
}

// Clear removes all elements while keeping capacity.
func (d *Deque[T]) Clear() {
	r := d.ring
	if r == nil {
		return
	}
	if r.Shared() {
		// leave the shared ring to its other owners
		r.Release()
		d.ring = ringbuf.New[T](r.Cap())
		return
	}
	r.Clear()
}

// ClearAndShrink removes all elements and releases the storage.
func (d *Deque[T]) ClearAndShrink() {
	if d.ring != nil {
		d.ring.Release()
		d.ring = nil
	}
}

// Clone returns a deque sharing the receiver's storage. The shared ring is
// copied by whichever side mutates first, so clones behave as independent
// values. Clones dropped without further use just strand their reference;
// the next writer still copies safely.
func (d *Deque[T]) Clone() *Deque[T] {
	if d.ring != nil {
		d.ring.Retain()
	}
	return &Deque[T]{ring: d.ring}
}

// EqualFunc reports whether d and o hold equal sequences under eq. Deques
// sharing the same ring are equal without comparing elements.
func (d *Deque[T]) EqualFunc(o *Deque[T], eq func(a, b T) bool) bool {
	if d.Len() != o.Len() {
		return false
	}
	if d.ring == o.ring {
		return true
	}
	for i := 0; i < d.Len(); i++ {
		if !eq(d.ring.At(i), o.ring.At(i)) {
			return false
		}
	}
	return true
}

// replace is the one mutation funnel: every structural change routes through
// a ring ReplaceRange, either in place on a uniquely owned ring with room, or
// into a fresh ring when shared or undersized.
func (d *Deque[T]) replace(lo, hi int, xs []T) {
	r := d.ring
	need := d.Len() - (hi - lo) + len(xs)
	if r == nil {
		if need == 0 {
			return
		}
		d.ring = ringbuf.New[T](growCapacity(0, need))
		d.ring.ReplaceRange(0, 0, xs)
		return
	}
	if !r.Shared() && need <= r.Cap() {
		r.ReplaceRange(lo, hi, xs)
		return
	}
	c := r.Cap()
	if need > c {
		c = growCapacity(c, need)
	}
	fresh := r.CopyReplacingRange(lo, hi, xs, c)
	r.Release()
	d.ring = fresh
}

// detach establishes unique ownership before an in-place write that does not
// change capacity.
func (d *Deque[T]) detach() {
	r := d.ring
	if r == nil || !r.Shared() {
		return
	}
	fresh := ringbuf.New[T](r.Cap())
	fresh.CopyContentsFrom(r)
	r.Release()
	d.ring = fresh
}

// grow establishes unique ownership with room for extra more elements,
// following the doubling policy.
func (d *Deque[T]) grow(extra int) {
	need := d.Len() + extra
	r := d.ring
	if r == nil {
		d.ring = ringbuf.New[T](growCapacity(0, need))
		return
	}
	if !r.Shared() && r.Cap() >= need {
		return
	}
	c := r.Cap()
	if need > c {
		c = growCapacity(c, need)
	}
	fresh := ringbuf.New[T](c)
	fresh.CopyContentsFrom(r)
	r.Release()
	d.ring = fresh
}

// growCapacity doubles the old capacity until it covers need, so repeated
// single-element growth stays amortized O(1).
func growCapacity(oldCap, need int) int {
	c := max(oldCap*2, minCapacity)
	if c < need {
		c = need
	}
	return c
}
