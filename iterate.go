package deque

import "iter"

// Values returns an iterator over the elements in order from front to back.
// The iterator is restartable; each range over it walks the deque afresh.
func (d *Deque[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for i := 0; i < d.Len(); i++ {
			if !yield(d.ring.At(i)) {
				return
			}
		}
	}
}

// All returns an iterator over index/element pairs from front to back.
func (d *Deque[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := 0; i < d.Len(); i++ {
			if !yield(i, d.ring.At(i)) {
				return
			}
		}
	}
}

// ForEach applies fn to each element from front to back.
func (d *Deque[T]) ForEach(fn func(x T)) {
	for i := 0; i < d.Len(); i++ {
		fn(d.ring.At(i))
	}
}

// ToSlice returns the elements as a fresh slice.
func (d *Deque[T]) ToSlice() []T {
	out := make([]T, d.Len())
	if d.ring != nil {
		d.ring.CopyTo(out)
	}
	return out
}

// AppendSeq appends the values of seq at the back. sizeHint pre-sizes the
// fast path and may be inaccurate in either direction: when the sequence is
// longer than the hint the remainder is appended one element at a time, and
// when it is shorter only the produced values are written.
func (d *Deque[T]) AppendSeq(seq iter.Seq[T], sizeHint int) {
	next, stop := iter.Pull(seq)
	defer stop()
	if sizeHint > 0 {
		d.grow(sizeHint)
		d.ring.AppendMany(sizeHint, next)
	}
	for {
		x, ok := next()
		if !ok {
			return
		}
		d.PushBack(x)
	}
}

// FromSeq builds a deque from a finite sequence. sizeHint pre-sizes storage
// and follows the same rules as AppendSeq.
func FromSeq[T any](seq iter.Seq[T], sizeHint int) *Deque[T] {
	d := New[T]()
	d.AppendSeq(seq, sizeHint)
	return d
}
