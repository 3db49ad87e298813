// Package deque provides a generic double-ended queue backed by a circular
// buffer with copy-on-write sharing.
//
// Pushes and pops at both ends run in amortized constant time and indexed
// access is constant time. Clone is a constant-time copy that shares storage
// with the original; whichever side mutates first copies the elements, so
// clones behave as independent values. Arbitrary-position Insert, RemoveAt
// and ReplaceRange relocate the smaller side of the buffer and cost O(n) in
// the worst case.
//
// Out-of-range indices and malformed ranges are programming errors and
// panic; the Get, Front, Back, PopFront and PopBack accessors return an
// ok flag instead for callers probing emptiness. A Deque is not safe for
// concurrent use; clones are independent values once detached, but sharing
// one value across goroutines requires external synchronization.
package deque
