package main

import (
	"fmt"
	"slices"

	"github.com/orizon-lang/deque"
	"github.com/orizon-lang/deque/internal/fuzz"
)

// The fuzz target interprets raw bytes as a deque operation script and
// mirrors every operation on a plain slice model. Any divergence between the
// two is a crash.
const (
	opPushBack = iota
	opPushFront
	opPopFront
	opPopBack
	opSet
	opInsert
	opRemoveAt
	opReplace
	opReserve
	opClone
	opCheckClone
	opClear
	opCount
)

type script struct {
	data []byte
	pos  int
}

func (s *script) next() (byte, bool) {
	if s.pos >= len(s.data) {
		return 0, false
	}
	b := s.data[s.pos]
	s.pos++
	return b, true
}

// runScript executes the operation script and returns the state edges it
// visited. A truncated script simply ends the run; a divergence from the
// model is returned as an error.
func runScript(data []byte) ([]uint64, error) {
	s := &script{data: data}
	d := deque.New[int]()
	var model []int

	var clone *deque.Deque[int]
	var frozen []int

	edges := make([]uint64, 0, len(data))
	prev := stateShape(d, false)

	for step := 0; ; step++ {
		op, ok := s.next()
		if !ok {
			break
		}
		opc := int(op) % opCount

		switch opc {
		case opPushBack:
			v, ok := s.next()
			if !ok {
				return edges, nil
			}
			d.PushBack(int(v))
			model = append(model, int(v))

		case opPushFront:
			v, ok := s.next()
			if !ok {
				return edges, nil
			}
			d.PushFront(int(v))
			model = append([]int{int(v)}, model...)

		case opPopFront:
			x, ok := d.PopFront()
			if len(model) == 0 {
				if ok {
					return edges, fmt.Errorf("step %d: popFront on empty returned %d", step, x)
				}
				break
			}
			if !ok || x != model[0] {
				return edges, fmt.Errorf("step %d: popFront got %d want %d", step, x, model[0])
			}
			model = model[1:]

		case opPopBack:
			x, ok := d.PopBack()
			if len(model) == 0 {
				if ok {
					return edges, fmt.Errorf("step %d: popBack on empty returned %d", step, x)
				}
				break
			}
			last := model[len(model)-1]
			if !ok || x != last {
				return edges, fmt.Errorf("step %d: popBack got %d want %d", step, x, last)
			}
			model = model[:len(model)-1]

		case opSet:
			i, ok1 := s.next()
			v, ok2 := s.next()
			if !ok1 || !ok2 {
				return edges, nil
			}
			if len(model) == 0 {
				break
			}
			idx := int(i) % len(model)
			d.Set(idx, int(v))
			model[idx] = int(v)

		case opInsert:
			i, ok1 := s.next()
			v, ok2 := s.next()
			if !ok1 || !ok2 {
				return edges, nil
			}
			idx := int(i) % (len(model) + 1)
			d.Insert(idx, int(v))
			model = splice(model, idx, idx, []int{int(v)})

		case opRemoveAt:
			i, ok := s.next()
			if !ok {
				return edges, nil
			}
			if len(model) == 0 {
				break
			}
			idx := int(i) % len(model)
			x := d.RemoveAt(idx)
			if x != model[idx] {
				return edges, fmt.Errorf("step %d: removeAt(%d) got %d want %d", step, idx, x, model[idx])
			}
			model = splice(model, idx, idx+1, nil)

		case opReplace:
			b1, ok1 := s.next()
			b2, ok2 := s.next()
			b3, ok3 := s.next()
			if !ok1 || !ok2 || !ok3 {
				return edges, nil
			}
			lo := int(b1) % (len(model) + 1)
			span := int(b2) % (len(model) - lo + 1)
			k := int(b3) % 4
			xs := make([]int, 0, k)
			for j := 0; j < k; j++ {
				v, ok := s.next()
				if !ok {
					break
				}
				xs = append(xs, int(v))
			}
			d.ReplaceRange(lo, lo+span, xs)
			model = splice(model, lo, lo+span, xs)

		case opReserve:
			n, ok := s.next()
			if !ok {
				return edges, nil
			}
			d.EnsureCapacity(int(n) % 64)

		case opClone:
			// dropping the previous clone without a pop or write leaves a
			// stranded reference, which the copy-on-write path must tolerate
			clone = d.Clone()
			frozen = append([]int(nil), model...)

		case opCheckClone:
			if clone != nil {
				if got := clone.ToSlice(); !slices.Equal(got, frozen) {
					return edges, fmt.Errorf("step %d: clone diverged: got %v want %v", step, got, frozen)
				}
			}

		case opClear:
			g, ok := s.next()
			if !ok {
				return edges, nil
			}
			if g%8 == 0 {
				d.Clear()
				model = nil
			}
		}

		if err := verify(step, d, model); err != nil {
			return edges, err
		}
		shape := stateShape(d, clone != nil)
		edges = append(edges, prev<<32|uint64(opc)<<16|shape)
		prev = shape
	}

	if clone != nil {
		if got := clone.ToSlice(); !slices.Equal(got, frozen) {
			return edges, fmt.Errorf("final clone diverged: got %v want %v", got, frozen)
		}
	}
	return edges, verify(len(data), d, model)
}

func verify(step int, d *deque.Deque[int], model []int) error {
	if d.Len() != len(model) {
		return fmt.Errorf("step %d: len %d, model %d", step, d.Len(), len(model))
	}
	if d.Cap() < d.Len() {
		return fmt.Errorf("step %d: cap %d below len %d", step, d.Cap(), d.Len())
	}
	for i, w := range model {
		if got := d.At(i); got != w {
			return fmt.Errorf("step %d: index %d got %d want %d", step, i, got, w)
		}
	}
	return nil
}

func splice(s []int, lo, hi int, xs []int) []int {
	out := append([]int(nil), s[:lo]...)
	out = append(out, xs...)
	return append(out, s[hi:]...)
}

// stateShape packs the observable deque state into a small fingerprint:
// length bucket, capacity bucket, and whether a clone is alive.
func stateShape(d *deque.Deque[int], hasClone bool) uint64 {
	shape := uint64(sizeBucket(d.Len()))<<5 | uint64(sizeBucket(d.Cap()))<<1
	if hasClone {
		shape |= 1
	}
	return shape
}

// sizeBucket maps n to its bit length, capped at 15.
func sizeBucket(n int) int {
	b := 0
	for n > 0 {
		n >>= 1
		b++
	}
	return min(b, 15)
}

// computeCoverage re-interprets the input and reports the visited state
// edges, crash or not.
func computeCoverage(data []byte) []uint64 {
	edges, _ := runScript(data)
	return edges
}

// chooseTarget maps the -target flag to a fuzz target.
func chooseTarget(kind string) fuzz.Target {
	switch kind {
	case "ops":
		return func(data []byte) error {
			_, err := runScript(data)
			return err
		}
	default:
		return func(data []byte) error { return nil }
	}
}
