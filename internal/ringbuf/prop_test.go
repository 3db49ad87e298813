package ringbuf

import (
	"math/rand"
	"testing"
	"time"

	"github.com/orizon-lang/deque/internal/prop"
)

// header is a generated ring geometry.
type header struct {
	capacity, off, count int
}

func genHeader(maxCap int) prop.Generator[header] {
	return func(r *rand.Rand, _ int) header {
		c := 1 + r.Intn(maxCap)
		return header{capacity: c, off: r.Intn(c), count: r.Intn(c + 1)}
	}
}

func TestPropDistanceMatchesCount(t *testing.T) {
	check := func(h header) bool {
		end := endSlot(h.capacity, h.off, h.count)
		d := wrapDistance(h.capacity, h.off, end)
		if h.count < h.capacity {
			return d == h.count
		}
		return d == 0
	}
	res := prop.ForAll(genHeader(256), nil, check, prop.Options{Trials: 2000})
	if res.Failed {
		t.Fatalf("property failed: seed=%d input=%v", res.Seed, res.FailingInput)
	}
}

// rangeCase is a generated geometry plus a logical subrange of its window.
type rangeCase struct {
	header
	lo, hi int
}

func genRangeCase(maxCap int) prop.Generator[rangeCase] {
	gh := genHeader(maxCap)
	return func(r *rand.Rand, size int) rangeCase {
		h := gh(r, size)
		lo := r.Intn(h.count + 1)
		hi := lo + r.Intn(h.count-lo+1)
		return rangeCase{header: h, lo: lo, hi: hi}
	}
}

func TestPropSplitRangeCoversInOrder(t *testing.T) {
	check := func(c rangeCase) bool {
		a, b := splitRange(c.capacity, c.off, c.lo, c.hi)
		if a.len()+b.len() != c.hi-c.lo {
			return false
		}
		if !b.empty() && (a.hi != c.capacity || b.lo != 0) {
			return false
		}
		for k, raw := range rawSlots(a, b) {
			if raw != (c.off+c.lo+k)%c.capacity {
				return false
			}
		}
		return true
	}
	res := prop.ForAll(genRangeCase(128), nil, check, prop.Options{Trials: 2000})
	if res.Failed {
		t.Fatalf("property failed: seed=%d input=%v", res.Seed, res.FailingInput)
	}
}

// moveCase describes a wrap-aware block move with the overlap precondition
// abs(dst-src)+n <= capacity satisfied by construction.
type moveCase struct {
	capacity, src, dst, n int
}

func genMoveCase(maxCap int) prop.Generator[moveCase] {
	return func(r *rand.Rand, _ int) moveCase {
		c := 1 + r.Intn(maxCap)
		k := r.Intn(c + 1)
		n := r.Intn(c - k + 1)
		src := r.Intn(c)
		dst := indexOffsetBy(c, src, k)
		if r.Intn(2) == 0 {
			dst = indexOffsetBy(c, src, -k)
		}
		return moveCase{capacity: c, src: src, dst: dst, n: n}
	}
}

func TestPropMoveSlotsMatchesBufferedMove(t *testing.T) {
	check := func(m moveCase) bool {
		slots := make([]int, m.capacity)
		for i := range slots {
			slots[i] = i + 1
		}
		want := make([]int, m.capacity)
		copy(want, slots)
		// as-if-buffered model: read the source block, then write it
		tmp := make([]int, m.n)
		for i := 0; i < m.n; i++ {
			tmp[i] = slots[(m.src+i)%m.capacity]
		}
		for i := 0; i < m.n; i++ {
			want[(m.dst+i)%m.capacity] = tmp[i]
		}
		moveSlots(slots, m.dst, m.src, m.n)
		for i := range slots {
			if slots[i] != want[i] {
				return false
			}
		}
		return true
	}
	res := prop.ForAll(genMoveCase(64), nil, check, prop.Options{Trials: 4000})
	if res.Failed {
		t.Fatalf("property failed: seed=%d input=%v", res.Seed, res.FailingInput)
	}
}

func TestPropReplaceRoundTrip(t *testing.T) {
	check := func(c rangeCase) bool {
		r := New[int](c.capacity)
		r.off = c.off
		for k := 0; k < c.count; k++ {
			r.Append(k + 1)
		}
		before := toSlice(r)
		own := make([]int, c.hi-c.lo)
		for k := range own {
			own[k] = r.At(c.lo + k)
		}
		r.ReplaceRange(c.lo, c.hi, own)
		after := toSlice(r)
		if len(after) != len(before) {
			return false
		}
		for i := range before {
			if after[i] != before[i] {
				return false
			}
		}
		return true
	}
	res := prop.ForAll(genRangeCase(48), nil, check, prop.Options{Trials: 3000})
	if res.Failed {
		t.Fatalf("property failed: seed=%d input=%v", res.Seed, res.FailingInput)
	}
}

// replayCase feeds the same random operations to a ring and a plain slice.
type replayCase struct {
	seed int64
	ops  int
}

func TestPropRandomOpsMatchOracle(t *testing.T) {
	gen := func(r *rand.Rand, _ int) replayCase {
		return replayCase{seed: r.Int63(), ops: 200 + r.Intn(300)}
	}
	check := func(c replayCase) bool {
		r := rand.New(rand.NewSource(c.seed))
		const capacity = 16
		ring := New[int](capacity)
		var oracle []int
		for i := 0; i < c.ops; i++ {
			switch op := r.Intn(6); {
			case op == 0 && len(oracle) < capacity:
				x := r.Intn(1000) + 1
				ring.Append(x)
				oracle = append(oracle, x)
			case op == 1 && len(oracle) < capacity:
				x := r.Intn(1000) + 1
				ring.Prepend(x)
				oracle = append([]int{x}, oracle...)
			case op == 2 && len(oracle) > 0:
				x, ok := ring.PopFront()
				if !ok || x != oracle[0] {
					return false
				}
				oracle = oracle[1:]
			case op == 3 && len(oracle) > 0:
				x, ok := ring.PopBack()
				if !ok || x != oracle[len(oracle)-1] {
					return false
				}
				oracle = oracle[:len(oracle)-1]
			default:
				lo := r.Intn(len(oracle) + 1)
				hi := lo + r.Intn(len(oracle)-lo+1)
				maxNew := capacity - len(oracle) + (hi - lo)
				xs := make([]int, r.Intn(maxNew+1))
				for j := range xs {
					xs[j] = r.Intn(1000) + 1
				}
				ring.ReplaceRange(lo, hi, xs)
				oracle = splice(oracle, lo, hi, xs)
			}
			if ring.Len() != len(oracle) {
				return false
			}
			for j, w := range oracle {
				if ring.At(j) != w {
					return false
				}
			}
		}
		return true
	}
	res := prop.ForAll(gen, nil, check, prop.Options{Trials: 60, MaxShrinkTime: 2 * time.Second})
	if res.Failed {
		t.Fatalf("property failed: seed=%d input=%v", res.Seed, res.FailingInput)
	}
}
