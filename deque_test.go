package deque

import (
	"testing"

	"github.com/orizon-lang/deque/internal/assert"
)

func TestDequeBasic(t *testing.T) {
	var d Deque[int]
	if !d.IsEmpty() || d.Len() != 0 {
		t.Fatalf("expected empty")
	}
	for i := 0; i < 10; i++ {
		d.PushBack(i)
	}
	if d.Len() != 10 {
		t.Fatalf("len=%d", d.Len())
	}
	if v, ok := d.Front(); !ok || v != 0 {
		t.Fatalf("front=%v %v", v, ok)
	}
	if v, ok := d.Back(); !ok || v != 9 {
		t.Fatalf("back=%v %v", v, ok)
	}
	for i := 0; i < 5; i++ {
		v, ok := d.PopFront()
		if !ok || v != i {
			t.Fatalf("popFront %d got %v %v", i, v, ok)
		}
	}
	for i := -1; i >= -3; i-- {
		d.PushFront(i)
	}
	prev := 1000
	for !d.IsEmpty() {
		v, ok := d.PopBack()
		if !ok {
			t.Fatal("unexpected empty")
		}
		if v >= prev {
			t.Fatalf("order not strictly decreasing: %d then %d", prev, v)
		}
		prev = v
	}
}

func TestConstructors(t *testing.T) {
	d := Of(1, 2, 3)
	assert.SliceEqual(t, d.ToSlice(), []int{1, 2, 3})
	assert.Equal(t, d.Cap(), 3)

	s := []int{4, 5}
	f := FromSlice(s)
	f.Set(0, 40)
	assert.Equal(t, s[0], 4, "source slice must not alias deque storage")

	r := Repeat("x", 3)
	assert.SliceEqual(t, r.ToSlice(), []string{"x", "x", "x"})
	assert.Equal(t, Repeat(0, 0).Len(), 0)

	w := WithCapacity[int](16)
	assert.Equal(t, w.Cap(), 16)
	assert.Equal(t, w.Len(), 0)
}

func TestRepeatNegativePanics(t *testing.T) {
	assert.PanicsWith(t, "negative repeat count", func() { Repeat(1, -1) })
}

func TestAtGetSet(t *testing.T) {
	d := Of(10, 20, 30)
	assert.Equal(t, d.At(1), 20)
	if v, ok := d.Get(2); !ok || v != 30 {
		t.Fatalf("get=%v %v", v, ok)
	}
	if _, ok := d.Get(3); ok {
		t.Fatalf("get past end succeeded")
	}
	if _, ok := d.Get(-1); ok {
		t.Fatalf("negative get succeeded")
	}
	d.Set(1, 21)
	assert.Equal(t, d.At(1), 21)

	assert.PanicsWith(t, "index 3 out of range (len 3)", func() { d.At(3) })
	assert.PanicsWith(t, "out of range", func() { d.Set(-1, 0) })
}

func TestInsertRemove(t *testing.T) {
	d := Of(1, 2, 4)
	d.Insert(2, 3)
	assert.SliceEqual(t, d.ToSlice(), []int{1, 2, 3, 4})
	d.Insert(0, 0)
	assert.SliceEqual(t, d.ToSlice(), []int{0, 1, 2, 3, 4})
	d.Insert(d.Len(), 5)
	assert.SliceEqual(t, d.ToSlice(), []int{0, 1, 2, 3, 4, 5})

	if x := d.RemoveAt(0); x != 0 {
		t.Fatalf("removed %d", x)
	}
	if x := d.RemoveAt(4); x != 5 {
		t.Fatalf("removed %d", x)
	}
	if x := d.RemoveAt(1); x != 2 {
		t.Fatalf("removed %d", x)
	}
	assert.SliceEqual(t, d.ToSlice(), []int{1, 3, 4})

	assert.PanicsWith(t, "insert index 5", func() { d.Insert(5, 9) })
	assert.PanicsWith(t, "out of range", func() { d.RemoveAt(3) })
}

func TestRemoveAtFrontStepwise(t *testing.T) {
	d := Of(1, 2, 3, 4)
	want := [][]int{{2, 3, 4}, {3, 4}, {4}, {}}
	for step, w := range want {
		x := d.RemoveAt(0)
		if x != step+1 {
			t.Fatalf("step %d removed %d", step, x)
		}
		assert.SliceEqual(t, d.ToSlice(), w)
	}
}

func TestReplaceRangeScenario(t *testing.T) {
	d := Of(10, 20, 30, 40, 50)
	d.ReplaceRange(1, 3, []int{100, 200, 300})
	assert.SliceEqual(t, d.ToSlice(), []int{10, 100, 200, 300, 40, 50})
}

func TestReplaceRangeGrowsCapacity(t *testing.T) {
	d := Of(1, 2, 3)
	assert.Equal(t, d.Cap(), 3)
	d.ReplaceRange(3, 3, []int{4, 5, 6, 7})
	assert.SliceEqual(t, d.ToSlice(), []int{1, 2, 3, 4, 5, 6, 7})
	if d.Cap() < 7 {
		t.Fatalf("cap=%d", d.Cap())
	}
	assert.PanicsWith(t, "range [2,1)", func() { d.ReplaceRange(2, 1, nil) })
}

func TestPushFrontThenRemoveRestores(t *testing.T) {
	d := Of(1, 2, 3)
	before := d.ToSlice()
	d.PushFront(99)
	if x := d.RemoveAt(0); x != 99 {
		t.Fatalf("removed %d", x)
	}
	assert.SliceEqual(t, d.ToSlice(), before)
}

func TestWraparoundAgainstReference(t *testing.T) {
	d := WithCapacity[int](8)
	var ref []int
	push := func(x int) { d.PushBack(x); ref = append(ref, x) }
	pushF := func(x int) { d.PushFront(x); ref = append([]int{x}, ref...) }
	popF := func() {
		x, _ := d.PopFront()
		if x != ref[0] {
			t.Fatalf("popFront=%d want %d", x, ref[0])
		}
		ref = ref[1:]
	}
	for i := 1; i <= 6; i++ {
		push(i * 10)
	}
	for i := 0; i < 4; i++ {
		popF()
	}
	// wraps into the freed front slots without reallocating
	capBefore := d.Cap()
	for i := 1; i <= 5; i++ {
		push(i)
	}
	pushF(-1)
	assert.Equal(t, d.Cap(), capBefore)
	if !d.ring.Split() {
		t.Fatalf("window should wrap")
	}
	assert.SliceEqual(t, d.ToSlice(), ref)
	for i := range ref {
		assert.Equal(t, d.At(i), ref[i])
	}
}

func TestEnsureCapacityIdempotent(t *testing.T) {
	d := Of(1, 2, 3)
	d.EnsureCapacity(10)
	r := d.ring
	if d.Cap() < 10 {
		t.Fatalf("cap=%d", d.Cap())
	}
	d.EnsureCapacity(10)
	if d.ring != r {
		t.Fatalf("reallocation on satisfied reserve")
	}
	d.EnsureCapacity(4)
	if d.ring != r {
		t.Fatalf("reallocation on smaller reserve")
	}
	assert.SliceEqual(t, d.ToSlice(), []int{1, 2, 3})
}

func TestEnsureCapacityOnEmpty(t *testing.T) {
	var d Deque[int]
	d.EnsureCapacity(12)
	assert.Equal(t, d.Cap(), 12)
	d.PushBack(1)
	assert.Equal(t, d.Cap(), 12)
}

func TestClear(t *testing.T) {
	d := Of(1, 2, 3)
	d.EnsureCapacity(9)
	d.Clear()
	assert.Equal(t, d.Len(), 0)
	assert.Equal(t, d.Cap(), 9)
	d.PushBack(7)
	assert.SliceEqual(t, d.ToSlice(), []int{7})

	d.ClearAndShrink()
	assert.Equal(t, d.Len(), 0)
	assert.Equal(t, d.Cap(), 0)
	d.PushBack(8)
	assert.SliceEqual(t, d.ToSlice(), []int{8})
}

func TestIteration(t *testing.T) {
	d := Of(1, 2, 3, 4)
	var got []int
	for x := range d.Values() {
		got = append(got, x)
	}
	assert.SliceEqual(t, got, []int{1, 2, 3, 4})

	// restartable: a second range walks from the front again
	got = got[:0]
	for x := range d.Values() {
		got = append(got, x)
		if x == 2 {
			break
		}
	}
	assert.SliceEqual(t, got, []int{1, 2})

	sum := 0
	for i, x := range d.All() {
		sum += i * x
	}
	assert.Equal(t, sum, 0*1+1*2+2*3+3*4)

	got = got[:0]
	d.ForEach(func(x int) { got = append(got, x) })
	assert.SliceEqual(t, got, []int{1, 2, 3, 4})
}

func TestAppendSeqHints(t *testing.T) {
	src := func(n int) func(yield func(int) bool) {
		return func(yield func(int) bool) {
			for i := 1; i <= n; i++ {
				if !yield(i) {
					return
				}
			}
		}
	}
	// exact hint
	d := FromSeq(src(5), 5)
	assert.SliceEqual(t, d.ToSlice(), []int{1, 2, 3, 4, 5})

	// underestimated hint falls back to per-element appends
	d = FromSeq(src(9), 2)
	assert.SliceEqual(t, d.ToSlice(), []int{1, 2, 3, 4, 5, 6, 7, 8, 9})

	// overestimated hint writes only what the sequence produces
	d = FromSeq(src(3), 10)
	assert.SliceEqual(t, d.ToSlice(), []int{1, 2, 3})
	if d.Cap() < 10 {
		t.Fatalf("cap=%d", d.Cap())
	}

	// no hint at all
	d = FromSeq(src(4), 0)
	assert.SliceEqual(t, d.ToSlice(), []int{1, 2, 3, 4})

	d = Of(0)
	d.AppendSeq(src(3), 3)
	assert.SliceEqual(t, d.ToSlice(), []int{0, 1, 2, 3})
}

func TestEqualFunc(t *testing.T) {
	eq := func(a, b int) bool { return a == b }
	a := Of(1, 2, 3)
	b := Of(1, 2, 3)
	c := Of(1, 2, 4)
	assert.True(t, a.EqualFunc(b, eq))
	assert.False(t, a.EqualFunc(c, eq))
	assert.False(t, a.EqualFunc(Of(1, 2), eq))

	// shared storage short-circuits
	shared := a.Clone()
	assert.True(t, a.EqualFunc(shared, func(int, int) bool { return false }))

	var e1, e2 Deque[int]
	assert.True(t, e1.EqualFunc(&e2, eq))
}

func TestToSliceIsACopy(t *testing.T) {
	d := Of(1, 2, 3)
	s := d.ToSlice()
	s[0] = 99
	assert.Equal(t, d.At(0), 1)
	if got := New[int]().ToSlice(); len(got) != 0 {
		t.Fatalf("empty ToSlice: %v", got)
	}
}
