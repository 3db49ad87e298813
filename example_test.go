package deque

import "fmt"

func Example() {
	d := New[string]()
	d.PushBack("b")
	d.PushBack("c")
	d.PushFront("a")

	for x := range d.Values() {
		fmt.Println(x)
	}
	// Output:
	// a
	// b
	// c
}

func ExampleDeque_ReplaceRange() {
	d := Of(10, 20, 30, 40, 50)
	d.ReplaceRange(1, 3, []int{100, 200, 300})
	fmt.Println(d.ToSlice())
	// Output:
	// [10 100 200 300 40 50]
}

func ExampleDeque_Clone() {
	a := Of(1, 2, 3)
	b := a.Clone()
	b.PushBack(4)

	fmt.Println(a.ToSlice())
	fmt.Println(b.ToSlice())
	// Output:
	// [1 2 3]
	// [1 2 3 4]
}

func ExampleDeque_PopFront() {
	d := Of(1, 2, 3)
	for {
		x, ok := d.PopFront()
		if !ok {
			break
		}
		fmt.Println(x)
	}
	// Output:
	// 1
	// 2
	// 3
}

func ExampleFromSeq() {
	src := Of(1, 2, 3, 4, 5, 6)
	even := FromSeq(func(yield func(int) bool) {
		for x := range src.Values() {
			if x%2 == 0 && !yield(x) {
				return
			}
		}
	}, 0)
	fmt.Println(even.ToSlice())
	// Output:
	// [2 4 6]
}
