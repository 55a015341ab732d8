package mergequeue

import "container/heap"

type entry[T Weighted] struct {
	value  T
	weight uint64
	seq    uint64
}

// entries is a min-heap of entry ordered by ascending weight, breaking ties
// by descending insertion sequence so that it pops in List order.
type entries[T Weighted] []entry[T]

// Len implements heap.Interface and returns the number of elements.
func (h entries[T]) Len() int { return len(h) }

// Less implements heap.Interface.
func (h entries[T]) Less(i, j int) bool {
	if h[i].weight != h[j].weight {
		return h[i].weight < h[j].weight
	}
	return h[i].seq > h[j].seq
}

// Swap implements heap.Interface swap.
func (h entries[T]) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

// Push implements heap.Interface push.
func (h *entries[T]) Push(x any) { *h = append(*h, x.(entry[T])) }

// Pop implements heap.Interface pop.
func (h *entries[T]) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	old[n-1] = entry[T]{}
	*h = old[:n-1]
	return x
}

// Heap is a binary-heap Queue. It removes elements in exactly the order a
// List would, at O(log n) per operation.
type Heap[T Weighted] struct {
	items entries[T]
	seq   uint64
}

// NewHeap creates an empty heap.
func NewHeap[T Weighted]() *Heap[T] {
	return &Heap[T]{}
}

// Insert adds x to the heap.
func (h *Heap[T]) Insert(x T) {
	h.seq++
	heap.Push(&h.items, entry[T]{value: x, weight: x.Weight(), seq: h.seq})
}

// RemoveMin pops the lightest, most recently inserted element.
func (h *Heap[T]) RemoveMin() (T, bool) {
	if len(h.items) == 0 {
		var zero T
		return zero, false
	}
	e := heap.Pop(&h.items).(entry[T])
	return e.value, true
}

// Len returns the number of elements.
func (h *Heap[T]) Len() int { return len(h.items) }

// Empty reports whether the heap holds no elements.
func (h *Heap[T]) Empty() bool { return len(h.items) == 0 }
