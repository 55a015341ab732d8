package mergequeue

// element is a single link of a List.
type element[T Weighted] struct {
	value T
	next  *element[T]
}

// List is a singly linked list kept sorted by ascending weight.
//
// Insert is O(n) and RemoveMin is O(1). The list has no capacity limit;
// alphabets are small so the linear scan stays cheap.
type List[T Weighted] struct {
	head *element[T]
	size int
}

// NewList creates an empty list.
func NewList[T Weighted]() *List[T] {
	return &List[T]{}
}

// Insert places x in front of the first element whose weight is not less
// than x's weight. A new element therefore precedes every queued element of
// equal weight.
func (l *List[T]) Insert(x T) {
	e := &element[T]{value: x}
	l.size++

	w := x.Weight()
	if l.head == nil || l.head.value.Weight() >= w {
		e.next = l.head
		l.head = e
		return
	}

	cur := l.head
	for cur.next != nil && cur.next.value.Weight() < w {
		cur = cur.next
	}
	e.next = cur.next
	cur.next = e
}

// RemoveMin pops the head of the list.
func (l *List[T]) RemoveMin() (T, bool) {
	if l.head == nil {
		var zero T
		return zero, false
	}
	e := l.head
	l.head = e.next
	l.size--
	return e.value, true
}

// Len returns the number of elements.
func (l *List[T]) Len() int { return l.size }

// Empty reports whether the list holds no elements.
func (l *List[T]) Empty() bool { return l.head == nil }

// Weights returns the queued weights from front to back.
func (l *List[T]) Weights() []uint64 {
	out := make([]uint64, 0, l.size)
	for e := l.head; e != nil; e = e.next {
		out = append(out, e.value.Weight())
	}
	return out
}
