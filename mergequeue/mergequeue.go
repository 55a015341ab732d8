// Package mergequeue provides the weight-ordered containers used to merge
// partial coding trees.
//
// Both implementations share one removal order: ascending weight, and among
// equal weights the most recently inserted element first. Tree shapes built
// on either queue are therefore identical, which keeps code tables
// interoperable across implementations.
package mergequeue

// Weighted is implemented by anything that can be queued for merging.
type Weighted interface {
	Weight() uint64
}

// Queue is a priority queue with a fixed tie-break policy.
type Queue[T Weighted] interface {
	// Insert adds x so that the queue stays ordered by ascending weight.
	Insert(x T)
	// RemoveMin removes and returns the front element. The boolean is
	// false when the queue is empty.
	RemoveMin() (T, bool)
	// Len returns the number of queued elements.
	Len() int
	// Empty reports whether Len is zero.
	Empty() bool
}

var (
	_ Queue[Weighted] = (*List[Weighted])(nil)
	_ Queue[Weighted] = (*Heap[Weighted])(nil)
)
