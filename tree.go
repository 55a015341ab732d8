package huffman

import "github.com/seiflotfy/huffman/mergequeue"

// Node is a node of a coding tree.
//
// A leaf carries a symbol and has no children. An internal node has exactly
// two children and weighs as much as both of them together. Nodes are not
// modified after Build returns.
type Node[S comparable] struct {
	weight uint64
	symbol S
	left   *Node[S]
	right  *Node[S]
}

func newLeaf[S comparable](s S, weight uint64) *Node[S] {
	return &Node[S]{weight: weight, symbol: s}
}

func newInternal[S comparable](left, right *Node[S]) *Node[S] {
	return &Node[S]{
		weight: left.weight + right.weight,
		left:   left,
		right:  right,
	}
}

// Weight returns the aggregated frequency of the subtree.
func (n *Node[S]) Weight() uint64 { return n.weight }

// IsLeaf reports whether n has no children.
func (n *Node[S]) IsLeaf() bool { return n.left == nil && n.right == nil }

// Symbol returns the leaf symbol. The boolean is false for internal nodes.
func (n *Node[S]) Symbol() (S, bool) {
	if !n.IsLeaf() {
		var zero S
		return zero, false
	}
	return n.symbol, true
}

// Left returns the child reached by a 0 bit, or nil for a leaf.
func (n *Node[S]) Left() *Node[S] { return n.left }

// Right returns the child reached by a 1 bit, or nil for a leaf.
func (n *Node[S]) Right() *Node[S] { return n.right }

// Build constructs the coding tree for f using the sorted linked list.
// It returns nil when f is empty and a lone leaf when f holds one symbol.
func Build[S comparable](f *Frequencies[S]) *Node[S] {
	return BuildWithQueue(f, mergequeue.NewList[*Node[S]]())
}

// BuildWithQueue constructs the coding tree for f using q as the merge
// structure. q must be empty.
//
// Leaves are inserted in first-occurrence order. The two lightest entries
// are removed (left first, then right) and replaced by their parent until a
// single entry, the root, remains.
func BuildWithQueue[S comparable](f *Frequencies[S], q mergequeue.Queue[*Node[S]]) *Node[S] {
	if f.Len() == 0 {
		return nil
	}
	for _, s := range f.order {
		q.Insert(newLeaf(s, f.counts[s]))
	}
	for q.Len() > 1 {
		left, _ := q.RemoveMin()
		right, _ := q.RemoveMin()
		q.Insert(newInternal(left, right))
	}
	root, _ := q.RemoveMin()
	return root
}

func newQueue[S comparable](kind QueueKind) mergequeue.Queue[*Node[S]] {
	switch kind {
	case QueueHeap:
		return mergequeue.NewHeap[*Node[S]]()
	default:
		return mergequeue.NewList[*Node[S]]()
	}
}
