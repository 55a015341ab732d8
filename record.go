package huffman

import "fmt"

// TreeRecord is a structural snapshot of a coding tree, suitable for JSON.
// Internal nodes have a nil Symbol and two children; leaves have a Symbol
// and no children.
type TreeRecord[T any] struct {
	Weight uint64         `json:"freq"`
	Symbol *T             `json:"char"`
	Left   *TreeRecord[T] `json:"left,omitempty"`
	Right  *TreeRecord[T] `json:"right,omitempty"`
}

// SerializeTree snapshots root, rendering each leaf symbol with label.
// It returns nil for a nil root. The walk is iterative, so skewed trees do
// not grow the call stack.
func SerializeTree[S comparable, T any](root *Node[S], label func(S) T) *TreeRecord[T] {
	if root == nil {
		return nil
	}
	type frame struct {
		node *Node[S]
		rec  *TreeRecord[T]
	}
	out := &TreeRecord[T]{}
	stack := []frame{{node: root, rec: out}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		f.rec.Weight = f.node.weight
		if f.node.IsLeaf() {
			v := label(f.node.symbol)
			f.rec.Symbol = &v
			continue
		}
		f.rec.Left = &TreeRecord[T]{}
		f.rec.Right = &TreeRecord[T]{}
		stack = append(stack,
			frame{node: f.node.right, rec: f.rec.Right},
			frame{node: f.node.left, rec: f.rec.Left},
		)
	}
	return out
}

// Record snapshots root with symbols rendered as themselves.
func Record[S comparable](root *Node[S]) *TreeRecord[S] {
	return SerializeTree(root, func(s S) S { return s })
}

// RestoreTree rebuilds a tree from a record produced by SerializeTree. It
// rejects records that break the node invariants with ErrMalformedTree.
func RestoreTree[S comparable](rec *TreeRecord[S]) (*Node[S], error) {
	if rec == nil {
		return nil, nil
	}
	type frame struct {
		rec  *TreeRecord[S]
		node *Node[S]
		path string
	}
	root := &Node[S]{}
	var (
		stack     = []frame{{rec: rec, node: root}}
		internals []frame
	)
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		f.node.weight = f.rec.Weight
		switch {
		case f.rec.Left == nil && f.rec.Right == nil:
			if f.rec.Symbol == nil {
				return nil, fmt.Errorf("%w at %q: leaf without symbol", ErrMalformedTree, f.path)
			}
			f.node.symbol = *f.rec.Symbol
		case f.rec.Left != nil && f.rec.Right != nil:
			if f.rec.Symbol != nil {
				return nil, fmt.Errorf("%w at %q: internal node with symbol", ErrMalformedTree, f.path)
			}
			f.node.left = &Node[S]{}
			f.node.right = &Node[S]{}
			internals = append(internals, f)
			stack = append(stack,
				frame{rec: f.rec.Right, node: f.node.right, path: f.path + "1"},
				frame{rec: f.rec.Left, node: f.node.left, path: f.path + "0"},
			)
		default:
			return nil, fmt.Errorf("%w at %q: node with one child", ErrMalformedTree, f.path)
		}
	}
	for _, f := range internals {
		if f.node.weight != f.node.left.weight+f.node.right.weight {
			return nil, fmt.Errorf("%w at %q: weight %d != %d + %d", ErrMalformedTree, f.path,
				f.node.weight, f.node.left.weight, f.node.right.weight)
		}
	}
	return root, nil
}
