package huffman

import (
	"fmt"
	"slices"
	"strings"
)

// CodeTable maps symbols to their bit strings and back.
type CodeTable[S comparable] struct {
	codes   map[S]string
	symbols map[string]S
	order   []S // leaves in depth-first, left-to-right order
}

// NewCodeTable derives the code table of root by a depth-first walk: a left
// edge appends '0' and a right edge appends '1'. A lone leaf gets the code
// "0". A nil root yields an empty table.
func NewCodeTable[S comparable](root *Node[S]) *CodeTable[S] {
	t := &CodeTable[S]{
		codes:   make(map[S]string),
		symbols: make(map[string]S),
	}
	if root == nil {
		return t
	}

	type frame struct {
		node *Node[S]
		code string
	}
	stack := []frame{{node: root}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if f.node.IsLeaf() {
			code := f.code
			if code == "" {
				code = "0"
			}
			t.codes[f.node.symbol] = code
			t.symbols[code] = f.node.symbol
			t.order = append(t.order, f.node.symbol)
			continue
		}
		// Right goes first so that the left subtree is visited first.
		stack = append(stack,
			frame{node: f.node.right, code: f.code + "1"},
			frame{node: f.node.left, code: f.code + "0"},
		)
	}
	return t
}

// CodeTableFor is NewCodeTable that also reports ErrEmptyTree for a nil
// root. The returned table is never nil.
func CodeTableFor[S comparable](root *Node[S]) (*CodeTable[S], error) {
	t := NewCodeTable(root)
	if root == nil {
		return t, ErrEmptyTree
	}
	return t, nil
}

// CodeTableFromMap builds a table from an explicit symbol to code mapping,
// such as one read back from a report. Codes must be non-empty strings of
// '0' and '1' and no code may be a prefix of another. Symbols() lists the
// symbols in code order.
func CodeTableFromMap[S comparable](codes map[S]string) (*CodeTable[S], error) {
	t := &CodeTable[S]{
		codes:   make(map[S]string, len(codes)),
		symbols: make(map[string]S, len(codes)),
	}
	for s, c := range codes {
		if c == "" || strings.Trim(c, "01") != "" {
			return nil, fmt.Errorf("%w: %q for %v", ErrInvalidCode, c, s)
		}
		if other, dup := t.symbols[c]; dup {
			return nil, fmt.Errorf("%w: %q assigned to %v and %v", ErrInvalidCode, c, other, s)
		}
		t.codes[s] = c
		t.symbols[c] = s
		t.order = append(t.order, s)
	}
	slices.SortFunc(t.order, func(a, b S) int {
		return strings.Compare(t.codes[a], t.codes[b])
	})
	// In lexical order a code is immediately followed by any code it prefixes.
	for i := 1; i < len(t.order); i++ {
		prev, cur := t.codes[t.order[i-1]], t.codes[t.order[i]]
		if strings.HasPrefix(cur, prev) {
			return nil, fmt.Errorf("%w: %q is a prefix of %q", ErrInvalidCode, prev, cur)
		}
	}
	return t, nil
}

// Code returns the bit string assigned to s.
func (t *CodeTable[S]) Code(s S) (string, bool) {
	if t == nil {
		return "", false
	}
	c, ok := t.codes[s]
	return c, ok
}

// Symbol returns the symbol whose code is exactly code.
func (t *CodeTable[S]) Symbol(code string) (S, bool) {
	if t == nil {
		var zero S
		return zero, false
	}
	s, ok := t.symbols[code]
	return s, ok
}

// Len returns the number of coded symbols.
func (t *CodeTable[S]) Len() int {
	if t == nil {
		return 0
	}
	return len(t.codes)
}

// Empty reports whether the table holds no codes.
func (t *CodeTable[S]) Empty() bool { return t.Len() == 0 }

// Symbols returns the coded symbols in tree order, left to right.
func (t *CodeTable[S]) Symbols() []S {
	if t == nil {
		return nil
	}
	return append([]S(nil), t.order...)
}

// Map returns a copy of the symbol to code mapping.
func (t *CodeTable[S]) Map() map[S]string {
	out := make(map[S]string, t.Len())
	if t == nil {
		return out
	}
	for s, c := range t.codes {
		out[s] = c
	}
	return out
}

// EncodedLen returns the number of bits Encode produces for an input with
// frequencies f: the sum over all symbols of count times code length.
// Symbols missing from t contribute nothing.
func EncodedLen[S comparable](f *Frequencies[S], t *CodeTable[S]) uint64 {
	var bits uint64
	for _, s := range f.Symbols() {
		if c, ok := t.Code(s); ok {
			bits += f.Count(s) * uint64(len(c))
		}
	}
	return bits
}
