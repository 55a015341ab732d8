package huffman

import (
	"fmt"
	"strings"
)

// Encode concatenates the codes of symbols in input order.
//
// Symbols without a code contribute no bits; their number is returned as
// dropped. A non-zero dropped count means the table was built for another
// input.
func Encode[S comparable](symbols []S, table *CodeTable[S]) (bits string, dropped int) {
	if table.Empty() {
		return "", len(symbols)
	}
	var b strings.Builder
	for _, s := range symbols {
		c, ok := table.codes[s]
		if !ok {
			dropped++
			continue
		}
		b.WriteString(c)
	}
	return b.String(), dropped
}

// EncodeStrict is Encode that fails with ErrUnmappedSymbol instead of
// dropping a symbol.
func EncodeStrict[S comparable](symbols []S, table *CodeTable[S]) (string, error) {
	var b strings.Builder
	for i, s := range symbols {
		c, ok := table.Code(s)
		if !ok {
			return "", fmt.Errorf("%w at index %d: %v", ErrUnmappedSymbol, i, s)
		}
		b.WriteString(c)
	}
	return b.String(), nil
}

// Decode walks root one bit at a time: '0' goes left and any other byte
// goes right. Each leaf reached emits its symbol and restarts the walk at
// the root.
//
// Bits of an incomplete trailing code are dropped and counted. Under a lone
// leaf every '0' emits the leaf's symbol and other bytes are dropped. A nil
// root decodes nothing.
func Decode[S comparable](bits string, root *Node[S]) (symbols []S, dropped int) {
	if root == nil {
		return nil, len(bits)
	}
	if root.IsLeaf() {
		for i := 0; i < len(bits); i++ {
			if bits[i] == '0' {
				symbols = append(symbols, root.symbol)
			} else {
				dropped++
			}
		}
		return symbols, dropped
	}

	cur := root
	pending := 0
	for i := 0; i < len(bits); i++ {
		if bits[i] == '0' {
			cur = cur.left
		} else {
			cur = cur.right
		}
		pending++
		if cur.IsLeaf() {
			symbols = append(symbols, cur.symbol)
			cur = root
			pending = 0
		}
	}
	return symbols, pending
}

// DecodeStrict is Decode that rejects bytes other than '0' and '1' with
// ErrInvalidBit and an incomplete trailing code with ErrTruncated.
func DecodeStrict[S comparable](bits string, root *Node[S]) ([]S, error) {
	if root == nil {
		if len(bits) > 0 {
			return nil, fmt.Errorf("%w: %d bits for an empty tree", ErrTruncated, len(bits))
		}
		return nil, nil
	}
	var out []S
	if root.IsLeaf() {
		for i := 0; i < len(bits); i++ {
			if bits[i] != '0' {
				return out, fmt.Errorf("%w at offset %d: %q under a single-symbol tree", ErrInvalidBit, i, bits[i])
			}
			out = append(out, root.symbol)
		}
		return out, nil
	}

	cur := root
	start := 0
	for i := 0; i < len(bits); i++ {
		switch bits[i] {
		case '0':
			cur = cur.left
		case '1':
			cur = cur.right
		default:
			return out, fmt.Errorf("%w at offset %d: %q", ErrInvalidBit, i, bits[i])
		}
		if cur.IsLeaf() {
			out = append(out, cur.symbol)
			cur = root
			start = i + 1
		}
	}
	if start != len(bits) {
		return out, fmt.Errorf("%w: %d trailing bits at offset %d", ErrTruncated, len(bits)-start, start)
	}
	return out, nil
}

// DecodeTable decodes bits with the code table alone, accumulating bits
// until they spell a known code. Bits left over at the end are dropped and
// counted.
func DecodeTable[S comparable](bits string, table *CodeTable[S]) (symbols []S, dropped int) {
	if table.Empty() {
		return nil, len(bits)
	}
	maxLen := 0
	for c := range table.symbols {
		maxLen = max(maxLen, len(c))
	}
	start := 0
	for i := 0; i < len(bits); i++ {
		if s, ok := table.symbols[bits[start:i+1]]; ok {
			symbols = append(symbols, s)
			start = i + 1
			continue
		}
		// No code is longer than maxLen, so a longer run can never match.
		if i+1-start >= maxLen {
			start = i + 1
			dropped += maxLen
		}
	}
	return symbols, dropped + len(bits) - start
}
