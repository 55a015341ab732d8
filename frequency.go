package huffman

// Frequencies counts the occurrences of each distinct symbol.
//
// Symbols are remembered in the order they were first seen. That order is
// the order in which leaves enter the merge queue, so it takes part in
// breaking weight ties.
type Frequencies[S comparable] struct {
	order  []S
	counts map[S]uint64
	total  uint64
}

// NewFrequencies creates an empty frequency table.
func NewFrequencies[S comparable]() *Frequencies[S] {
	return &Frequencies[S]{counts: make(map[S]uint64)}
}

// Analyze counts every symbol in symbols. An empty input yields an empty
// table.
func Analyze[S comparable](symbols []S) *Frequencies[S] {
	f := NewFrequencies[S]()
	for _, s := range symbols {
		f.Add(s, 1)
	}
	return f
}

// AnalyzeString counts the runes of s.
func AnalyzeString(s string) *Frequencies[rune] {
	f := NewFrequencies[rune]()
	for _, r := range s {
		f.Add(r, 1)
	}
	return f
}

// AnalyzeBytes counts the bytes of b.
func AnalyzeBytes(b []byte) *Frequencies[byte] {
	return Analyze(b)
}

// Add records n more occurrences of s. Adding zero is a no-op so that the
// table only ever holds positive counts.
func (f *Frequencies[S]) Add(s S, n uint64) {
	if n == 0 {
		return
	}
	if f.counts == nil {
		f.counts = make(map[S]uint64)
	}
	if _, ok := f.counts[s]; !ok {
		f.order = append(f.order, s)
	}
	f.counts[s] += n
	f.total += n
}

// Count returns the number of occurrences of s.
func (f *Frequencies[S]) Count(s S) uint64 {
	if f == nil {
		return 0
	}
	return f.counts[s]
}

// Len returns the number of distinct symbols.
func (f *Frequencies[S]) Len() int {
	if f == nil {
		return 0
	}
	return len(f.order)
}

// Total returns the sum of all counts, i.e. the input length in symbols.
func (f *Frequencies[S]) Total() uint64 {
	if f == nil {
		return 0
	}
	return f.total
}

// Symbols returns the distinct symbols in first-occurrence order.
func (f *Frequencies[S]) Symbols() []S {
	if f == nil {
		return nil
	}
	return append([]S(nil), f.order...)
}

// Map returns a copy of the counts.
func (f *Frequencies[S]) Map() map[S]uint64 {
	out := make(map[S]uint64, f.Len())
	if f == nil {
		return out
	}
	for s, n := range f.counts {
		out[s] = n
	}
	return out
}
