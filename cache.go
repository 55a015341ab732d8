package huffman

import (
	"encoding/binary"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Cache memoizes trained codebooks. Two texts share a codebook when their
// frequency tables agree on every count and on first-occurrence order,
// which is exactly when Build produces the same tree for both.
type Cache struct {
	config Config
	books  *lru.Cache[string, *codebook]
}

// NewCache creates a cache holding up to size codebooks. Models returned by
// the cache are configured with opts.
func NewCache(size int, opts ...Option) (*Cache, error) {
	books, err := lru.New[string, *codebook](size)
	if err != nil {
		return nil, err
	}
	return &Cache{config: newConfig(opts), books: books}, nil
}

// Model returns a model trained on text, reusing a cached codebook when one
// matches. Calling Train on the returned model replaces its codebook without
// touching the cached one.
func (c *Cache) Model(text string) *Model {
	freqs := AnalyzeString(text)
	key := fingerprint(freqs)
	book, ok := c.books.Get(key)
	if !ok {
		book = newCodebook(freqs, c.config.Queue)
		c.books.Add(key, book)
	}
	c.config.logger().Debug("cache lookup", "hit", ok, "symbols", freqs.Len())
	return &Model{config: c.config, book: book}
}

// Len returns the number of cached codebooks.
func (c *Cache) Len() int { return c.books.Len() }

// Purge drops every cached codebook.
func (c *Cache) Purge() { c.books.Purge() }

// fingerprint serializes f as uvarint (symbol, count) pairs in
// first-occurrence order.
func fingerprint(f *Frequencies[rune]) string {
	buf := make([]byte, 0, f.Len()*4)
	for _, r := range f.order {
		buf = binary.AppendUvarint(buf, uint64(r))
		buf = binary.AppendUvarint(buf, f.counts[r])
	}
	return string(buf)
}
