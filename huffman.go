// Package huffman builds prefix-free binary codes for symbol streams.
//
// The pipeline is Analyze → Build → NewCodeTable → Encode/Decode. Tree
// construction merges the two lightest subtrees through a
// mergequeue.Queue whose tie-break policy is fixed, so the same input
// always yields the same tree and the same code table.
//
// Bit strings are Go strings made of '0' and '1' bytes. Packing them into
// bytes is left to Archive.
package huffman

import (
	"errors"

	"github.com/seiflotfy/huffman/log"
)

// QueueKind selects the merge structure used during tree construction.
type QueueKind uint8

const (
	// QueueList is the sorted linked list. It is the default.
	QueueList QueueKind = iota
	// QueueHeap is a binary heap with the same removal order as QueueList.
	QueueHeap
)

// Config holds configuration for Model, Cache and Archive.
type Config struct {
	Strict bool        // Fail on unmapped symbols and malformed bit strings
	Queue  QueueKind   // Merge structure for tree construction
	Flate  bool        // Deflate the archived bitstream when it gets smaller
	Logger *log.Logger // Destination for diagnostics (nil = log.Default())
}

// Option is a functional option for configuring a Model.
type Option func(*Config)

// WithStrict turns silent drops into errors: Encode reports symbols missing
// from the code table and Decode reports invalid or incomplete codes.
func WithStrict(strict bool) Option {
	return func(c *Config) {
		c.Strict = strict
	}
}

// WithQueue selects the merge structure. Both kinds produce identical trees.
func WithQueue(kind QueueKind) Option {
	return func(c *Config) {
		c.Queue = kind
	}
}

// WithFlate makes archives try a deflated bitstream stage.
func WithFlate(enabled bool) Option {
	return func(c *Config) {
		c.Flate = enabled
	}
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(c *Config) {
		c.Logger = l
	}
}

func newConfig(opts []Option) Config {
	var cfg Config
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

func (c Config) logger() *log.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return log.Default().Module("huffman")
}

var (
	// ErrEmptyTree indicates a code table was requested for an absent tree.
	ErrEmptyTree = errors.New("huffman: empty tree")
	// ErrUntrainedModel indicates Encode or Decode was called before Train.
	ErrUntrainedModel = errors.New("huffman: model is not trained")
	// ErrUnmappedSymbol indicates a symbol has no code in the table.
	ErrUnmappedSymbol = errors.New("huffman: symbol not in code table")
	// ErrTruncated indicates trailing bits that do not complete a code.
	ErrTruncated = errors.New("huffman: truncated code")
	// ErrInvalidBit indicates a bit string byte that does not name a branch.
	ErrInvalidBit = errors.New("huffman: invalid bit")
	// ErrInvalidCode indicates a code table entry that is empty, not binary
	// or not prefix-free.
	ErrInvalidCode = errors.New("huffman: invalid code")
	// ErrInvalidUTF8 indicates archived text that would not survive the
	// round trip through runes.
	ErrInvalidUTF8 = errors.New("huffman: text is not valid UTF-8")
	// ErrMalformedTree indicates a tree record that violates node invariants.
	ErrMalformedTree = errors.New("huffman: malformed tree")
)
