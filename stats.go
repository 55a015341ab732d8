package huffman

import "math"

// Stats summarizes the effect of coding one input, or a batch of inputs
// when combined with Add.
type Stats struct {
	OriginalBytes   uint64 // Size of the raw input
	EncodedBits     uint64 // Length of the bit string
	CompressedBytes uint64 // EncodedBits rounded up to whole bytes
}

// CompressedBytes returns the number of bytes needed to hold bits bits.
func CompressedBytes(bits uint64) uint64 {
	n := bits / 8
	if bits%8 != 0 {
		n++
	}
	return n
}

// NewStats computes the stats of an input of originalBytes bytes that
// encoded to encodedBits bits.
func NewStats(originalBytes, encodedBits uint64) Stats {
	return Stats{
		OriginalBytes:   originalBytes,
		EncodedBits:     encodedBits,
		CompressedBytes: CompressedBytes(encodedBits),
	}
}

// Add accumulates o into s. Compressed sizes are summed per input, so a
// batch total counts one partial byte per input.
func (s *Stats) Add(o Stats) {
	s.OriginalBytes += o.OriginalBytes
	s.EncodedBits += o.EncodedBits
	s.CompressedBytes += o.CompressedBytes
}

// Ratio returns the space saving in percent, rounded to two decimals. It is
// 0 for an empty input and negative when the output is larger.
func (s Stats) Ratio() float64 {
	if s.OriginalBytes == 0 {
		return 0
	}
	saving := (1 - float64(s.CompressedBytes)/float64(s.OriginalBytes)) * 100
	return math.Round(saving*100) / 100
}
