package huffman

import (
	"bytes"
	"encoding/binary"
	"strings"
	"testing"
	"unicode/utf8"
)

const maxFuzzInputBytes = 1 << 14

func FuzzModelRoundTrip(f *testing.F) {
	f.Add("hello")
	f.Add("")
	f.Add("a")
	f.Add("aaaabbbcc")
	f.Add("hello世界")
	f.Add("🚀rocket")
	f.Add("tab\there")
	f.Add("null\x00byte")

	f.Fuzz(func(t *testing.T, input string) {
		if len(input) > maxFuzzInputBytes || !utf8.ValidString(input) {
			t.Skip()
		}
		for _, kind := range []QueueKind{QueueList, QueueHeap} {
			m, err := TrainModel(input, WithStrict(true), WithQueue(kind))
			if err != nil {
				t.Fatalf("TrainModel: %v", err)
			}
			bits, err := m.Encode(input)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			if uint64(len(bits)) != m.Stats(input).EncodedBits {
				t.Fatalf("len(bits) = %d, EncodedBits = %d", len(bits), m.Stats(input).EncodedBits)
			}
			got, err := m.Decode(bits)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if got != input {
				t.Fatalf("round trip = %q, want %q", got, input)
			}

			codes := m.CodeTable().Map()
			for a, ca := range codes {
				for b, cb := range codes {
					if a != b && strings.HasPrefix(cb, ca) {
						t.Fatalf("code %q of %q prefixes %q of %q", ca, a, cb, b)
					}
				}
			}
		}
	})
}

func FuzzArchiveRoundTrip(f *testing.F) {
	f.Add("hello", false)
	f.Add("", true)
	f.Add("aaaaaaaaaaaa", true)
	f.Add("null\x00byte", false)

	f.Fuzz(func(t *testing.T, input string, flate bool) {
		if len(input) > maxFuzzInputBytes || !utf8.ValidString(input) {
			t.Skip()
		}
		a, err := NewArchive(input, WithFlate(flate))
		if err != nil {
			t.Fatalf("NewArchive: %v", err)
		}
		data, err := a.MarshalBinary()
		if err != nil {
			t.Fatalf("MarshalBinary: %v", err)
		}
		var decoded Archive
		if _, err := decoded.ReadFrom(bytes.NewReader(data)); err != nil {
			t.Fatalf("ReadFrom: %v", err)
		}
		got, err := decoded.Decode()
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if got != input {
			t.Fatalf("round trip = %q, want %q", got, input)
		}
	})
}

func FuzzArchiveReadFrom(f *testing.F) {
	good, _ := NewArchive("abracadabra")
	data, _ := good.MarshalBinary()
	f.Add(data)
	f.Add([]byte(archiveMagic))
	f.Add(craftArchive(f, encodeFrequenciesStage(AnalyzeString("ab")), binary.AppendUvarint(nil, ^uint64(0))))
	f.Add([]byte{})

	f.Fuzz(func(t *testing.T, data []byte) {
		if len(data) > maxFuzzInputBytes {
			t.Skip()
		}
		var a Archive
		if err := a.UnmarshalBinary(data); err != nil {
			return
		}
		// Anything ReadFrom accepts must decode or fail cleanly.
		_, _ = a.Decode()
	})
}
