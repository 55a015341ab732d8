package huffman

import (
	"bytes"
	"compress/flate"
	"encoding/binary"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/icza/bitio"
)

const (
	archiveMagic   = "HUFA"
	archiveVersion = uint16(1)

	stageFrequencies = "frequencies"
	stageBitstream   = "bitstream"

	stageBitstreamParamRaw   = uint8(0) // uvarint bit length + packed bits
	stageBitstreamParamFlate = uint8(1) // flate(raw payload)

	maxArchiveStages     = 64
	maxStagePayloadBytes = 1 << 30 // 1 GiB
	maxArchiveSymbols    = utf8.MaxRune + 1
	maxArchiveBits       = uint64(maxStagePayloadBytes) * 8
)

// Wire format (version 1):
//
//	magic[4] = "HUFA"
//	version  = uint16 little-endian
//	stageCnt = uint16 little-endian
//	repeat stageCnt times:
//	  nameLen  = uint8
//	  paramLen = uint16 little-endian
//	  dataLen  = uint32 little-endian
//	  name     = nameLen bytes
//	  params   = paramLen bytes
//	  payload  = dataLen bytes
//
// Required stage names:
//
//	frequencies: uvarint n, then n × (uvarint rune, uvarint count) in
//	             first-occurrence order
//	bitstream:   uvarint bit length, then the bits packed MSB-first and
//	             zero-padded to a byte boundary
//
// Unknown stages are skipped via dataLen framing.
type wireStageHeader struct {
	name     string
	paramLen uint16
	dataLen  uint32
}

func writeBytes(w io.Writer, b []byte) (int64, error) {
	n, err := w.Write(b)
	if err != nil {
		return int64(n), err
	}
	if n != len(b) {
		return int64(n), io.ErrShortWrite
	}
	return int64(n), nil
}

func writeStage(w io.Writer, name string, params []byte, payload []byte) (int64, error) {
	if len(name) == 0 || len(name) > 255 {
		return 0, fmt.Errorf("invalid stage name length: %d", len(name))
	}
	if len(params) > int(^uint16(0)) {
		return 0, fmt.Errorf("stage params too large for %q: %d", name, len(params))
	}
	if len(payload) > maxStagePayloadBytes {
		return 0, fmt.Errorf("stage payload too large for %q: %d", name, len(payload))
	}

	var hdr [7]byte
	hdr[0] = uint8(len(name))
	binary.LittleEndian.PutUint16(hdr[1:3], uint16(len(params)))
	binary.LittleEndian.PutUint32(hdr[3:7], uint32(len(payload)))

	var total int64
	for _, part := range [][]byte{hdr[:], []byte(name), params, payload} {
		n, err := writeBytes(w, part)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func readStageHeader(r io.Reader) (wireStageHeader, int64, error) {
	var hdr [7]byte
	n, err := io.ReadFull(r, hdr[:])
	total := int64(n)
	if err != nil {
		return wireStageHeader{}, total, err
	}
	nameLen := hdr[0]
	if nameLen == 0 {
		return wireStageHeader{}, total, fmt.Errorf("stage name length must be > 0")
	}
	paramLen := binary.LittleEndian.Uint16(hdr[1:3])
	dataLen := binary.LittleEndian.Uint32(hdr[3:7])
	if dataLen > uint32(maxStagePayloadBytes) {
		return wireStageHeader{}, total, fmt.Errorf("stage payload too large: %d", dataLen)
	}

	nameBytes := make([]byte, int(nameLen))
	n, err = io.ReadFull(r, nameBytes)
	total += int64(n)
	if err != nil {
		return wireStageHeader{}, total, err
	}

	return wireStageHeader{
		name:     string(nameBytes),
		paramLen: paramLen,
		dataLen:  dataLen,
	}, total, nil
}

// Archive is a self-contained encoding of one text: the frequency table the
// tree is rebuilt from and the packed bit string.
type Archive struct {
	Frequencies *Frequencies[rune] // Counts in first-occurrence order
	BitLen      uint64             // Number of meaningful bits in Packed
	Packed      []byte             // Bits MSB-first, zero-padded

	flate bool
}

// Archive encodes text, which must be valid UTF-8 and only contain runes
// the model knows, into an Archive. The model's frequencies travel with the
// archive.
func (m *Model) Archive(text string) (*Archive, error) {
	if !utf8.ValidString(text) {
		return nil, ErrInvalidUTF8
	}
	if !m.Trained() && text != "" {
		return nil, ErrUntrainedModel
	}
	bits, err := EncodeStrict([]rune(text), m.CodeTable())
	if err != nil {
		return nil, err
	}
	packed, err := PackBits(bits)
	if err != nil {
		return nil, err
	}
	return &Archive{
		Frequencies: m.Frequencies(),
		BitLen:      uint64(len(bits)),
		Packed:      packed,
		flate:       m.config.Flate,
	}, nil
}

// NewArchive trains a model on text and archives it. Text that is not
// valid UTF-8 is rejected with ErrInvalidUTF8.
func NewArchive(text string, opts ...Option) (*Archive, error) {
	if !utf8.ValidString(text) {
		return nil, ErrInvalidUTF8
	}
	m, err := TrainModel(text, opts...)
	if err != nil {
		return nil, err
	}
	return m.Archive(text)
}

// Model rebuilds the model the archive was encoded with.
func (a *Archive) Model(opts ...Option) *Model {
	cfg := newConfig(opts)
	freqs := a.Frequencies
	if freqs == nil {
		freqs = NewFrequencies[rune]()
	}
	return &Model{config: cfg, book: newCodebook(freqs, cfg.Queue)}
}

// Decode rebuilds the tree from the archived frequencies and decodes the
// bitstream. Any malformed or incomplete code is an error.
func (a *Archive) Decode(opts ...Option) (string, error) {
	m := a.Model(opts...)
	bits, err := UnpackBits(a.Packed, a.BitLen)
	if err != nil {
		return "", err
	}
	runes, err := DecodeStrict(bits, m.Tree())
	if err != nil {
		return "", err
	}
	if want := m.Frequencies().Total(); uint64(len(runes)) != want {
		return "", fmt.Errorf("%w: decoded %d runes, archive holds %d", ErrTruncated, len(runes), want)
	}
	return string(runes), nil
}

// SpaceUsed returns the number of payload bytes held by the archive.
func (a *Archive) SpaceUsed() int {
	return len(encodeFrequenciesStage(a.Frequencies)) + len(a.Packed)
}

// PackBits packs a '0'/'1' bit string MSB-first into bytes, zero-padding
// the last byte.
func PackBits(bits string) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(int(CompressedBytes(uint64(len(bits)))))
	w := bitio.NewWriter(&buf)
	for start := 0; start < len(bits); start += 64 {
		chunk := bits[start:min(start+64, len(bits))]
		var v uint64
		for i := 0; i < len(chunk); i++ {
			v <<= 1
			switch chunk[i] {
			case '0':
			case '1':
				v |= 1
			default:
				return nil, fmt.Errorf("%w at offset %d: %q", ErrInvalidBit, start+i, chunk[i])
			}
		}
		if err := w.WriteBits(v, uint8(len(chunk))); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnpackBits is the inverse of PackBits for a bit string of n bits.
func UnpackBits(packed []byte, n uint64) (string, error) {
	if n > maxArchiveBits {
		return "", fmt.Errorf("%w: %d bits exceed the %d bit limit", ErrTruncated, n, maxArchiveBits)
	}
	if need := CompressedBytes(n); uint64(len(packed)) != need {
		return "", fmt.Errorf("%w: %d bits need %d bytes, have %d", ErrTruncated, n, need, len(packed))
	}
	r := bitio.NewReader(bytes.NewReader(packed))
	out := make([]byte, 0, n)
	for remaining := n; remaining > 0; {
		k := min(remaining, 64)
		v, err := r.ReadBits(uint8(k))
		if err != nil {
			return "", err
		}
		for i := int(k) - 1; i >= 0; i-- {
			out = append(out, '0'+byte(v>>uint(i)&1))
		}
		remaining -= k
	}
	return string(out), nil
}

func encodeFrequenciesStage(f *Frequencies[rune]) []byte {
	buf := binary.AppendUvarint(nil, uint64(f.Len()))
	for _, r := range f.Symbols() {
		buf = binary.AppendUvarint(buf, uint64(r))
		buf = binary.AppendUvarint(buf, f.Count(r))
	}
	return buf
}

func decodeFrequenciesStage(payload []byte) (*Frequencies[rune], error) {
	count, n := binary.Uvarint(payload)
	if n <= 0 {
		return nil, fmt.Errorf("frequencies payload missing symbol count")
	}
	if count > maxArchiveSymbols {
		return nil, fmt.Errorf("symbol count too large: %d", count)
	}
	offset := n
	f := NewFrequencies[rune]()
	for i := uint64(0); i < count; i++ {
		sym, n := binary.Uvarint(payload[offset:])
		if n <= 0 {
			return nil, fmt.Errorf("invalid symbol at entry %d", i)
		}
		offset += n
		if sym > utf8.MaxRune || !utf8.ValidRune(rune(sym)) {
			return nil, fmt.Errorf("symbol out of range at entry %d: %d", i, sym)
		}
		cnt, n := binary.Uvarint(payload[offset:])
		if n <= 0 {
			return nil, fmt.Errorf("invalid count at entry %d", i)
		}
		offset += n
		if cnt == 0 {
			return nil, fmt.Errorf("zero count at entry %d", i)
		}
		if f.Count(rune(sym)) != 0 {
			return nil, fmt.Errorf("duplicate symbol at entry %d: %d", i, sym)
		}
		f.Add(rune(sym), cnt)
	}
	if offset != len(payload) {
		return nil, fmt.Errorf("frequencies trailing bytes: %d", len(payload)-offset)
	}
	return f, nil
}

func encodeBitstreamStage(a *Archive) ([]byte, uint8, error) {
	raw := binary.AppendUvarint(nil, a.BitLen)
	raw = append(raw, a.Packed...)
	if !a.flate {
		return raw, stageBitstreamParamRaw, nil
	}
	deflated, err := encodeFlatePayload(raw)
	if err != nil {
		return nil, 0, err
	}
	if len(deflated) < len(raw) {
		return deflated, stageBitstreamParamFlate, nil
	}
	return raw, stageBitstreamParamRaw, nil
}

func decodeBitstreamStage(dst *Archive, params []byte, payload []byte) error {
	if len(params) != 1 {
		return fmt.Errorf("invalid bitstream params: %v", params)
	}
	switch params[0] {
	case stageBitstreamParamRaw:
	case stageBitstreamParamFlate:
		raw, err := decodeFlatePayload(payload)
		if err != nil {
			return err
		}
		payload = raw
		dst.flate = true
	default:
		return fmt.Errorf("invalid bitstream params: %v", params)
	}
	bitLen, n := binary.Uvarint(payload)
	if n <= 0 {
		return fmt.Errorf("bitstream payload missing bit length")
	}
	if bitLen > maxArchiveBits {
		return fmt.Errorf("bit length too large: %d", bitLen)
	}
	packed := payload[n:]
	if need := CompressedBytes(bitLen); uint64(len(packed)) != need {
		return fmt.Errorf("bitstream length mismatch: payload=%d expected=%d", len(packed), need)
	}
	dst.BitLen = bitLen
	dst.Packed = append([]byte(nil), packed...)
	return nil
}

func encodeFlatePayload(raw []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.BestCompression)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(raw); err != nil {
		_ = w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeFlatePayload(payload []byte) ([]byte, error) {
	r := flate.NewReader(bytes.NewReader(payload))
	defer r.Close()

	limited := io.LimitReader(r, maxStagePayloadBytes+1)
	raw, err := io.ReadAll(limited)
	if err != nil {
		return nil, err
	}
	if len(raw) > maxStagePayloadBytes {
		return nil, fmt.Errorf("flate payload expands beyond limit")
	}
	return raw, nil
}

func validateArchiveStructure(a *Archive) error {
	if a.Frequencies == nil {
		return fmt.Errorf("missing frequencies")
	}
	if a.BitLen > maxArchiveBits {
		return fmt.Errorf("bit length too large: %d", a.BitLen)
	}
	if need := CompressedBytes(a.BitLen); uint64(len(a.Packed)) != need {
		return fmt.Errorf("packed length %d does not hold %d bits", len(a.Packed), a.BitLen)
	}
	if a.Frequencies.Len() == 0 && a.BitLen != 0 {
		return fmt.Errorf("%d bits without symbols", a.BitLen)
	}
	return nil
}

// WriteTo serializes the Archive to an io.Writer.
func (a *Archive) WriteTo(w io.Writer) (int64, error) {
	if err := validateArchiveStructure(a); err != nil {
		return 0, fmt.Errorf("invalid archive: %w", err)
	}

	bitstreamPayload, bitstreamParam, err := encodeBitstreamStage(a)
	if err != nil {
		return 0, err
	}
	stages := []struct {
		name    string
		params  []byte
		payload []byte
	}{
		{
			name:    stageFrequencies,
			payload: encodeFrequenciesStage(a.Frequencies),
		},
		{
			name:    stageBitstream,
			params:  []byte{bitstreamParam},
			payload: bitstreamPayload,
		},
	}

	var hdr [8]byte
	copy(hdr[:4], archiveMagic)
	binary.LittleEndian.PutUint16(hdr[4:6], archiveVersion)
	binary.LittleEndian.PutUint16(hdr[6:8], uint16(len(stages)))
	total, err := writeBytes(w, hdr[:])
	if err != nil {
		return total, err
	}

	for _, stage := range stages {
		n, err := writeStage(w, stage.name, stage.params, stage.payload)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// ReadFrom deserializes an Archive from an io.Reader.
func (a *Archive) ReadFrom(r io.Reader) (int64, error) {
	var total int64
	var magic [4]byte
	n, err := io.ReadFull(r, magic[:])
	total += int64(n)
	if err != nil {
		return total, fmt.Errorf("read archive magic at offset 0: %w", err)
	}
	if string(magic[:]) != archiveMagic {
		return total, fmt.Errorf("invalid archive magic at offset 0: %q", string(magic[:]))
	}

	var version uint16
	versionOffset := total
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return total, fmt.Errorf("read archive version at offset %d: %w", versionOffset, err)
	}
	total += 2
	if version != archiveVersion {
		return total, fmt.Errorf("unsupported archive version at offset %d: %d", versionOffset, version)
	}

	var stageCount uint16
	stageCountOffset := total
	if err := binary.Read(r, binary.LittleEndian, &stageCount); err != nil {
		return total, fmt.Errorf("read stage count at offset %d: %w", stageCountOffset, err)
	}
	total += 2
	if stageCount == 0 || stageCount > maxArchiveStages {
		return total, fmt.Errorf("invalid stage count at offset %d: %d", stageCountOffset, stageCount)
	}

	var tmp Archive
	seenStages := make(map[string]bool, stageCount)
	for i := 0; i < int(stageCount); i++ {
		headerOffset := total
		header, n, err := readStageHeader(r)
		total += n
		if err != nil {
			return total, fmt.Errorf("read stage header at offset %d (stage index %d): %w", headerOffset, i, err)
		}
		if seenStages[header.name] {
			return total, fmt.Errorf("duplicate stage %q at stage index %d", header.name, i)
		}

		params := make([]byte, int(header.paramLen))
		paramsOffset := total
		nParams, err := io.ReadFull(r, params)
		total += int64(nParams)
		if err != nil {
			return total, fmt.Errorf("read stage %q params at offset %d (stage index %d): %w", header.name, paramsOffset, i, err)
		}

		switch header.name {
		case stageFrequencies, stageBitstream:
			payload := make([]byte, int(header.dataLen))
			payloadOffset := total
			nPayload, err := io.ReadFull(r, payload)
			total += int64(nPayload)
			if err != nil {
				return total, fmt.Errorf("read stage %q payload at offset %d (stage index %d): %w", header.name, payloadOffset, i, err)
			}

			switch header.name {
			case stageFrequencies:
				freqs, err := decodeFrequenciesStage(payload)
				if err != nil {
					return total, fmt.Errorf("decode stage %q at offset %d (stage index %d): %w", header.name, payloadOffset, i, err)
				}
				tmp.Frequencies = freqs
			case stageBitstream:
				if err := decodeBitstreamStage(&tmp, params, payload); err != nil {
					return total, fmt.Errorf("decode stage %q at offset %d (stage index %d): %w", header.name, payloadOffset, i, err)
				}
			}
			seenStages[header.name] = true

		default:
			skipOffset := total
			skipped, err := io.CopyN(io.Discard, r, int64(header.dataLen))
			total += skipped
			if err != nil {
				return total, fmt.Errorf("skip unknown stage %q at offset %d (stage index %d): %w", header.name, skipOffset, i, err)
			}
		}
	}

	for _, stageName := range []string{stageFrequencies, stageBitstream} {
		if !seenStages[stageName] {
			return total, fmt.Errorf("missing required stage %q", stageName)
		}
	}
	if err := validateArchiveStructure(&tmp); err != nil {
		return total, fmt.Errorf("invalid archive structure: %w", err)
	}

	*a = tmp
	return total, nil
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (a *Archive) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := a.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (a *Archive) UnmarshalBinary(data []byte) error {
	_, err := a.ReadFrom(bytes.NewReader(data))
	return err
}
