package huffman

// codebook is everything derived from one input. It is never modified after
// construction, so Models and the Cache may share it.
type codebook struct {
	freqs *Frequencies[rune]
	root  *Node[rune]
	table *CodeTable[rune]
}

func newCodebook(freqs *Frequencies[rune], kind QueueKind) *codebook {
	root := BuildWithQueue(freqs, newQueue[rune](kind))
	return &codebook{
		freqs: freqs,
		root:  root,
		table: NewCodeTable(root),
	}
}

// Model is a trained coding tree and code table for text. Symbols are runes.
type Model struct {
	config Config
	book   *codebook
}

// NewModel creates an untrained model with the provided options.
func NewModel(opts ...Option) *Model {
	return &Model{config: newConfig(opts)}
}

// TrainModel trains a model from text.
func TrainModel(text string, opts ...Option) (*Model, error) {
	m := NewModel(opts...)
	if err := m.Train(text); err != nil {
		return nil, err
	}
	return m, nil
}

// Train rebuilds the tree and code table from text, replacing whatever the
// model held before. Training on empty text leaves the model untrained.
func (m *Model) Train(text string) error {
	m.book = newCodebook(AnalyzeString(text), m.config.Queue)
	m.config.logger().Debug("trained model",
		"symbols", m.book.freqs.Len(),
		"runes", m.book.freqs.Total(),
	)
	return nil
}

// Trained reports whether the model has a tree.
func (m *Model) Trained() bool {
	return m.book != nil && m.book.root != nil
}

// Encode encodes text with the model's code table. Runes without a code are
// dropped with a warning, or rejected with ErrUnmappedSymbol in strict mode.
func (m *Model) Encode(text string) (string, error) {
	if !m.Trained() {
		if text == "" {
			return "", nil
		}
		return "", ErrUntrainedModel
	}
	runes := []rune(text)
	if m.config.Strict {
		return EncodeStrict(runes, m.book.table)
	}
	bits, dropped := Encode(runes, m.book.table)
	if dropped > 0 {
		m.config.logger().Warn("dropped runes missing from code table", "dropped", dropped)
	}
	return bits, nil
}

// Decode decodes bits by walking the model's tree. Incomplete trailing bits
// are dropped, or rejected with ErrTruncated in strict mode.
func (m *Model) Decode(bits string) (string, error) {
	if !m.Trained() {
		if bits == "" {
			return "", nil
		}
		return "", ErrUntrainedModel
	}
	if m.config.Strict {
		runes, err := DecodeStrict(bits, m.book.root)
		return string(runes), err
	}
	runes, dropped := Decode(bits, m.book.root)
	if dropped > 0 {
		m.config.logger().Debug("dropped trailing bits", "dropped", dropped)
	}
	return string(runes), nil
}

// Tree returns the root of the coding tree, or nil if untrained.
func (m *Model) Tree() *Node[rune] {
	if m.book == nil {
		return nil
	}
	return m.book.root
}

// CodeTable returns the code table. It is empty if the model is untrained.
func (m *Model) CodeTable() *CodeTable[rune] {
	if m.book == nil {
		return NewCodeTable[rune](nil)
	}
	return m.book.table
}

// Frequencies returns the rune counts the model was trained on.
func (m *Model) Frequencies() *Frequencies[rune] {
	if m.book == nil {
		return NewFrequencies[rune]()
	}
	return m.book.freqs
}

// Codes returns the code table keyed by the rune as a string.
func (m *Model) Codes() map[string]string {
	table := m.CodeTable()
	out := make(map[string]string, table.Len())
	for r, c := range table.codes {
		out[string(r)] = c
	}
	return out
}

// Record returns a snapshot of the tree with each leaf rendered as a string.
func (m *Model) Record() *TreeRecord[string] {
	return SerializeTree(m.Tree(), func(r rune) string { return string(r) })
}

// Stats reports the sizes for encoding text, which must be the text the
// model was trained on for the figures to be meaningful.
func (m *Model) Stats(text string) Stats {
	return NewStats(uint64(len(text)), EncodedLen(AnalyzeString(text), m.CodeTable()))
}
