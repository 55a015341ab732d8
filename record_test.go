package huffman

import (
	"encoding/json"
	"errors"
	"maps"
	"strings"
	"testing"
)

func TestModelRecordJSON(t *testing.T) {
	m, err := TrainModel("ab")
	if err != nil {
		t.Fatalf("TrainModel: %v", err)
	}
	out, err := json.Marshal(m.Record())
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"freq":2,"char":null,"left":{"freq":1,"char":"b"},"right":{"freq":1,"char":"a"}}`
	if string(out) != want {
		t.Fatalf("JSON = %s\nwant   %s", out, want)
	}
}

func TestRecordNilTree(t *testing.T) {
	if rec := Record[rune](nil); rec != nil {
		t.Fatalf("Record(nil) = %+v, want nil", rec)
	}
	root, err := RestoreTree[rune](nil)
	if root != nil || err != nil {
		t.Fatalf("RestoreTree(nil) = %v, %v", root, err)
	}
}

func TestRestoreTreeRoundTrip(t *testing.T) {
	in := "the quick brown fox jumps over the lazy dog"
	root := Build(AnalyzeString(in))

	data, err := json.Marshal(Record(root))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var rec TreeRecord[rune]
	if err := json.Unmarshal(data, &rec); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	restored, err := RestoreTree(&rec)
	if err != nil {
		t.Fatalf("RestoreTree: %v", err)
	}
	if got, want := NewCodeTable(restored).Map(), NewCodeTable(root).Map(); !maps.Equal(got, want) {
		t.Fatalf("restored codes differ:\n%v\n%v", got, want)
	}
	if restored.Weight() != root.Weight() {
		t.Fatalf("restored weight %d, want %d", restored.Weight(), root.Weight())
	}
}

func TestRestoreTreeRejectsMalformed(t *testing.T) {
	sym := func(s string) *string { return &s }
	cases := []struct {
		name string
		rec  *TreeRecord[string]
		path string
	}{
		{
			name: "leaf without symbol",
			rec:  &TreeRecord[string]{Weight: 1},
			path: `""`,
		},
		{
			name: "one child",
			rec: &TreeRecord[string]{
				Weight: 1,
				Left:   &TreeRecord[string]{Weight: 1, Symbol: sym("a")},
			},
			path: `""`,
		},
		{
			name: "internal with symbol",
			rec: &TreeRecord[string]{
				Weight: 2,
				Symbol: sym("x"),
				Left:   &TreeRecord[string]{Weight: 1, Symbol: sym("a")},
				Right:  &TreeRecord[string]{Weight: 1, Symbol: sym("b")},
			},
			path: `""`,
		},
		{
			name: "weight mismatch",
			rec: &TreeRecord[string]{
				Weight: 4,
				Left:   &TreeRecord[string]{Weight: 1, Symbol: sym("a")},
				Right: &TreeRecord[string]{
					Weight: 3,
					Left:   &TreeRecord[string]{Weight: 1, Symbol: sym("b")},
					Right:  &TreeRecord[string]{Weight: 1, Symbol: sym("c")},
				},
			},
			path: `"1"`,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := RestoreTree(tc.rec)
			if !errors.Is(err, ErrMalformedTree) {
				t.Fatalf("err = %v, want ErrMalformedTree", err)
			}
			if !strings.Contains(err.Error(), "at "+tc.path) {
				t.Fatalf("error %q does not name path %s", err, tc.path)
			}
		})
	}
}

func TestSerializeTreeDeepTree(t *testing.T) {
	// Fibonacci weights give the most skewed tree possible.
	f := NewFrequencies[int]()
	a, b := uint64(1), uint64(1)
	for i := 0; i < 80; i++ {
		f.Add(i, a)
		a, b = b, a+b
	}
	root := Build(f)
	rec := Record(root)
	restored, err := RestoreTree(rec)
	if err != nil {
		t.Fatalf("RestoreTree: %v", err)
	}
	table := NewCodeTable(restored)
	longest := 0
	for _, c := range table.Map() {
		longest = max(longest, len(c))
	}
	if longest != 79 {
		t.Fatalf("longest code = %d, want 79", longest)
	}
}
