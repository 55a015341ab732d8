package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = run(args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestRunVersion(t *testing.T) {
	code, stdout, _ := runCLI(t, "--version")
	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if !strings.Contains(stdout, version) {
		t.Fatalf("version output %q does not contain %q", stdout, version)
	}
}

func TestCompressReport(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "a.txt", "aaaabbbcc")
	bad := writeFile(t, dir, "b.csv", "x,y")

	code, stdout, stderr := runCLI(t, "--log-level", "error", "compress", good, bad)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr)
	}

	var report struct {
		Success               bool              `json:"success"`
		Results               []json.RawMessage `json:"results"`
		TotalOriginalSize     uint64            `json:"total_original_size"`
		TotalCompressedSize   uint64            `json:"total_compressed_size"`
		TotalCompressionRatio float64           `json:"total_compression_ratio"`
	}
	if err := json.Unmarshal([]byte(stdout), &report); err != nil {
		t.Fatalf("unmarshal report: %v\n%s", err, stdout)
	}
	if !report.Success || len(report.Results) != 2 {
		t.Fatalf("report = %+v", report)
	}
	if report.TotalOriginalSize != 9 || report.TotalCompressedSize != 2 || report.TotalCompressionRatio != 77.78 {
		t.Fatalf("totals = %d/%d/%v, want 9/2/77.78",
			report.TotalOriginalSize, report.TotalCompressedSize, report.TotalCompressionRatio)
	}

	var first fileReport
	if err := json.Unmarshal(report.Results[0], &first); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
	if first.Filename != "a.txt" || first.EncodedFull != "00001111111010" || first.Encoded != first.EncodedFull {
		t.Fatalf("result = %+v", first)
	}
	if first.CodesTable["a"] != "0" || first.CodesTable["b"] != "11" || first.CodesTable["c"] != "10" {
		t.Fatalf("codes_table = %v", first.CodesTable)
	}
	if first.TreeStructure == nil || first.TreeStructure.Weight != 9 {
		t.Fatalf("tree_structure = %+v", first.TreeStructure)
	}

	var second fileError
	if err := json.Unmarshal(report.Results[1], &second); err != nil {
		t.Fatalf("unmarshal error result: %v", err)
	}
	if second.Filename != "b.csv" || second.Error != errInvalidType.Error() {
		t.Fatalf("error result = %+v", second)
	}
}

func TestCompressTruncatesPreview(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "long.txt", strings.Repeat("ab", 800))

	code, stdout, stderr := runCLI(t, "--log-level", "error", "compress", path)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr)
	}
	var report struct {
		Results []fileReport `json:"results"`
	}
	if err := json.Unmarshal([]byte(stdout), &report); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	r := report.Results[0]
	if len(r.EncodedFull) != 1600 {
		t.Fatalf("len(encoded_full) = %d, want 1600", len(r.EncodedFull))
	}
	if r.Encoded != r.EncodedFull[:previewBits]+"..." {
		t.Fatalf("preview not truncated to %d bits", previewBits)
	}
}

func TestCompressMaxSize(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "big.txt", strings.Repeat("x", 64))

	code, stdout, _ := runCLI(t, "--log-level", "error", "compress", "--max-size", "10", path)
	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.Contains(stdout, `"error": "file is 64 bytes, limit is 10"`) {
		t.Fatalf("expected size error, got %s", stdout)
	}
}

func TestCompressNoFiles(t *testing.T) {
	code, _, stderr := runCLI(t, "compress")
	if code == 0 {
		t.Fatalf("expected failure without files")
	}
	if !strings.Contains(stderr, "no files selected") {
		t.Fatalf("stderr = %s", stderr)
	}
}

func TestDecodeCommand(t *testing.T) {
	dir := t.TempDir()
	req := writeFile(t, dir, "req.json",
		`{"encoded":"01001110","codes_table":{"a":"01","b":"00","c":"11","d":"10"}}`)

	code, stdout, stderr := runCLI(t, "decode", req)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr)
	}
	var resp decodeResponse
	if err := json.Unmarshal([]byte(stdout), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !resp.Success || resp.Decoded != "abcd" {
		t.Fatalf("response = %+v", resp)
	}
}

func TestDecodeJSON(t *testing.T) {
	table := `"codes_table":{"a":"0","b":"11","c":"10"}`

	got, err := decodeJSON(strings.NewReader(`{"encoded":"0111",`+table+`}`), false)
	if err != nil || got != "ab" {
		t.Fatalf("lenient decode = %q, %v", got, err)
	}
	if _, err := decodeJSON(strings.NewReader(`{"encoded":"0111",`+table+`}`), true); err == nil {
		t.Fatalf("strict decode accepted trailing bits")
	}
	if _, err := decodeJSON(strings.NewReader(`{`+table+`}`), false); err == nil {
		t.Fatalf("accepted request without encoded text")
	}
	if _, err := decodeJSON(strings.NewReader(`{"encoded":"01"}`), false); err == nil {
		t.Fatalf("accepted request without codes table")
	}
	if _, err := decodeJSON(strings.NewReader(`{"encoded":"01","codes_table":{"a":"0","b":"01"}}`), false); err == nil {
		t.Fatalf("accepted a table that is not prefix-free")
	}
}

func TestPackUnpack(t *testing.T) {
	dir := t.TempDir()
	text := strings.Repeat("the quick brown fox jumps over the lazy dog\n", 40) + "✓"
	in := writeFile(t, dir, "in.txt", text)
	packed := filepath.Join(dir, "in.huf")
	out := filepath.Join(dir, "out.txt")

	for _, flags := range [][]string{nil, {"--flate"}} {
		args := append([]string{"--log-level", "error", "pack"}, flags...)
		if code, _, stderr := runCLI(t, append(args, in, packed)...); code != 0 {
			t.Fatalf("pack %v: exit %d, stderr: %s", flags, code, stderr)
		}
		if code, _, stderr := runCLI(t, "--log-level", "error", "unpack", packed, out); code != 0 {
			t.Fatalf("unpack: exit %d, stderr: %s", code, stderr)
		}
		got, err := os.ReadFile(out)
		if err != nil {
			t.Fatalf("read output: %v", err)
		}
		if string(got) != text {
			t.Fatalf("unpacked text differs (%d vs %d bytes)", len(got), len(text))
		}
	}
}

func TestUnpackRejectsGarbage(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "junk.huf", "not an archive")
	code, _, stderr := runCLI(t, "unpack", in, filepath.Join(dir, "out.txt"))
	if code == 0 {
		t.Fatalf("unpack accepted garbage")
	}
	if !strings.Contains(stderr, "magic") {
		t.Fatalf("stderr = %s", stderr)
	}
}

func TestLogLevelDebug(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "a.txt", "abc")
	bad := writeFile(t, dir, "b.md", "abc")

	code, _, stderr := runCLI(t, "--log-level", "debug", "compress", good, bad)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr)
	}
	for _, want := range []string{`"msg":"starting"`, `"msg":"compressed file"`, `"file":"` + bad + `"`} {
		if !strings.Contains(stderr, want) {
			t.Fatalf("stderr missing %s:\n%s", want, stderr)
		}
	}
}
