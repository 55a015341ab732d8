package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/urfave/cli/v2"

	"github.com/seiflotfy/huffman"
	"github.com/seiflotfy/huffman/log"
)

const (
	previewBits   = 1000
	codebookCache = 64
)

var (
	errInvalidType = errors.New("Invalid file type. Only .txt files are allowed.")
	errNotUTF8     = errors.New("file is not valid UTF-8")
)

type fileReport struct {
	Filename         string                      `json:"filename"`
	OriginalSize     uint64                      `json:"original_size"`
	CompressedSize   uint64                      `json:"compressed_size"`
	CompressionRatio float64                     `json:"compression_ratio"`
	CodesTable       map[string]string           `json:"codes_table"`
	TreeStructure    *huffman.TreeRecord[string] `json:"tree_structure"`
	Encoded          string                      `json:"encoded"`
	EncodedFull      string                      `json:"encoded_full"`
}

type fileError struct {
	Filename string `json:"filename"`
	Error    string `json:"error"`
}

type compressReport struct {
	Success               bool    `json:"success"`
	Results               []any   `json:"results"`
	TotalOriginalSize     uint64  `json:"total_original_size"`
	TotalCompressedSize   uint64  `json:"total_compressed_size"`
	TotalCompressionRatio float64 `json:"total_compression_ratio"`
}

func compressCommand() *cli.Command {
	return &cli.Command{
		Name:      "compress",
		Usage:     "encode .txt files and print a JSON report",
		ArgsUsage: "FILE...",
		Flags: []cli.Flag{
			&cli.Int64Flag{
				Name:  "max-size",
				Value: defaultMaxSize,
				Usage: "reject files larger than this many bytes",
			},
		},
		Action: func(cCtx *cli.Context) error {
			if cCtx.NArg() == 0 {
				return fmt.Errorf("no files selected")
			}
			cache, err := huffman.NewCache(codebookCache, options(cCtx)...)
			if err != nil {
				return err
			}
			report := compressFiles(cache, cCtx.Args().Slice(), cCtx.Int64("max-size"))
			enc := json.NewEncoder(cCtx.App.Writer)
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		},
	}
}

func compressFiles(cache *huffman.Cache, paths []string, maxSize int64) compressReport {
	logger := log.Default().Module("compress")
	report := compressReport{Success: true, Results: make([]any, 0, len(paths))}
	var total huffman.Stats
	for _, path := range paths {
		name := filepath.Base(path)
		fileLog := logger.With("file", path)
		res, stats, err := compressFile(cache, path, maxSize)
		if err != nil {
			fileLog.Warn("skipping file", "err", err)
			report.Results = append(report.Results, fileError{Filename: name, Error: err.Error()})
			continue
		}
		fileLog.Info("compressed file",
			"original", stats.OriginalBytes,
			"compressed", stats.CompressedBytes,
			"ratio", stats.Ratio(),
		)
		total.Add(stats)
		report.Results = append(report.Results, res)
	}
	report.TotalOriginalSize = total.OriginalBytes
	report.TotalCompressedSize = total.CompressedBytes
	report.TotalCompressionRatio = total.Ratio()
	return report
}

func compressFile(cache *huffman.Cache, path string, maxSize int64) (*fileReport, huffman.Stats, error) {
	if !strings.EqualFold(filepath.Ext(path), ".txt") {
		return nil, huffman.Stats{}, errInvalidType
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, huffman.Stats{}, err
	}
	if info.Size() > maxSize {
		return nil, huffman.Stats{}, fmt.Errorf("file is %d bytes, limit is %d", info.Size(), maxSize)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, huffman.Stats{}, err
	}
	if !utf8.Valid(data) {
		return nil, huffman.Stats{}, errNotUTF8
	}

	text := string(data)
	m := cache.Model(text)
	encoded, err := m.Encode(text)
	if err != nil {
		return nil, huffman.Stats{}, err
	}
	stats := huffman.NewStats(uint64(len(data)), uint64(len(encoded)))

	preview := encoded
	if len(preview) > previewBits {
		preview = preview[:previewBits] + "..."
	}
	return &fileReport{
		Filename:         filepath.Base(path),
		OriginalSize:     stats.OriginalBytes,
		CompressedSize:   stats.CompressedBytes,
		CompressionRatio: stats.Ratio(),
		CodesTable:       m.Codes(),
		TreeStructure:    m.Record(),
		Encoded:          preview,
		EncodedFull:      encoded,
	}, stats, nil
}
