package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/seiflotfy/huffman"
)

type decodeRequest struct {
	Encoded    string            `json:"encoded"`
	CodesTable map[string]string `json:"codes_table"`
}

type decodeResponse struct {
	Success bool   `json:"success"`
	Decoded string `json:"decoded"`
}

func decodeCommand() *cli.Command {
	return &cli.Command{
		Name:      "decode",
		Usage:     "decode {encoded, codes_table} JSON from FILE or stdin",
		ArgsUsage: "[FILE]",
		Action: func(cCtx *cli.Context) error {
			var r io.Reader = cCtx.App.Reader
			if path := cCtx.Args().First(); path != "" && path != "-" {
				f, err := os.Open(path)
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}
			decoded, err := decodeJSON(r, cCtx.Bool("strict"))
			if err != nil {
				return err
			}
			return json.NewEncoder(cCtx.App.Writer).Encode(decodeResponse{Success: true, Decoded: decoded})
		},
	}
}

func decodeJSON(r io.Reader, strict bool) (string, error) {
	var req decodeRequest
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return "", fmt.Errorf("parse request: %w", err)
	}
	if req.Encoded == "" || len(req.CodesTable) == 0 {
		return "", fmt.Errorf("missing encoded text or codes table")
	}
	table, err := huffman.CodeTableFromMap(req.CodesTable)
	if err != nil {
		return "", err
	}
	symbols, dropped := huffman.DecodeTable(req.Encoded, table)
	if strict && dropped > 0 {
		return "", fmt.Errorf("%w: %d bits did not match a code", huffman.ErrTruncated, dropped)
	}
	return strings.Join(symbols, ""), nil
}
