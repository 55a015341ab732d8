package main

import (
	"bufio"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/urfave/cli/v2"

	"github.com/seiflotfy/huffman"
	"github.com/seiflotfy/huffman/log"
)

func packCommand() *cli.Command {
	return &cli.Command{
		Name:      "pack",
		Usage:     "write a binary archive of a text file",
		ArgsUsage: "IN OUT",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "flate",
				Usage: "deflate the bitstream stage when it gets smaller",
			},
		},
		Action: func(cCtx *cli.Context) error {
			if cCtx.NArg() != 2 {
				return fmt.Errorf("pack needs IN and OUT, got %d arguments", cCtx.NArg())
			}
			opts := append(options(cCtx), huffman.WithFlate(cCtx.Bool("flate")))
			return packFile(cCtx.Args().Get(0), cCtx.Args().Get(1), opts...)
		},
	}
}

func unpackCommand() *cli.Command {
	return &cli.Command{
		Name:      "unpack",
		Usage:     "restore a text file from a binary archive",
		ArgsUsage: "IN OUT",
		Action: func(cCtx *cli.Context) error {
			if cCtx.NArg() != 2 {
				return fmt.Errorf("unpack needs IN and OUT, got %d arguments", cCtx.NArg())
			}
			return unpackFile(cCtx.Args().Get(0), cCtx.Args().Get(1), options(cCtx)...)
		},
	}
}

func packFile(in, out string, opts ...huffman.Option) error {
	data, err := os.ReadFile(in)
	if err != nil {
		return err
	}
	if !utf8.Valid(data) {
		return fmt.Errorf("archive %s: %w", in, errNotUTF8)
	}
	a, err := huffman.NewArchive(string(data), opts...)
	if err != nil {
		return fmt.Errorf("archive %s: %w", in, err)
	}
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	n, err := a.WriteTo(w)
	if err == nil {
		err = w.Flush()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	log.Default().Module("pack").Info("packed file",
		"in", in,
		"out", out,
		"original", len(data),
		"archive", n,
		"bits", a.BitLen,
	)
	return nil
}

func unpackFile(in, out string, opts ...huffman.Option) error {
	f, err := os.Open(in)
	if err != nil {
		return err
	}
	defer f.Close()

	var a huffman.Archive
	if _, err := a.ReadFrom(bufio.NewReader(f)); err != nil {
		return fmt.Errorf("read %s: %w", in, err)
	}
	text, err := a.Decode(opts...)
	if err != nil {
		return fmt.Errorf("decode %s: %w", in, err)
	}
	if err := os.WriteFile(out, []byte(text), 0o644); err != nil {
		return err
	}
	log.Default().Module("unpack").Info("unpacked file", "in", in, "out", out, "runes", a.Frequencies.Total())
	return nil
}
