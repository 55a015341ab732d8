// Command huffman compresses text files with Huffman coding and reports the
// resulting codes, tree and sizes as JSON.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/seiflotfy/huffman"
	"github.com/seiflotfy/huffman/log"
)

var (
	version = "v0.1.0"
	commit  = "unknown"
)

const defaultMaxSize = 500 << 20 // 500 MiB

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	app := newApp(stdout, stderr)
	if err := app.Run(append([]string{"huffman"}, args...)); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "huffman",
		Usage:     "Huffman-code text files",
		Version:   fmt.Sprintf("%s (commit %s)", version, commit),
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "log level: debug, info, warn, error",
				EnvVars: []string{"HUFFMAN_LOG_LEVEL"},
			},
			&cli.BoolFlag{
				Name:  "strict",
				Usage: "fail on unmapped symbols and malformed bit strings instead of dropping them",
			},
		},
		Before: func(cCtx *cli.Context) error {
			log.SetDefault(log.NewWithWriter(stderr, log.ParseLevel(cCtx.String("log-level"))))
			log.Debug("starting", "version", version, "args", cCtx.Args().Slice(), "strict", cCtx.Bool("strict"))
			return nil
		},
		// Errors are reported by run; never let the library call os.Exit.
		ExitErrHandler: func(*cli.Context, error) {},
		Commands: []*cli.Command{
			compressCommand(),
			decodeCommand(),
			packCommand(),
			unpackCommand(),
		},
	}
}

// options maps global flags onto library options.
func options(cCtx *cli.Context) []huffman.Option {
	return []huffman.Option{
		huffman.WithStrict(cCtx.Bool("strict")),
		huffman.WithLogger(log.Default().Module("huffman")),
	}
}
