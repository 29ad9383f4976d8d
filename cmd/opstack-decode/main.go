// Command opstack-decode decodes OP-stack batcher blobs: it rebuilds the data
// stream carried by one or more EIP-4844 blobs, parses its frames, reassembles
// channels and decompresses them.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

const (
	exitFailure = 1
	exitUsage   = 2
)

var errUsage = errors.New("at least one blob path is required")

type options struct {
	saveStream     string
	frames         int
	dumpBatches    int
	maxChannelSize uint64
	verbose        bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if args == nil {
		args = []string{} // cobra falls back to os.Args on nil
	}

	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "[fatal] %v\n", err)
		if errors.Is(err, errUsage) {
			fmt.Fprint(stderr, cmd.UsageString())
			return exitUsage
		}
		return exitFailure
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "opstack-decode [flags] <blob1> [blob2 ...]",
		Short: "Decode frames and channels from OP-stack batcher blobs",
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errUsage
			}
			return nil
		},
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelInfo
			if opts.verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			return decode(opts, args, cmd.OutOrStdout(), logger)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.saveStream, "save-stream", "", "write the rebuilt data stream to this path")
	flags.IntVarP(&opts.frames, "frames", "n", 5, "number of frame summaries to print")
	flags.IntVar(&opts.dumpBatches, "dump-batches", 0, "print up to this many RLP batch items per channel as JSON")
	flags.Uint64Var(&opts.maxChannelSize, "max-channel-size", 0, "treat channels larger than this many bytes as incomplete (0 for no limit)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	return cmd
}
