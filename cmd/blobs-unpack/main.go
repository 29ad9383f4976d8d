// Command blobs-unpack concatenates blobs of 32-byte fields, keeping the first
// 31 bytes of every field, and writes the result to stdout.
//
//	blobs-unpack blob1.bin blob2.bin ... > decoded.bin
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/meigma/blobunpack"
)

const (
	exitFailure = 1
	exitUsage   = 2
)

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
		fmt.Fprintf(stderr, "%s: %v\n", cmd.Name(), err)
		if errors.Is(err, blobunpack.ErrUsage) {
			fmt.Fprintf(stderr, "usage: %s\n", cmd.UseLine())
			return exitUsage
		}
		return exitFailure
	}
	return 0
}

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "blobs-unpack <blob1> [blob2 ...]",
		Short: "Concatenate blobs, keeping the first 31 bytes of every 32-byte field",
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) == 0 {
				return blobunpack.ErrUsage
			}
			return nil
		},
		// Every argument is a blob path, including ones that look like flags.
		DisableFlagParsing: true,
		SilenceErrors:      true,
		SilenceUsage:       true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelWarn}))
			u := blobunpack.New(blobunpack.WithLogger(logger))
			_, err := u.UnpackTo(cmd.OutOrStdout(), args)
			return err
		},
	}
}
