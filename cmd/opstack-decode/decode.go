package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/opencontainers/go-digest"

	"github.com/meigma/blobunpack/channel"
	"github.com/meigma/blobunpack/eip4844"
	"github.com/meigma/blobunpack/frame"
	"github.com/meigma/blobunpack/rlpdump"
)

func decode(opts options, paths []string, out io.Writer, logger *slog.Logger) error {
	stream, err := buildStream(paths, logger)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "stream: %s (%d bytes) from %d blob(s)\n",
		humanize.Bytes(uint64(len(stream))), len(stream), len(paths))

	if opts.saveStream != "" {
		if err := os.WriteFile(opts.saveStream, stream, 0o644); err != nil { //nolint:gosec // output file, not secret
			return fmt.Errorf("save stream: %w", err)
		}
		logger.Info("saved stream", "path", opts.saveStream)
	}

	frames, err := frame.ParseFrames(stream)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "frames: %d\n", len(frames))
	for i := 0; i < min(opts.frames, len(frames)); i++ {
		fmt.Fprintf(out, "  #%d: %s\n", i, frames[i].String())
	}

	chans := channel.Reassemble(frames,
		channel.WithMaxChannelSize(opts.maxChannelSize),
		channel.WithLogger(logger))

	complete := 0
	for _, ch := range chans {
		name := ch.ID.String()[:8]
		if !ch.Stats.Complete {
			fmt.Fprintf(out, "channel %s: incomplete frames=%d gaps=%v duplicates=%v",
				name, ch.Stats.FramesTotal, ch.Stats.HasGaps, ch.Stats.HasDuplicate)
			if ch.Stats.Err != nil {
				fmt.Fprintf(out, " err=%q", ch.Stats.Err)
			}
			fmt.Fprintln(out)
			continue
		}
		complete++

		raw, algo, err := channel.Decompress(ch.Payload)
		if err != nil {
			logger.Warn("decompress channel", "channel", name, "error", err)
			fmt.Fprintf(out, "channel %s: decompress failed\n", name)
			continue
		}
		fmt.Fprintf(out, "channel %s: %s %s -> %s digest=%s\n",
			name, algo,
			humanize.Bytes(uint64(len(ch.Payload))),
			humanize.Bytes(uint64(len(raw))),
			digest.FromBytes(raw))

		if opts.dumpBatches > 0 {
			dumpBatches(out, raw, opts.dumpBatches, logger)
		}
	}
	fmt.Fprintf(out, "channels: %d complete of %d\n", complete, len(chans))
	return nil
}

// buildStream decodes each blob and concatenates the payloads in path order.
func buildStream(paths []string, logger *slog.Logger) ([]byte, error) {
	var stream []byte
	for _, path := range paths {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read blob: %w", err)
		}
		b, err := eip4844.FromBytes(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		data, err := b.ToData()
		if err != nil {
			return nil, fmt.Errorf("decode blob %s: %w", path, err)
		}
		logger.Debug("decoded blob", "path", path, "bytes", len(data))
		stream = append(stream, data...)
	}
	return stream, nil
}

func dumpBatches(out io.Writer, raw []byte, limit int, logger *slog.Logger) {
	items, err := rlpdump.Iterate(raw, limit)
	for _, item := range items {
		js, derr := rlpdump.DecodeJSON(item.Raw)
		if derr != nil {
			logger.Warn("decode batch", "index", item.Index, "error", derr)
			continue
		}
		fmt.Fprintf(out, "  batch #%d:\n%s\n", item.Index, js)
	}
	if err != nil {
		logger.Warn("iterate batches", "error", err)
	}
}
