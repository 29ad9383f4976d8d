package blobunpack

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/opencontainers/go-digest"
)

const (
	// FieldSize is the width of one field in an input blob.
	FieldSize = 32

	// KeptSize is the number of leading bytes kept from each field.
	KeptSize = FieldSize - 1
)

// Unpacker decodes blob files into their concatenated 31-byte payloads.
// It holds no state between calls and is safe for concurrent use.
type Unpacker struct {
	logger *slog.Logger
}

// New creates an Unpacker with the given options.
func New(opts ...Option) *Unpacker {
	u := &Unpacker{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// DecodedSize returns the number of output bytes a blob of size n decodes to.
// The result is only meaningful when n is a multiple of FieldSize.
func DecodedSize(n int) int {
	return n / FieldSize * KeptSize
}

// Strip returns the first KeptSize bytes of every field in data, in order.
// It fails with a *MalformedInputError when len(data) is not a multiple of FieldSize.
func Strip(data []byte) ([]byte, error) {
	if len(data)%FieldSize != 0 {
		return nil, &MalformedInputError{Size: int64(len(data))}
	}
	return strip(data), nil
}

func strip(data []byte) []byte {
	out := make([]byte, 0, DecodedSize(len(data)))
	for off := 0; off < len(data); off += FieldSize {
		out = append(out, data[off:off+KeptSize]...)
	}
	return out
}

// Unpack reads the blob at path and returns its decoded bytes.
//
// The file is read fully into memory. Its size is checked before any field
// is extracted; a size that is not a multiple of FieldSize fails with a
// *MalformedInputError naming path.
func (u *Unpacker) Unpack(path string) ([]byte, error) {
	data, err := readBlob(path)
	if err != nil {
		return nil, err
	}
	if len(data)%FieldSize != 0 {
		return nil, &MalformedInputError{Path: path, Size: int64(len(data))}
	}

	out := strip(data)
	if u.logger.Enabled(context.Background(), slog.LevelDebug) {
		u.logger.Debug("unpacked blob",
			"path", path,
			"size", len(data),
			"fields", len(data)/FieldSize,
			"digest", digest.FromBytes(out))
	}
	return out, nil
}

// Run unpacks every path in order and returns the concatenated result.
// Processing stops at the first failing path.
func (u *Unpacker) Run(paths []string) ([]byte, error) {
	if len(paths) == 0 {
		return nil, ErrUsage
	}

	var buf bytes.Buffer
	for _, path := range paths {
		out, err := u.Unpack(path)
		if err != nil {
			return nil, err
		}
		buf.Write(out)
	}
	return buf.Bytes(), nil
}

// UnpackTo runs the unpacker over paths and writes the result to w in a
// single write. Nothing is written if any path fails.
func (u *Unpacker) UnpackTo(w io.Writer, paths []string) (int64, error) {
	out, err := u.Run(paths)
	if err != nil {
		return 0, err
	}
	n, err := w.Write(out)
	if err != nil {
		return int64(n), fmt.Errorf("write output: %w", err)
	}
	u.logger.Debug("wrote decoded output", "blobs", len(paths), "bytes", n)
	return int64(n), nil
}

func readBlob(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open blob: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read blob %s: %w", path, err)
	}
	return data, nil
}
