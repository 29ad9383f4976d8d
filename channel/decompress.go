package channel

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zlib"
)

// Algorithm identifies how a channel payload was compressed.
type Algorithm string

// Supported compression algorithms.
const (
	AlgorithmZlib   Algorithm = "zlib"
	AlgorithmBrotli Algorithm = "brotli"
)

// VersionBrotli is the version byte that prefixes brotli-compressed channels.
const VersionBrotli = 0x01

// MaxDecompressedSize bounds the output of Decompress.
const MaxDecompressedSize = 100_000_000

// Sentinel errors for decompression.
var (
	// ErrUnknownCompression is returned when the payload's first byte matches no algorithm.
	ErrUnknownCompression = errors.New("channel: unknown compression")

	// ErrDecompression is returned when the compressed stream is corrupt.
	ErrDecompression = errors.New("channel: decompression failed")

	// ErrDecompressedTooLarge is returned when output would exceed MaxDecompressedSize.
	ErrDecompressedTooLarge = errors.New("channel: decompressed payload too large")
)

// Decompress detects the compression of a channel payload and inflates it.
//
// A payload whose first byte has low nibble 8 or 15 is a zlib stream. A
// payload starting with VersionBrotli is a brotli stream after that byte.
func Decompress(b []byte) ([]byte, Algorithm, error) {
	return decompress(b, MaxDecompressedSize)
}

func decompress(b []byte, limit int64) ([]byte, Algorithm, error) {
	if len(b) == 0 {
		return nil, "", fmt.Errorf("%w: empty payload", ErrUnknownCompression)
	}

	switch {
	case b[0]&0x0F == 8 || b[0]&0x0F == 15:
		zr, err := zlib.NewReader(bytes.NewReader(b))
		if err != nil {
			return nil, AlgorithmZlib, fmt.Errorf("%w: zlib header: %w", ErrDecompression, err)
		}
		defer zr.Close()
		out, err := readLimited(zr, limit)
		return out, AlgorithmZlib, err
	case b[0] == VersionBrotli:
		out, err := readLimited(brotli.NewReader(bytes.NewReader(b[1:])), limit)
		return out, AlgorithmBrotli, err
	default:
		return nil, "", fmt.Errorf("%w: first byte 0x%02x", ErrUnknownCompression, b[0])
	}
}

func readLimited(r io.Reader, limit int64) ([]byte, error) {
	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecompression, err)
	}
	if n > limit {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrDecompressedTooLarge, limit)
	}
	return buf.Bytes(), nil
}
