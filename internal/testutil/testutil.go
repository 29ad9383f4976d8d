package testutil

import (
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
)

// ErrWriteFailed is returned by FailingWriter.
var ErrWriteFailed = errors.New("testutil: write failed")

// SequentialBytes returns n bytes whose values count up from start, wrapping at 256.
func SequentialBytes(start byte, n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = start + byte(i)
	}
	return b
}

// RandomBytes returns n pseudo-random bytes derived from seed.
func RandomBytes(seed int64, n int) []byte {
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // reproducible fixtures
	b := make([]byte, n)
	_, _ = rng.Read(b)
	return b
}

// WriteFile writes data to name inside a fresh temp directory and returns its path.
func WriteFile(tb testing.TB, name string, data []byte) string {
	tb.Helper()
	return WriteFileIn(tb, tb.TempDir(), name, data)
}

// WriteFileIn writes data to name inside dir and returns its path.
// The file is written to a temp file first and renamed into place.
func WriteFileIn(tb testing.TB, dir, name string, data []byte) string {
	tb.Helper()

	finalPath := filepath.Join(dir, name)
	tmp, err := os.CreateTemp(dir, "fixture-*")
	if err != nil {
		tb.Fatalf("create temp: %v", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		tb.Fatalf("write %s: %v", name, err)
	}
	if err := tmp.Close(); err != nil {
		tb.Fatalf("close %s: %v", name, err)
	}
	if err := os.Rename(tmpPath, finalPath); err != nil {
		tb.Fatalf("rename %s: %v", name, err)
	}
	return finalPath
}

// FailingWriter is an io.Writer that records how often it was called and
// always fails.
type FailingWriter struct {
	Calls int
}

// Write implements io.Writer and returns ErrWriteFailed.
func (w *FailingWriter) Write([]byte) (int, error) {
	w.Calls++
	return 0, ErrWriteFailed
}

// CountingWriter is an io.Writer that records each write it receives.
type CountingWriter struct {
	Writes [][]byte
}

// Write implements io.Writer and keeps a copy of p.
func (w *CountingWriter) Write(p []byte) (int, error) {
	w.Writes = append(w.Writes, append([]byte(nil), p...))
	return len(p), nil
}
