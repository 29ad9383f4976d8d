package blobunpack

import (
	"errors"
	"fmt"
)

// Sentinel errors for unpack operations.
var (
	// ErrUsage is returned when no input paths are supplied.
	ErrUsage = errors.New("blobunpack: no input paths")

	// ErrMalformedInput is returned when a blob's size is not a multiple of FieldSize.
	ErrMalformedInput = errors.New("blobunpack: malformed input")
)

// MalformedInputError reports a blob whose size is not a whole number of fields.
// It matches ErrMalformedInput with errors.Is.
type MalformedInputError struct {
	// Path is the offending file. Empty when the blob did not come from a file.
	Path string

	// Size is the blob's actual length in bytes.
	Size int64
}

func (e *MalformedInputError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("size %d is not a multiple of %d", e.Size, FieldSize)
	}
	return fmt.Sprintf("%s: size %d is not a multiple of %d", e.Path, e.Size, FieldSize)
}

// Is reports whether target is ErrMalformedInput.
func (e *MalformedInputError) Is(target error) bool {
	return target == ErrMalformedInput
}
