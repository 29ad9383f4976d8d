package eip4844

import "errors"

// Sentinel errors for blob encoding and decoding.
var (
	// ErrInvalidSize is returned when raw bytes are not exactly BlobSize long.
	ErrInvalidSize = errors.New("eip4844: invalid blob size")

	// ErrInvalidVersion is returned when the encoding version byte is not EncodingVersion.
	ErrInvalidVersion = errors.New("eip4844: invalid encoding version")

	// ErrLengthTooLarge is returned when the declared data length exceeds MaxBlobDataSize.
	ErrLengthTooLarge = errors.New("eip4844: declared length too large")

	// ErrDataTooLarge is returned when encoding more than MaxBlobDataSize bytes.
	ErrDataTooLarge = errors.New("eip4844: data too large")

	// ErrInvalidFieldElement is returned when a field element has either of its two high bits set.
	ErrInvalidFieldElement = errors.New("eip4844: invalid field element")

	// ErrExtraneousData is returned when nonzero bytes follow the declared data.
	ErrExtraneousData = errors.New("eip4844: extraneous data")
)
