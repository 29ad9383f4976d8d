package eip4844

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/blobunpack/internal/testutil"
)

func TestBlob_RoundTrip(t *testing.T) {
	t.Parallel()

	sizes := []int{0, 1, 26, 27, 28, 122, 123, 124, 127, 250, 251, 4096, 100_000, MaxBlobDataSize}
	for _, size := range sizes {
		data := Data(testutil.RandomBytes(int64(size), size))

		var b Blob
		require.NoError(t, b.FromData(data), "size %d", size)

		for i := 0; i < BlobSize; i += FieldElementSize {
			require.Zero(t, b[i]&0b1100_0000, "size %d: field element %d has high bits", size, i/FieldElementSize)
		}

		got, err := b.ToData()
		require.NoError(t, err, "size %d", size)
		assert.Equal(t, data, got, "size %d", size)
	}
}

func TestBlob_Header(t *testing.T) {
	t.Parallel()

	var b Blob
	require.NoError(t, b.FromData(testutil.SequentialBytes(0, 0x012345)))

	assert.Equal(t, byte(EncodingVersion), b[VersionOffset])
	assert.Equal(t, []byte{0x01, 0x23, 0x45}, b[2:5])
	// First 27 payload bytes sit directly after the header.
	assert.Equal(t, testutil.SequentialBytes(0, 27), b[5:32])
}

func TestBlob_FromDataReusesBlob(t *testing.T) {
	t.Parallel()

	var b Blob
	require.NoError(t, b.FromData(testutil.RandomBytes(1, 10_000)))
	require.NoError(t, b.FromData(Data("short")))

	got, err := b.ToData()
	require.NoError(t, err)
	assert.Equal(t, Data("short"), got)
}

func TestBlob_FromDataTooLarge(t *testing.T) {
	t.Parallel()

	var b Blob
	err := b.FromData(make(Data, MaxBlobDataSize+1))
	require.ErrorIs(t, err, ErrDataTooLarge)
}

func TestBlob_ToDataErrors(t *testing.T) {
	t.Parallel()

	encode := func(t *testing.T, n int) *Blob {
		t.Helper()
		var b Blob
		require.NoError(t, b.FromData(testutil.RandomBytes(7, n)))
		return &b
	}

	tests := []struct {
		name    string
		mutate  func(t *testing.T) *Blob
		wantErr error
	}{
		{
			name: "bad version",
			mutate: func(t *testing.T) *Blob {
				b := encode(t, 100)
				b[VersionOffset] = 1
				return b
			},
			wantErr: ErrInvalidVersion,
		},
		{
			name: "declared length too large",
			mutate: func(t *testing.T) *Blob {
				b := encode(t, 100)
				b[2], b[3], b[4] = 0xff, 0xff, 0xff
				return b
			},
			wantErr: ErrLengthTooLarge,
		},
		{
			name: "high bits in later field element",
			mutate: func(t *testing.T) *Blob {
				b := encode(t, 1000)
				b[5*FieldElementSize] |= 0b1000_0000
				return b
			},
			wantErr: ErrInvalidFieldElement,
		},
		{
			name: "high bits in first field element",
			mutate: func(t *testing.T) *Blob {
				b := encode(t, 10)
				b[0] |= 0b0100_0000
				return b
			},
			wantErr: ErrInvalidFieldElement,
		},
		{
			name: "data past declared length",
			mutate: func(t *testing.T) *Blob {
				b := encode(t, 10)
				b[20] = 0xaa
				return b
			},
			wantErr: ErrExtraneousData,
		},
		{
			name: "data in unused tail",
			mutate: func(t *testing.T) *Blob {
				b := encode(t, 10)
				b[BlobSize-1] = 0x01
				return b
			},
			wantErr: ErrExtraneousData,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := tt.mutate(t).ToData()
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestFromBytes(t *testing.T) {
	t.Parallel()

	raw := make([]byte, BlobSize)
	raw[100] = 7

	b, err := FromBytes(raw)
	require.NoError(t, err)
	assert.Equal(t, byte(7), b[100])

	raw[100] = 8
	assert.Equal(t, byte(7), b[100], "FromBytes must copy")

	_, err = FromBytes(make([]byte, BlobSize-1))
	require.ErrorIs(t, err, ErrInvalidSize)
}
