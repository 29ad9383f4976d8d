// Package eip4844 encodes and decodes arbitrary data in EIP-4844 blobs using
// the OP-stack version 0 layout.
//
// A blob is 4096 field elements of 32 bytes. The two high bits of the first
// byte of every field element must be zero, so each element carries 31 full
// bytes plus 6 bits. Data is packed in rounds of four field elements: 4*31
// bytes go into the element tails and 3 more bytes are split into four 6-bit
// chunks stored in the elements' first bytes, giving 127 bytes per round.
// The first round also carries the version byte and a 3-byte big-endian length.
package eip4844

import (
	"fmt"
)

const (
	// BlobSize is the size of a blob in bytes.
	BlobSize = FieldElements * FieldElementSize

	// FieldElements is the number of field elements in a blob.
	FieldElements = 4096

	// FieldElementSize is the size of one field element in bytes.
	FieldElementSize = 32

	// MaxBlobDataSize is the largest payload a single blob can carry.
	MaxBlobDataSize = (4*31+3)*1024 - 4

	// EncodingVersion is the only supported encoding version.
	EncodingVersion = 0

	// VersionOffset is the offset of the version byte in the blob.
	VersionOffset = 1

	// Rounds is the number of 4-element rounds in a blob.
	Rounds = 1024
)

// Blob is a raw EIP-4844 blob.
type Blob [BlobSize]byte

// Data is the payload carried by a blob.
type Data []byte

// FromBytes copies raw into a new Blob. raw must be exactly BlobSize bytes.
func FromBytes(raw []byte) (*Blob, error) {
	if len(raw) != BlobSize {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidSize, len(raw), BlobSize)
	}
	var b Blob
	copy(b[:], raw)
	return &b, nil
}

// FromData encodes data into b, overwriting its previous contents.
func (b *Blob) FromData(data Data) error {
	if len(data) > MaxBlobDataSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrDataTooLarge, len(data), MaxBlobDataSize)
	}
	*b = Blob{}

	e := encoder{blob: b, data: data}
	for round := 0; round < Rounds && e.rpos < len(data); round++ {
		if round == 0 {
			n := uint32(len(data))
			e.buf[0] = EncodingVersion
			e.buf[1] = byte(n >> 16)
			e.buf[2] = byte(n >> 8)
			e.buf[3] = byte(n)
			e.rpos += copy(e.buf[4:], data)
		} else {
			e.read31()
		}

		x := e.read1()
		e.write(x & 0b0011_1111)

		e.read31()
		y := e.read1()
		e.write((y & 0b0000_1111) | ((x & 0b1100_0000) >> 2))

		e.read31()
		z := e.read1()
		e.write(z & 0b0011_1111)

		e.read31()
		e.write(((z & 0b1100_0000) >> 2) | ((y & 0b1111_0000) >> 4))
	}
	return nil
}

type encoder struct {
	blob *Blob
	data Data
	rpos int
	wpos int
	buf  [31]byte
}

func (e *encoder) read1() byte {
	if e.rpos >= len(e.data) {
		return 0
	}
	v := e.data[e.rpos]
	e.rpos++
	return v
}

// read31 loads the next 31 bytes into buf, zero padded.
func (e *encoder) read31() {
	n := 0
	if e.rpos < len(e.data) {
		n = copy(e.buf[:], e.data[e.rpos:])
	}
	clear(e.buf[n:])
	e.rpos += n
}

// write emits one field element: a 6-bit chunk followed by buf.
func (e *encoder) write(chunk byte) {
	e.blob[e.wpos] = chunk
	copy(e.blob[e.wpos+1:e.wpos+FieldElementSize], e.buf[:])
	e.wpos += FieldElementSize
}

// ToData decodes the payload carried by b.
func (b *Blob) ToData() (Data, error) {
	if b[VersionOffset] != EncodingVersion {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidVersion, b[VersionOffset], EncodingVersion)
	}

	n := int(b[2])<<16 | int(b[3])<<8 | int(b[4])
	if n > MaxBlobDataSize {
		return nil, fmt.Errorf("%w: %d (max %d)", ErrLengthTooLarge, n, MaxBlobDataSize)
	}

	// Round 0 keeps only 27 bytes of the first element; version and length
	// occupy the rest.
	out := make(Data, MaxBlobDataSize)
	copy(out[0:27], b[5:])

	var chunks [4]byte
	var err error
	if chunks[0], err = b.chunk(0); err != nil {
		return nil, err
	}
	opos, ipos := 28, FieldElementSize
	for i := 1; i < 4; i++ {
		if chunks[i], opos, ipos, err = b.decodeFieldElement(opos, ipos, out); err != nil {
			return nil, err
		}
	}
	opos = reassemble(opos, chunks, out)

	for round := 1; round < Rounds && opos < n; round++ {
		for j := range chunks {
			if chunks[j], opos, ipos, err = b.decodeFieldElement(opos, ipos, out); err != nil {
				return nil, err
			}
		}
		opos = reassemble(opos, chunks, out)
	}

	for i := n; i < len(out); i++ {
		if out[i] != 0 {
			return nil, fmt.Errorf("%w: output byte %d (field element %d) past declared length %d",
				ErrExtraneousData, i, i/FieldElementSize, n)
		}
	}
	for ; ipos < BlobSize; ipos++ {
		if b[ipos] != 0 {
			return nil, fmt.Errorf("%w: blob byte %d in unused tail", ErrExtraneousData, ipos)
		}
	}
	return out[:n], nil
}

func (b *Blob) chunk(ipos int) (byte, error) {
	if b[ipos]&0b1100_0000 != 0 {
		return 0, fmt.Errorf("%w: high bits set at offset %d", ErrInvalidFieldElement, ipos)
	}
	return b[ipos], nil
}

// decodeFieldElement copies the 31-byte tail of the element at ipos to out[opos:]
// and returns its 6-bit chunk with the advanced positions. opos advances by 32
// to leave a gap for the byte rebuilt from the chunks.
func (b *Blob) decodeFieldElement(opos, ipos int, out Data) (byte, int, int, error) {
	c, err := b.chunk(ipos)
	if err != nil {
		return 0, 0, 0, err
	}
	copy(out[opos:], b[ipos+1:ipos+FieldElementSize])
	return c, opos + 32, ipos + FieldElementSize, nil
}

// reassemble rebuilds the three bytes split across a round's chunks and
// stores them in the gaps left by decodeFieldElement.
func reassemble(opos int, chunks [4]byte, out Data) int {
	opos-- // a round emits 127 bytes, not 128
	x := (chunks[0] & 0b0011_1111) | ((chunks[1] & 0b0011_0000) << 2)
	y := (chunks[1] & 0b0000_1111) | ((chunks[3] & 0b0000_1111) << 4)
	z := (chunks[2] & 0b0011_1111) | ((chunks[3] & 0b0011_0000) << 2)
	out[opos-32] = z
	out[opos-32*2] = y
	out[opos-32*3] = x
	return opos
}
