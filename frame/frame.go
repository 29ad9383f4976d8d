// Package frame parses the channel frames carried in decoded batcher data.
//
// Decoded data starts with a derivation version byte followed by one or more
// frames:
//
//	frame = channel_id ++ frame_number ++ frame_data_length ++ frame_data ++ is_last
//
//	channel_id        16 bytes
//	frame_number      uint64, big-endian
//	frame_data_length uint32, big-endian
//	frame_data        frame_data_length bytes
//	is_last           1 byte, 0 or 1
package frame

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	// ChannelIDLength is the size of a channel identifier.
	ChannelIDLength = 16

	// MaxFrameLen is the largest frame_data_length accepted.
	MaxFrameLen = 1_000_000

	// DerivationVersion0 is the only supported derivation version.
	DerivationVersion0 = 0

	// overhead is the encoded size of a frame with no data.
	overhead = ChannelIDLength + 8 + 4 + 1
)

// Sentinel errors for frame parsing.
var (
	// ErrEmpty is returned when there is no data to parse.
	ErrEmpty = errors.New("frame: empty data")

	// ErrInvalidVersion is returned when the derivation version byte is unknown.
	ErrInvalidVersion = errors.New("frame: invalid derivation version")

	// ErrFrameTooLarge is returned when frame_data_length exceeds MaxFrameLen.
	ErrFrameTooLarge = errors.New("frame: frame data too large")

	// ErrInvalidIsLast is returned when the is_last byte is neither 0 nor 1.
	ErrInvalidIsLast = errors.New("frame: invalid is_last byte")

	// ErrNoFrames is returned when data holds a version byte but no frames.
	ErrNoFrames = errors.New("frame: no frames")
)

// ChannelID identifies the channel a frame belongs to.
type ChannelID [ChannelIDLength]byte

// String returns the channel ID in hex.
func (id ChannelID) String() string {
	return fmt.Sprintf("%x", id[:])
}

// Frame is one chunk of a channel.
type Frame struct {
	ID          ChannelID
	FrameNumber uint64
	IsLast      bool
	Data        []byte
}

// ByteReader is what UnmarshalBinary reads from.
type ByteReader interface {
	io.Reader
	io.ByteReader
}

// ParseFrames parses every frame in data, which must start with DerivationVersion0.
func ParseFrames(data []byte) ([]Frame, error) {
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	if data[0] != DerivationVersion0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidVersion, data[0])
	}

	r := bytes.NewReader(data[1:])
	var frames []Frame
	for r.Len() > 0 {
		start := len(data) - r.Len()
		var f Frame
		if err := f.UnmarshalBinary(r); err != nil {
			return nil, fmt.Errorf("parse frame %d at offset %d: %w", len(frames), start, err)
		}
		frames = append(frames, f)
	}
	if len(frames) == 0 {
		return nil, ErrNoFrames
	}
	return frames, nil
}

// MarshalFrames encodes frames behind a DerivationVersion0 byte, the inverse of ParseFrames.
func MarshalFrames(frames []Frame) []byte {
	var buf bytes.Buffer
	buf.WriteByte(DerivationVersion0)
	for i := range frames {
		_ = frames[i].MarshalBinary(&buf) //nolint:errcheck // bytes.Buffer writes do not fail
	}
	return buf.Bytes()
}

// UnmarshalBinary reads one frame from r. An EOF after the first byte of the
// frame is reported as io.ErrUnexpectedEOF.
func (f *Frame) UnmarshalBinary(r ByteReader) error {
	if _, err := io.ReadFull(r, f.ID[:]); err != nil {
		return fmt.Errorf("read channel_id: %w", err)
	}
	if err := binary.Read(r, binary.BigEndian, &f.FrameNumber); err != nil {
		return fmt.Errorf("read frame_number: %w", unexpectedEOF(err))
	}

	var n uint32
	if err := binary.Read(r, binary.BigEndian, &n); err != nil {
		return fmt.Errorf("read frame_data_length: %w", unexpectedEOF(err))
	}
	if n > MaxFrameLen {
		return fmt.Errorf("%w: %d (max %d)", ErrFrameTooLarge, n, MaxFrameLen)
	}

	f.Data = make([]byte, n)
	if _, err := io.ReadFull(r, f.Data); err != nil {
		return fmt.Errorf("read frame_data: %w", unexpectedEOF(err))
	}

	last, err := r.ReadByte()
	if err != nil {
		return fmt.Errorf("read is_last: %w", unexpectedEOF(err))
	}
	switch last {
	case 0:
		f.IsLast = false
	case 1:
		f.IsLast = true
	default:
		return fmt.Errorf("%w: %d", ErrInvalidIsLast, last)
	}
	return nil
}

// MarshalBinary writes f to w in wire format.
func (f *Frame) MarshalBinary(w io.Writer) error {
	buf := make([]byte, 0, overhead+len(f.Data))
	buf = append(buf, f.ID[:]...)
	buf = binary.BigEndian.AppendUint64(buf, f.FrameNumber)
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(f.Data)))
	buf = append(buf, f.Data...)
	if f.IsLast {
		buf = append(buf, 1)
	} else {
		buf = append(buf, 0)
	}
	_, err := w.Write(buf)
	return err
}

// String summarizes the frame without its data.
func (f *Frame) String() string {
	return fmt.Sprintf("Frame{ch=%x..., n=%d, last=%v, data=%dB}", f.ID[:4], f.FrameNumber, f.IsLast, len(f.Data))
}

func unexpectedEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}
