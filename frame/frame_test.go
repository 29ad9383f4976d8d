package frame

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testID(b byte) ChannelID {
	var id ChannelID
	for i := range id {
		id[i] = b
	}
	return id
}

func TestFrame_MarshalUnmarshal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		frame Frame
	}{
		{name: "empty data", frame: Frame{ID: testID(1), FrameNumber: 0, Data: []byte{}}},
		{name: "last frame", frame: Frame{ID: testID(2), FrameNumber: 7, IsLast: true, Data: []byte("payload")}},
		{name: "large frame number", frame: Frame{ID: testID(3), FrameNumber: 1 << 40, Data: bytes.Repeat([]byte{0xab}, 1000)}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			require.NoError(t, tt.frame.MarshalBinary(&buf))
			assert.Equal(t, overhead+len(tt.frame.Data), buf.Len())

			var got Frame
			require.NoError(t, got.UnmarshalBinary(&buf))
			assert.Equal(t, tt.frame, got)
			assert.Zero(t, buf.Len())
		})
	}
}

func TestFrame_WireLayout(t *testing.T) {
	t.Parallel()

	f := Frame{ID: testID(0xcc), FrameNumber: 0x0102, IsLast: true, Data: []byte{0xde, 0xad}}
	var buf bytes.Buffer
	require.NoError(t, f.MarshalBinary(&buf))

	want := append(bytes.Repeat([]byte{0xcc}, 16),
		0, 0, 0, 0, 0, 0, 0x01, 0x02, // frame_number
		0, 0, 0, 2, // frame_data_length
		0xde, 0xad,
		1, // is_last
	)
	assert.Equal(t, want, buf.Bytes())
}

func TestParseFrames(t *testing.T) {
	t.Parallel()

	frames := []Frame{
		{ID: testID(1), FrameNumber: 0, Data: []byte("a")},
		{ID: testID(1), FrameNumber: 1, IsLast: true, Data: []byte("bc")},
		{ID: testID(2), FrameNumber: 0, IsLast: true, Data: []byte{}},
	}

	got, err := ParseFrames(MarshalFrames(frames))
	require.NoError(t, err)
	assert.Equal(t, frames, got)
}

func TestParseFrames_Errors(t *testing.T) {
	t.Parallel()

	valid := MarshalFrames([]Frame{{ID: testID(1), Data: []byte("hello")}})

	badIsLast := bytes.Clone(valid)
	badIsLast[len(badIsLast)-1] = 2

	tooLarge := bytes.Clone(valid)
	copy(tooLarge[1+ChannelIDLength+8:], []byte{0xff, 0xff, 0xff, 0xff})

	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{name: "empty", data: nil, wantErr: ErrEmpty},
		{name: "bad version", data: []byte{1, 2, 3}, wantErr: ErrInvalidVersion},
		{name: "version only", data: []byte{DerivationVersion0}, wantErr: ErrNoFrames},
		{name: "truncated id", data: valid[:5], wantErr: io.ErrUnexpectedEOF},
		{name: "truncated frame number", data: valid[:1+ChannelIDLength], wantErr: io.ErrUnexpectedEOF},
		{name: "truncated data", data: valid[:len(valid)-3], wantErr: io.ErrUnexpectedEOF},
		{name: "missing is_last", data: valid[:len(valid)-1], wantErr: io.ErrUnexpectedEOF},
		{name: "bad is_last", data: badIsLast, wantErr: ErrInvalidIsLast},
		{name: "frame too large", data: tooLarge, wantErr: ErrFrameTooLarge},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			frames, err := ParseFrames(tt.data)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, frames)
		})
	}
}

func TestParseFrames_ErrorOffset(t *testing.T) {
	t.Parallel()

	data := MarshalFrames([]Frame{
		{ID: testID(1), Data: []byte("abc")},
		{ID: testID(2), Data: []byte("truncated")},
	})

	// Version byte plus one frame carrying three bytes.
	start := 1 + overhead + 3
	require.Equal(t, 33, start)

	_, err := ParseFrames(data[:len(data)-4])
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.Contains(t, err.Error(), "parse frame 1 at offset 33:")
}

func TestFrame_String(t *testing.T) {
	t.Parallel()

	f := Frame{ID: testID(0xab), FrameNumber: 3, IsLast: true, Data: make([]byte, 10)}
	assert.Equal(t, "Frame{ch=abababab..., n=3, last=true, data=10B}", f.String())
	assert.Equal(t, "abababababababababababababababab", f.ID.String())
}
