// Package channel reassembles frames into channel payloads and decompresses them.
package channel

import (
	"cmp"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/meigma/blobunpack/frame"
)

// ErrChannelTooLarge is recorded in Stats.Err when a channel exceeds the configured size limit.
var ErrChannelTooLarge = errors.New("channel: payload too large")

// Stats describes how a channel was reassembled.
type Stats struct {
	FramesTotal  int
	FramesUsed   int
	FirstNumber  uint64
	LastNumber   uint64
	Complete     bool
	HasGaps      bool
	HasDuplicate bool
	Bytes        int
	Err          error
}

// Channel is the reassembled payload of one channel ID.
// Payload is nil unless Stats.Complete is true.
type Channel struct {
	ID      frame.ChannelID
	Payload []byte
	Stats   Stats
}

// Option configures Reassemble.
type Option func(*config)

type config struct {
	maxSize uint64
	logger  *slog.Logger
}

// WithMaxChannelSize marks channels whose payload exceeds n bytes as incomplete.
// Zero means no limit.
func WithMaxChannelSize(n uint64) Option {
	return func(c *config) {
		c.maxSize = n
	}
}

// WithLogger sets the logger for per-channel debug records.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Reassemble groups frames by channel ID and concatenates each channel's data
// in frame number order. Channels are returned in the order their first frame
// appears.
//
// Repeated frame numbers keep the first occurrence. A channel is complete when
// it has a last frame, no gaps in its frame numbers starting from its lowest
// number, and fits within the size limit.
func Reassemble(frames []frame.Frame, opts ...Option) []*Channel {
	cfg := config{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(&cfg)
	}

	var order []*Channel
	parts := make(map[frame.ChannelID][]frame.Frame)
	for _, f := range frames {
		if _, ok := parts[f.ID]; !ok {
			order = append(order, &Channel{ID: f.ID})
		}
		parts[f.ID] = append(parts[f.ID], f)
	}

	for _, ch := range order {
		ch.assemble(parts[ch.ID], cfg.maxSize)
		cfg.logger.Debug("reassembled channel",
			"channel", ch.ID.String(),
			"frames", ch.Stats.FramesTotal,
			"used", ch.Stats.FramesUsed,
			"complete", ch.Stats.Complete,
			"gaps", ch.Stats.HasGaps,
			"duplicates", ch.Stats.HasDuplicate,
			"bytes", ch.Stats.Bytes)
	}
	return order
}

func (ch *Channel) assemble(frames []frame.Frame, maxSize uint64) {
	slices.SortStableFunc(frames, func(a, b frame.Frame) int {
		return cmp.Compare(a.FrameNumber, b.FrameNumber)
	})

	st := Stats{
		FramesTotal: len(frames),
		FirstNumber: frames[0].FrameNumber,
		LastNumber:  frames[len(frames)-1].FrameNumber,
	}

	var (
		out     []byte
		hasLast bool
	)
	for i, f := range frames {
		if i > 0 {
			prev := frames[i-1].FrameNumber
			if f.FrameNumber == prev {
				st.HasDuplicate = true
				continue
			}
			if f.FrameNumber != prev+1 {
				st.HasGaps = true
			}
		}
		out = append(out, f.Data...)
		st.FramesUsed++
		hasLast = hasLast || f.IsLast
	}
	st.Bytes = len(out)

	if maxSize > 0 && uint64(len(out)) > maxSize {
		st.Err = fmt.Errorf("%w: %d bytes (max %d)", ErrChannelTooLarge, len(out), maxSize)
	}

	st.Complete = hasLast && !st.HasGaps && st.Err == nil
	if st.Complete {
		ch.Payload = out
	}
	ch.Stats = st
}
