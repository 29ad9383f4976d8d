package blobunpack

import "log/slog"

// Option configures an Unpacker.
type Option func(*Unpacker)

// WithLogger sets the logger for per-blob debug records.
// By default logging is discarded.
func WithLogger(logger *slog.Logger) Option {
	return func(u *Unpacker) {
		if logger != nil {
			u.logger = logger
		}
	}
}
