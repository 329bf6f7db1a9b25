package bootstrap

import (
	"time"

	"github.com/kbukum/chunkscribe/chunked"
	"github.com/kbukum/chunkscribe/logger"
	"github.com/kbukum/chunkscribe/transcription"
)

// Option configures the App during creation.
type Option func(*appOptions)

type appOptions struct {
	logger          *logger.Logger
	gracefulTimeout *time.Duration
	media           chunked.Media
	direct          transcription.Provider
}

func resolveOptions(opts []Option) *appOptions {
	o := &appOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets a custom logger. If not set, the global logger is
// initialized from the config's logging section.
func WithLogger(l *logger.Logger) Option {
	return func(o *appOptions) { o.logger = l }
}

// WithGracefulTimeout sets the maximum duration for graceful shutdown.
func WithGracefulTimeout(d time.Duration) Option {
	return func(o *appOptions) { o.gracefulTimeout = &d }
}

// WithMedia replaces the ffmpeg tool used for probing and extraction. If m
// has a Check(context.Context) error method it backs the ffmpeg health check.
func WithMedia(m chunked.Media) Option {
	return func(o *appOptions) { o.media = m }
}

// WithDirectProvider replaces the remote endpoint client.
func WithDirectProvider(p transcription.Provider) Option {
	return func(o *appOptions) { o.direct = p }
}
