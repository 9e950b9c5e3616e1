package nsq

import (
	"go.uber.org/zap"
)

type options struct {
	maxInFlight int
	bufferSize  int
	logger      *zap.Logger
}

type Option func(opts *options)

func WithMaxInFlight(n int) Option {
	return func(opts *options) {
		opts.maxInFlight = n
	}
}

// WithBufferSize sets how many consumed jobs wait for a worker.
func WithBufferSize(n int) Option {
	return func(opts *options) {
		opts.bufferSize = n
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(opts *options) {
		opts.logger = logger
	}
}
