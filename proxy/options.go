package proxy

import "go.uber.org/zap"

type options struct {
	protocol string
	persist  bool
	logger   *zap.Logger
}

type Option func(opts *options)

// WithProtocol sets the protocol attached to entries written as host:port.
func WithProtocol(protocol string) Option {
	return func(opts *options) {
		opts.protocol = protocol
	}
}

// WithPersistence rewrites the backing proxy file whenever an endpoint is
// removed. It has no effect on pools loaded from a literal list.
func WithPersistence(persist bool) Option {
	return func(opts *options) {
		opts.persist = persist
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(opts *options) {
		opts.logger = logger
	}
}
