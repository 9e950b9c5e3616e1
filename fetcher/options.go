package fetcher

import (
	"github.com/superjcd/gohltv/cookie"
	"github.com/superjcd/gohltv/counter"
	"github.com/superjcd/gohltv/ua"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type options struct {
	transport    TransportFactory
	cookieGetter cookie.CookieGetter
	uaGetter     ua.UaGetter
	headers      map[string]string
	limiter      *rate.Limiter
	counter      counter.Counter
	logger       *zap.Logger
}

type Option func(opts *options)

func WithTransport(transport TransportFactory) Option {
	return func(opts *options) {
		opts.transport = transport
	}
}

func WithCookieGetter(cookieGetter cookie.CookieGetter) Option {
	return func(opts *options) {
		opts.cookieGetter = cookieGetter
	}
}

func WithHeaders(headers map[string]string) Option {
	return func(opts *options) {
		opts.headers = headers
	}
}

func WithUaGetter(uaGetter ua.UaGetter) Option {
	return func(opts *options) {
		opts.uaGetter = uaGetter
	}
}

// WithLimiter paces every attempt, proxied or direct.
func WithLimiter(limiter *rate.Limiter) Option {
	return func(opts *options) {
		opts.limiter = limiter
	}
}

// WithCounter counts attempt outcomes overall and per proxy.
func WithCounter(c counter.Counter) Option {
	return func(opts *options) {
		opts.counter = c
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(opts *options) {
		opts.logger = logger
	}
}
