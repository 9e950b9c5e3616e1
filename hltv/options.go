package hltv

import (
	"time"

	"github.com/superjcd/gohltv/cache"
	"go.uber.org/zap"
)

type options struct {
	cache    cache.Cache
	cacheTTL time.Duration
	baseURL  string
	location *time.Location
	now      func() time.Time
	logger   *zap.Logger
}

type Option func(opts *options)

// WithCache keeps fetched pages in c for ttl. A ttl of zero disables caching.
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(opts *options) {
		opts.cache = c
		opts.cacheTTL = ttl
	}
}

func WithBaseURL(baseURL string) Option {
	return func(opts *options) {
		opts.baseURL = baseURL
	}
}

// WithLocation sets the zone used for date labels and the ranking week.
func WithLocation(loc *time.Location) Option {
	return func(opts *options) {
		opts.location = loc
	}
}

func WithClock(now func() time.Time) Option {
	return func(opts *options) {
		opts.now = now
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(opts *options) {
		opts.logger = logger
	}
}
