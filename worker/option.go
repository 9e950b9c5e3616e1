package worker

import (
	"context"
	"time"

	"github.com/superjcd/gohltv/cache"
	"github.com/superjcd/gohltv/parser"
	"github.com/superjcd/gohltv/request"
	"github.com/superjcd/gohltv/scheduler"
	"github.com/superjcd/gohltv/store"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Runner executes one job; *hltv.Client is the usual one.
type Runner interface {
	Run(ctx context.Context, req *request.Request) ([]parser.ParseItem, error)
}

type RequestModifier func(context.Context, *request.Request) error

type options struct {
	Scheduler          scheduler.Scheduler
	Limiter            *rate.Limiter
	UseVisit           bool
	Visiter            cache.Cache
	VisiterTTL         time.Duration
	Runner             Runner
	Store              store.Storage
	RequestModifier    RequestModifier
	AdditionalHashKeys []string
	Logger             *zap.Logger
}

type Option func(opts *options)

func WithScheduler(s scheduler.Scheduler) Option {
	return func(opts *options) {
		opts.Scheduler = s
	}
}

func WithStore(store store.Storage) Option {
	return func(opts *options) {
		opts.Store = store
	}
}

func WithRunner(r Runner) Option {
	return func(opts *options) {
		opts.Runner = r
	}
}

func WithRequestModifier(m RequestModifier) Option {
	return func(opts *options) {
		opts.RequestModifier = m
	}
}

func WithLimiter(limiter *rate.Limiter) Option {
	return func(opts *options) {
		opts.Limiter = limiter
	}
}

// WithVisiter skips jobs already done within ttl.
func WithVisiter(v cache.Cache, ttl time.Duration) Option {
	return func(opts *options) {
		opts.Visiter = v
		opts.UseVisit = true
		opts.VisiterTTL = ttl
	}
}

// WithAdditionalHashKeys restricts the visit key to these job arguments.
func WithAdditionalHashKeys(keys []string) Option {
	return func(opts *options) {
		opts.AdditionalHashKeys = keys
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(opts *options) {
		opts.Logger = logger
	}
}
