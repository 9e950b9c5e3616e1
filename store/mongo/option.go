package mongo

import (
	"time"

	"github.com/superjcd/gohltv/counter"
	"github.com/superjcd/gohltv/parser"
	"go.uber.org/zap"
)

const (
	DEFAULT_BUFFER_SIZE    = 100
	DEFAULT_FLUSH_INTERVAL = 10 * time.Second
)

type options struct {
	bufferSize    int
	flushInterval time.Duration
	counter       counter.Counter
	countField    string
	logger        *zap.Logger
}

type Option func(opts *options)

func WithBufferSize(n int) Option {
	return func(opts *options) {
		opts.bufferSize = n
	}
}

// WithFlushInterval sets how often a buffered storage flushes on its own.
func WithFlushInterval(d time.Duration) Option {
	return func(opts *options) {
		opts.flushInterval = d
	}
}

// WithCounter counts saved items per value of field.
func WithCounter(c counter.Counter, field string) Option {
	return func(opts *options) {
		opts.counter = c
		opts.countField = field
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(opts *options) {
		opts.logger = logger
	}
}

func newOptions(opts []Option) options {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.bufferSize <= 0 {
		o.bufferSize = DEFAULT_BUFFER_SIZE
	}
	if o.flushInterval <= 0 {
		o.flushInterval = DEFAULT_FLUSH_INTERVAL
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	return o
}

// count increments the counter once per item under the item's count field
// value; items without a string value are counted as "unknown".
func (o options) count(items []parser.ParseItem) {
	if o.counter == nil {
		return
	}
	counts := make(map[string]int64)
	for _, item := range items {
		key, ok := item[o.countField].(string)
		if !ok {
			key = "unknown"
		}
		counts["saved:"+key]++
	}
	for k, v := range counts {
		o.counter.Incr(k, v)
	}
}
