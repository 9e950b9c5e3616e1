package default_builder

import (
	"context"
	"errors"

	"github.com/go-redis/redis"
	"github.com/superjcd/gohltv/cache"
	redis_cache "github.com/superjcd/gohltv/cache/redis"
	"github.com/superjcd/gohltv/config"
	"github.com/superjcd/gohltv/cookie"
	"github.com/superjcd/gohltv/counter"
	"github.com/superjcd/gohltv/fetcher"
	"github.com/superjcd/gohltv/hltv"
	"github.com/superjcd/gohltv/proxy"
	"github.com/superjcd/gohltv/scheduler"
	"github.com/superjcd/gohltv/scheduler/nsq"
	"github.com/superjcd/gohltv/store"
	"github.com/superjcd/gohltv/store/mongo"
	"github.com/superjcd/gohltv/ua"
	"github.com/superjcd/gohltv/worker"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Builder wires the packages together from a config. Parts are built once
// and shared; Close releases whatever was opened.
type Builder struct {
	cfg    *config.Config
	logger *zap.Logger

	pool    *proxy.Pool
	counter counter.Counter
	cache   cache.Cache
	client  *hltv.Client
	closers []func() error
}

func New(cfg *config.Config, logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{cfg: cfg, logger: logger}
}

func (b *Builder) redisOptions() redis.Options {
	return redis.Options{Addr: b.cfg.Redis.Addr, Password: b.cfg.Redis.Password, DB: b.cfg.Redis.DB}
}

// Pool loads the proxy pool, or returns nil when proxies are off.
func (b *Builder) Pool() (*proxy.Pool, error) {
	if !b.cfg.Proxy.UseProxy {
		return nil, nil
	}
	if b.pool != nil {
		return b.pool, nil
	}
	pool, err := proxy.Load(b.cfg.ProxySource(),
		proxy.WithProtocol(b.cfg.Proxy.ProxyProtocol),
		proxy.WithPersistence(b.cfg.Proxy.Persist),
		proxy.WithLogger(b.logger.Named("proxy")))
	if err != nil {
		return nil, err
	}
	b.logger.Info("proxy pool loaded", zap.Int("size", pool.Size()))
	b.pool = pool
	return pool, nil
}

func (b *Builder) Counter() counter.Counter {
	if b.counter != nil {
		return b.counter
	}
	if b.cfg.Redis.Counter {
		rc := counter.NewRedisCounter(b.redisOptions(), b.cfg.Redis.CounterTTL, b.cfg.Redis.Prefix+"counter:")
		b.closers = append(b.closers, rc.Close)
		b.counter = rc
	} else {
		b.counter = counter.NewMemoryCounter("")
	}
	return b.counter
}

func (b *Builder) Cache() cache.Cache {
	if b.cache != nil {
		return b.cache
	}
	if b.cfg.Cache.Backend == "redis" {
		rc := redis_cache.NewRedisCache(b.redisOptions(), b.cfg.Redis.Prefix)
		b.closers = append(b.closers, rc.Close)
		b.cache = rc
	} else {
		b.cache = cache.NewMemory()
	}
	return b.cache
}

func (b *Builder) Fetcher() (fetcher.Fetcher, error) {
	if err := b.cfg.Validate(); err != nil {
		return nil, err
	}
	pool, err := b.Pool()
	if err != nil {
		return nil, err
	}

	opts := []fetcher.Option{
		fetcher.WithUaGetter(ua.NewRandomUAGetter()),
		fetcher.WithCounter(b.Counter()),
		fetcher.WithLogger(b.logger.Named("fetcher")),
	}
	if b.cfg.Fetch.Session {
		opts = append(opts, fetcher.WithCookieGetter(cookie.NewSessionCookieGetter()))
	} else {
		opts = append(opts, fetcher.WithCookieGetter(cookie.NewFreshCookieGetter()))
	}
	if b.cfg.Fetch.RateLimit > 0 {
		opts = append(opts, fetcher.WithLimiter(rate.NewLimiter(rate.Limit(b.cfg.Fetch.RateLimit), 1)))
	}

	// a nil *proxy.Pool must not reach the interface
	var fp fetcher.Pool
	if pool != nil {
		fp = pool
	}
	f, err := fetcher.NewFetcher(b.cfg.Policy(), fp, opts...)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (b *Builder) Client() (*hltv.Client, error) {
	if b.client != nil {
		return b.client, nil
	}
	f, err := b.Fetcher()
	if err != nil {
		return nil, err
	}
	opts := []hltv.Option{hltv.WithLogger(b.logger.Named("hltv"))}
	if b.cfg.Cache.TTL > 0 {
		opts = append(opts, hltv.WithCache(b.Cache(), b.cfg.Cache.TTL))
	}
	b.client = hltv.NewClient(f, opts...)
	return b.client, nil
}

// Build assembles a worker consuming NSQ jobs and buffering records into
// MongoDB.
func (b *Builder) Build(ctx context.Context, opts ...worker.Option) (worker.Worker, error) {
	sched, err := nsq.NewNsqScheduler(b.cfg.Nsq.Topic, b.cfg.Nsq.Channel, b.cfg.Nsq.NsqdAddr, b.cfg.Nsq.LookupdAddr,
		nsq.WithMaxInFlight(b.cfg.Worker.Workers),
		nsq.WithLogger(b.logger.Named("scheduler")))
	if err != nil {
		return nil, err
	}
	b.closers = append(b.closers, func() error { sched.Stop(); return nil })

	storage, err := mongo.NewBufferedMongoStorage(ctx, b.cfg.Mongo.URI, b.cfg.Mongo.Database, b.cfg.Mongo.Collection,
		mongo.WithBufferSize(b.cfg.Mongo.BufferSize),
		mongo.WithFlushInterval(b.cfg.Mongo.FlushInterval),
		mongo.WithCounter(b.Counter(), "kind"),
		mongo.WithLogger(b.logger.Named("store")))
	if err != nil {
		return nil, err
	}
	b.closers = append(b.closers, storage.Close)

	return b.BuildWith(sched, storage, opts...)
}

// BuildWith assembles a worker around a given scheduler and storage.
func (b *Builder) BuildWith(sched scheduler.Scheduler, storage store.Storage, opts ...worker.Option) (worker.Worker, error) {
	client, err := b.Client()
	if err != nil {
		return nil, err
	}

	wc := b.cfg.Worker
	base := []worker.Option{
		worker.WithScheduler(sched),
		worker.WithRunner(client),
		worker.WithStore(storage),
		worker.WithLogger(b.logger.Named("worker")),
	}
	if wc.VisitTTL > 0 {
		base = append(base, worker.WithVisiter(b.Cache(), wc.VisitTTL))
	}
	return worker.NewWorker(wc.Name, wc.Workers, wc.Retries, wc.SaveRequestData, wc.MaxRunTime, append(base, opts...)...)
}

// Close releases everything opened by the builder, last opened first.
func (b *Builder) Close() error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	b.closers = nil
	return errors.Join(errs...)
}
