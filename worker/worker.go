package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/superjcd/gohltv/parser"
	"github.com/superjcd/gohltv/request"
	"github.com/superjcd/gohltv/scheduler"
	"go.uber.org/zap"
)

const VISIT_PREFIX = "visited:"

type Worker interface {
	Name() string
	Run(ctx context.Context) error
	BeforeRequest(context.Context, *request.Request) error
}

type worker struct {
	name            string
	Workers         int
	MaxRetries      int
	SaveRequestData bool
	MaxRunTime      time.Duration
	options

	breakOnce sync.Once
	breakErr  error
}

var _ Worker = (*worker)(nil)

func NewWorker(name string, workers, retries int, saveRequestData bool, maxRunTime time.Duration, opts ...Option) (*worker, error) {
	options := options{}
	for _, opt := range opts {
		opt(&options)
	}
	if options.Scheduler == nil || options.Runner == nil || options.Store == nil {
		return nil, errors.New("worker needs a scheduler, a runner and a store")
	}
	if options.Logger == nil {
		options.Logger = zap.NewNop()
	}
	if workers < 1 {
		workers = 1
	}

	w := &worker{name: name, Workers: workers, MaxRetries: retries, SaveRequestData: saveRequestData, MaxRunTime: maxRunTime}
	w.options = options
	return w, nil
}

func (w *worker) BeforeRequest(ctx context.Context, req *request.Request) error {
	if w.RequestModifier != nil {
		return w.RequestModifier(ctx, req)
	}
	return nil
}

// Run consumes jobs until ctx is done, MaxRunTime elapses or the scheduler
// stops. It returns the error that made a loop break, if any.
func (w *worker) Run(ctx context.Context) error {
	if w.MaxRunTime > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.MaxRunTime)
		defer cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := w.Scheduler.Schedule(); err != nil {
		return err
	}
	w.Logger.Info("worker started", zap.String("name", w.name), zap.Int("workers", w.Workers))

	var wg sync.WaitGroup
	for i := 0; i < w.Workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			w.singleRun(ctx, cancel, w.Logger.With(zap.Int("worker_id", id)))
		}(i)
	}
	wg.Wait()

	w.Logger.Info("worker stopped", zap.String("name", w.name))
	return w.breakErr
}

func (w *worker) singleRun(ctx context.Context, cancel context.CancelFunc, logger *zap.Logger) {
	for {
		req, err := w.Scheduler.Pull(ctx)
		if err != nil {
			if !errors.Is(err, scheduler.ErrStopped) && ctx.Err() == nil {
				logger.Error("pull job failed", zap.Error(err))
			}
			return
		}

		if sig := w.process(ctx, req, logger); sig&BreakWithoutPanicSignal != 0 {
			cancel()
			return
		}
	}
}

func (w *worker) process(ctx context.Context, req *request.Request, logger *zap.Logger) Signal {
	logger = logger.With(zap.String("job_id", req.ID), zap.String("kind", req.Kind))

	if w.Limiter != nil {
		if err := w.Limiter.Wait(ctx); err != nil {
			return DummySignal
		}
	}

	var reqKey string
	if w.UseVisit {
		reqKey = VISIT_PREFIX + req.Hash(w.AdditionalHashKeys...)
		_, visited, err := w.Visiter.Get(reqKey)
		if err != nil {
			logger.Warn("visit lookup failed", zap.Error(err))
		} else if visited {
			logger.Debug("job already done")
			return DummySignal
		}
	}

	if err := w.BeforeRequest(ctx, req); err != nil {
		logger.Error("before request hook failed", zap.Error(err))
		return ContinueWithoutRetrySignal
	}

	items, err := w.Runner.Run(ctx, req)
	if err != nil {
		if ctx.Err() != nil {
			return DummySignal
		}
		sig := signalFor(err)
		switch {
		case sig&BreakWithoutPanicSignal != 0:
			logger.Error("job failed, stopping", zap.Error(err))
			w.breakOnce.Do(func() { w.breakErr = fmt.Errorf("job %s: %w", req.ID, err) })
		case sig&ContinueWithRetrySignal != 0:
			w.retry(ctx, req, err, logger)
		default:
			logger.Warn("job dropped", zap.Error(err))
		}
		return sig
	}

	if w.SaveRequestData {
		decorate(items, req)
	}
	if len(items) > 0 {
		if err := w.Store.Save(ctx, items...); err != nil {
			w.retry(ctx, req, err, logger)
			return ContinueWithRetrySignal
		}
	}
	logger.Info("job done", zap.Int("items", len(items)))

	if w.UseVisit {
		if err := w.Visiter.Set(reqKey, req.ID, w.VisiterTTL); err != nil {
			logger.Warn("mark visited failed", zap.Error(err))
		}
	}
	return DummySignal
}

func (w *worker) retry(ctx context.Context, req *request.Request, cause error, logger *zap.Logger) {
	if req.Retry >= w.MaxRetries {
		logger.Warn("too many failures, job dropped", zap.Int("max_retries", w.MaxRetries), zap.Error(cause))
		return
	}
	req.Retry++
	logger.Info("job failed, retrying", zap.Int("retry", req.Retry), zap.Error(cause))
	if err := w.Scheduler.Push(ctx, scheduler.QUEUE_PUSH, req); err != nil && ctx.Err() == nil {
		logger.Error("requeue job failed", zap.Error(err))
	}
}

func decorate(items []parser.ParseItem, req *request.Request) {
	for _, item := range items {
		item["job_id"] = req.ID
		for k, v := range req.Args {
			if _, ok := item[k]; !ok {
				item[k] = v
			}
		}
	}
}

func (w *worker) Name() string {
	return w.name
}
