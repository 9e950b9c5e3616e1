package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/google/uuid"
	"github.com/superjcd/gohltv/proxy"
	"go.uber.org/zap"
)

const maxBodySize = 16 << 20

// DEFAULT_HEADERS are sent with every request; hltvTimeZone pins the times
// rendered in match lists to UTC.
var DEFAULT_HEADERS = map[string]string{
	"Referer":      "https://www.hltv.org/stats",
	"hltvTimeZone": "UTC",
}

type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Page, error)
}

// Pool is the part of *proxy.Pool the fetcher drives.
type Pool interface {
	Select() (proxy.Endpoint, error)
	Release(proxy.Endpoint)
	Remove(proxy.Endpoint) (bool, error)
	Size() int
}

type fetcher struct {
	policy Policy
	pool   Pool
	options
}

var _ Fetcher = (*fetcher)(nil)

// NewFetcher returns a fetcher for policy. pool may be nil only when
// policy.UseProxy is false.
func NewFetcher(policy Policy, pool Pool, opts ...Option) (*fetcher, error) {
	policy = policy.normalized()
	if policy.UseProxy && pool == nil {
		return nil, proxy.ErrConfiguration
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.transport == nil {
		o.transport = NewTransport(policy.Timeout)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	if o.headers == nil {
		o.headers = DEFAULT_HEADERS
	}

	return &fetcher{policy: policy, pool: pool, options: o}, nil
}

// Fetch returns the content of url. Proxied fetches fail with
// *ProxyExhaustedError or *RetriesExhaustedError, direct ones with
// *FetchError. Cancelling ctx stops the fetch between or during attempts.
func (f *fetcher) Fetch(ctx context.Context, url string) (*Page, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{URL: url, Last: NetworkError, Err: err}
	}
	if (req.URL.Scheme != "http" && req.URL.Scheme != "https") || req.URL.Host == "" {
		return nil, &FetchError{URL: url, Last: NetworkError, Err: ErrInvalidURL}
	}
	if err := f.setHeaders(ctx, req); err != nil {
		return nil, err
	}
	var jar *cookiejar.Jar
	if f.cookieGetter != nil {
		if jar, err = f.cookieGetter.Get(ctx); err != nil {
			return nil, fmt.Errorf("get cookie jar failed: %w", err)
		}
	}

	logger := f.logger.With(zap.String("fetch_id", uuid.NewString()), zap.String("url", url))
	if !f.policy.UseProxy {
		return f.fetchDirect(ctx, req, jar, logger)
	}
	return f.fetchProxied(ctx, req, jar, logger)
}

func (f *fetcher) fetchProxied(ctx context.Context, req *http.Request, jar *cookiejar.Jar, logger *zap.Logger) (*Page, error) {
	url := req.URL.String()
	var last AttemptResult

	for attempt := 1; attempt <= f.policy.MaxRetries; attempt++ {
		if err := f.wait(ctx); err != nil {
			return nil, err
		}
		e, err := f.pool.Select()
		if err != nil {
			logger.Warn("proxy pool exhausted", zap.Int("attempts", attempt-1))
			return nil, &ProxyExhaustedError{URL: url, Attempts: attempt - 1}
		}

		logger.Debug("attempt", zap.Int("attempt", attempt), zap.Stringer("proxy", e))
		last = f.attempt(ctx, req, jar, &e)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		if last.Outcome == Success {
			logger.Debug("fetched", zap.Stringer("proxy", e), zap.Int("attempt", attempt), zap.Duration("elapsed", last.Elapsed))
			return &Page{URL: url, Status: last.Status, Body: last.Body, Endpoint: &e, Attempts: attempt}, nil
		}

		logger.Info("attempt failed",
			zap.Int("attempt", attempt),
			zap.Stringer("proxy", e),
			zap.Stringer("outcome", last.Outcome),
			zap.Int("status", last.Status),
			zap.Duration("elapsed", last.Elapsed),
			zap.Error(last.Err))

		if f.policy.RemoveOnFailure {
			// the removal stands in memory even when the proxy file could not be rewritten
			if _, err := f.pool.Remove(e); err != nil {
				logger.Error("remove proxy failed", zap.Stringer("proxy", e), zap.Error(err))
			}
		} else {
			f.pool.Release(e)
		}
	}

	logger.Warn("retries exhausted",
		zap.Int("attempts", f.policy.MaxRetries),
		zap.Stringer("last", last.Outcome),
		zap.Int("pool_size", f.pool.Size()))
	return nil, &RetriesExhaustedError{URL: url, Attempts: f.policy.MaxRetries, Last: last.Outcome, Err: last.Err}
}

func (f *fetcher) fetchDirect(ctx context.Context, req *http.Request, jar *cookiejar.Jar, logger *zap.Logger) (*Page, error) {
	url := req.URL.String()
	var last AttemptResult

	for attempt := 1; attempt <= f.policy.DirectRetries; attempt++ {
		if attempt > 1 {
			delay := f.policy.directDelay(attempt - 1)
			logger.Info("calling again", zap.Duration("delay", delay))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		if err := f.wait(ctx); err != nil {
			return nil, err
		}
		last = f.attempt(ctx, req, jar, nil)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if last.Outcome == Success {
			return &Page{URL: url, Status: last.Status, Body: last.Body, Attempts: attempt}, nil
		}
		logger.Info("direct attempt failed",
			zap.Int("attempt", attempt),
			zap.Stringer("outcome", last.Outcome),
			zap.Int("status", last.Status),
			zap.Error(last.Err))
	}

	return nil, &FetchError{URL: url, Attempts: f.policy.DirectRetries, Last: last.Outcome, Status: last.Status, Err: last.Err}
}

// attempt issues one GET through e (direct when e is nil) and classifies it.
func (f *fetcher) attempt(ctx context.Context, req *http.Request, jar *cookiejar.Jar, e *proxy.Endpoint) AttemptResult {
	start := time.Now()
	result := f.do(ctx, req, jar, e)
	result.Endpoint = e
	result.Elapsed = time.Since(start)
	f.count(result)
	return result
}

// wait blocks until the limiter admits the next attempt. Its failure is the
// caller's deadline or cancellation, never the endpoint's.
func (f *fetcher) wait(ctx context.Context) error {
	if f.limiter == nil {
		return nil
	}
	if err := f.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("wait for rate limiter: %w", err)
	}
	return nil
}

func (f *fetcher) do(ctx context.Context, req *http.Request, jar *cookiejar.Jar, e *proxy.Endpoint) AttemptResult {
	rt, err := f.transport(e)
	if err != nil {
		return AttemptResult{Outcome: NetworkError, Err: err}
	}
	cli := &http.Client{Transport: rt}
	if jar != nil {
		cli.Jar = jar
	}

	attemptCtx, cancel := context.WithTimeout(ctx, f.policy.Timeout)
	defer cancel()

	resp, err := cli.Do(req.Clone(attemptCtx))
	if err != nil {
		return AttemptResult{Outcome: classifyError(err), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return AttemptResult{Outcome: classifyError(err), Status: resp.StatusCode, Err: err}
	}

	text := decodeBody(body, resp.Header.Get("Content-Type"))
	outcome := classifyResponse(resp.StatusCode, text)
	result := AttemptResult{Outcome: outcome, Status: resp.StatusCode}
	switch outcome {
	case Success:
		result.Body = text
	case Blocked:
		result.Err = errors.New("blocked by origin")
	default:
		result.Err = fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return result
}

func (f *fetcher) setHeaders(ctx context.Context, req *http.Request) error {
	for k, v := range f.headers {
		req.Header.Set(k, v)
	}
	if f.uaGetter != nil {
		ua, err := f.uaGetter.Get(ctx)
		if err != nil {
			return fmt.Errorf("get ua failed: %w", err)
		}
		req.Header.Set("User-Agent", ua)
	}
	return nil
}

func (f *fetcher) count(r AttemptResult) {
	if f.counter == nil {
		return
	}
	f.counter.Incr(r.Outcome.String(), 1)
	if r.Endpoint != nil {
		f.counter.Incr("proxy:"+r.Endpoint.Key()+":"+r.Outcome.String(), 1)
	}
}
