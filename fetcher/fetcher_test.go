package fetcher

import (
	"context"
	"errors"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/superjcd/gohltv/counter"
	"github.com/superjcd/gohltv/proxy"
	"github.com/superjcd/gohltv/ua"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/time/rate"
)

const challengePage = `<html><head><title>Just a moment...</title></head>
<body><h1 id="challenge-error-title">Enable JavaScript and cookies to continue</h1></body></html>`

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (fn roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return fn(r)
}

func stubTransport(handler func(e *proxy.Endpoint, r *http.Request) (*http.Response, error)) TransportFactory {
	return func(e *proxy.Endpoint) (http.RoundTripper, error) {
		return roundTripperFunc(func(r *http.Request) (*http.Response, error) {
			return handler(e, r)
		}), nil
	}
}

func respond(r *http.Request, status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"text/html; charset=utf-8"}},
		Body:       io.NopCloser(strings.NewReader(body)),
		Request:    r,
	}
}

func hang(r *http.Request) (*http.Response, error) {
	<-r.Context().Done()
	return nil, r.Context().Err()
}

func loadPool(t *testing.T, entries ...string) *proxy.Pool {
	t.Helper()
	p, err := proxy.Load(proxy.Source{List: entries})
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestBlockedProxyIsRemovedAndNextSucceeds(t *testing.T) {
	pool := loadPool(t, "http://a:1", "http://b:2")
	transport := stubTransport(func(e *proxy.Endpoint, r *http.Request) (*http.Response, error) {
		if e.Addr == "a:1" {
			return respond(r, http.StatusForbidden, "forbidden"), nil
		}
		return respond(r, http.StatusOK, "<html>matches</html>"), nil
	})

	policy := Policy{UseProxy: true, MaxRetries: 2, RemoveOnFailure: true, Timeout: time.Second}
	f, err := NewFetcher(policy, pool, WithTransport(transport))
	if err != nil {
		t.Fatal(err)
	}

	page, err := f.Fetch(context.Background(), "https://www.hltv.org/matches")
	if err != nil {
		t.Fatal(err)
	}
	if page.Body != "<html>matches</html>" {
		t.Errorf("unexpected body %q", page.Body)
	}
	if page.Endpoint == nil || page.Endpoint.Addr != "b:2" {
		t.Errorf("expected content from b:2, got %v", page.Endpoint)
	}
	if page.Attempts != 2 {
		t.Errorf("expected 2 attempts, got %d", page.Attempts)
	}
	if pool.Size() != 1 {
		t.Errorf("expected pool size 1, got %d", pool.Size())
	}
	if e, _ := pool.Select(); e.Addr != "b:2" {
		t.Errorf("expected only b:2 left, got %s", e)
	}
}

func TestTimeoutsExhaustRetriesWithoutRemoval(t *testing.T) {
	pool := loadPool(t, "http://a:1")
	var (
		mu   sync.Mutex
		used []string
	)
	transport := stubTransport(func(e *proxy.Endpoint, r *http.Request) (*http.Response, error) {
		mu.Lock()
		used = append(used, e.Addr)
		mu.Unlock()
		return hang(r)
	})

	policy := Policy{UseProxy: true, MaxRetries: 3, RemoveOnFailure: false, Timeout: 20 * time.Millisecond}
	f, _ := NewFetcher(policy, pool, WithTransport(transport))

	_, err := f.Fetch(context.Background(), "https://www.hltv.org/matches")
	var rerr *RetriesExhaustedError
	if !errors.As(err, &rerr) {
		t.Fatalf("expected *RetriesExhaustedError, got %v", err)
	}
	if rerr.Attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", rerr.Attempts)
	}
	if rerr.Last != Timeout {
		t.Errorf("expected last outcome timeout, got %s", rerr.Last)
	}
	if len(used) != 3 {
		t.Fatalf("expected 3 requests, got %d", len(used))
	}
	for _, addr := range used {
		if addr != "a:1" {
			t.Errorf("unexpected endpoint %s", addr)
		}
	}
	if pool.Size() != 1 {
		t.Errorf("pool should be unchanged, size %d", pool.Size())
	}
}

func TestAttemptCap(t *testing.T) {
	for _, k := range []int{1, 2, 5} {
		pool := loadPool(t, "http://a:1", "http://b:2", "http://c:3")
		var calls int32
		transport := stubTransport(func(e *proxy.Endpoint, r *http.Request) (*http.Response, error) {
			atomic.AddInt32(&calls, 1)
			return nil, errors.New("connection refused")
		})

		f, _ := NewFetcher(Policy{UseProxy: true, MaxRetries: k, Timeout: time.Second}, pool, WithTransport(transport))
		_, err := f.Fetch(context.Background(), "https://www.hltv.org/")

		var rerr *RetriesExhaustedError
		if !errors.As(err, &rerr) {
			t.Fatalf("k=%d: expected *RetriesExhaustedError, got %v", k, err)
		}
		if rerr.Last != NetworkError {
			t.Errorf("k=%d: expected network_error, got %s", k, rerr.Last)
		}
		if int(calls) != k {
			t.Errorf("k=%d: expected %d attempts, got %d", k, k, calls)
		}
	}
}

func TestPoolExhaustion(t *testing.T) {
	pool := loadPool(t, "http://a:1", "http://b:2")
	transport := stubTransport(func(e *proxy.Endpoint, r *http.Request) (*http.Response, error) {
		return respond(r, http.StatusOK, challengePage), nil
	})

	f, _ := NewFetcher(Policy{UseProxy: true, MaxRetries: 5, RemoveOnFailure: true}, pool, WithTransport(transport))
	_, err := f.Fetch(context.Background(), "https://www.hltv.org/")

	var perr *ProxyExhaustedError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *ProxyExhaustedError, got %v", err)
	}
	if perr.Attempts != 2 {
		t.Errorf("expected 2 attempts before exhaustion, got %d", perr.Attempts)
	}
	if !errors.Is(err, proxy.ErrEmptyPool) {
		t.Errorf("ProxyExhaustedError should unwrap to ErrEmptyPool")
	}
}

func TestProxyRequiresPool(t *testing.T) {
	if _, err := NewFetcher(Policy{UseProxy: true}, nil); !errors.Is(err, proxy.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

func TestConfigurationErrorBeforeNetwork(t *testing.T) {
	var calls int32
	transport := stubTransport(func(e *proxy.Endpoint, r *http.Request) (*http.Response, error) {
		atomic.AddInt32(&calls, 1)
		return respond(r, http.StatusOK, "ok"), nil
	})

	pool, err := proxy.Load(proxy.Source{})
	if !errors.Is(err, proxy.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
	if pool != nil {
		if _, err := NewFetcher(Policy{UseProxy: true}, pool, WithTransport(transport)); err != nil {
			t.Fatal(err)
		}
	}
	if calls != 0 {
		t.Errorf("no request should be made, got %d", calls)
	}
}

// countingPool records successful removals to catch double removal.
type countingPool struct {
	*proxy.Pool
	mu      sync.Mutex
	removed map[string]int
}

func (p *countingPool) Remove(e proxy.Endpoint) (bool, error) {
	ok, err := p.Pool.Remove(e)
	if ok {
		p.mu.Lock()
		p.removed[e.Key()]++
		p.mu.Unlock()
	}
	return ok, err
}

func TestConcurrentFetchesSharePool(t *testing.T) {
	pool := &countingPool{
		Pool:    loadPool(t, "http://a:1", "http://b:2", "http://c:3", "http://d:4"),
		removed: map[string]int{},
	}
	transport := stubTransport(func(e *proxy.Endpoint, r *http.Request) (*http.Response, error) {
		time.Sleep(time.Duration(rand.Intn(3)) * time.Millisecond)
		if e.Addr == "d:4" {
			return respond(r, http.StatusOK, "ok"), nil
		}
		return respond(r, http.StatusTooManyRequests, ""), nil
	})

	f, _ := NewFetcher(Policy{UseProxy: true, MaxRetries: 4, RemoveOnFailure: true}, pool, WithTransport(transport))

	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.Fetch(context.Background(), "https://www.hltv.org/")
			if err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		var rerr *RetriesExhaustedError
		var perr *ProxyExhaustedError
		if !errors.As(err, &rerr) && !errors.As(err, &perr) {
			t.Errorf("unexpected error %v", err)
		}
	}
	for key, n := range pool.removed {
		if n != 1 {
			t.Errorf("%s removed %d times", key, n)
		}
		if key == "http://d:4" {
			t.Errorf("healthy proxy removed")
		}
	}
	if pool.Size() != 1 {
		t.Errorf("expected only the healthy proxy left, got %d", pool.Size())
	}
}

func TestCancelDuringAttempt(t *testing.T) {
	pool := loadPool(t, "http://a:1")
	started := make(chan struct{})
	transport := stubTransport(func(e *proxy.Endpoint, r *http.Request) (*http.Response, error) {
		close(started)
		return hang(r)
	})

	f, _ := NewFetcher(Policy{UseProxy: true, MaxRetries: 3, Timeout: time.Minute}, pool, WithTransport(transport))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := f.Fetch(ctx, "https://www.hltv.org/")
		done <- err
	}()
	<-started
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("fetch did not return after cancel")
	}
	if _, err := pool.Select(); err != nil {
		t.Errorf("pool unusable after cancel: %v", err)
	}
}

func TestDirectFetch(t *testing.T) {
	var gotHeaders http.Header
	transport := stubTransport(func(e *proxy.Endpoint, r *http.Request) (*http.Response, error) {
		if e != nil {
			t.Errorf("direct fetch should not use a proxy, got %s", e)
		}
		gotHeaders = r.Header
		return respond(r, http.StatusOK, "<html>ok</html>"), nil
	})

	f, _ := NewFetcher(Policy{}, nil, WithTransport(transport), WithUaGetter(ua.NewRandomUAGetter("gohltv-test")))
	page, err := f.Fetch(context.Background(), "https://www.hltv.org/")
	if err != nil {
		t.Fatal(err)
	}
	if page.Body != "<html>ok</html>" || page.Endpoint != nil {
		t.Errorf("unexpected page %+v", page)
	}
	if gotHeaders.Get("User-Agent") != "gohltv-test" {
		t.Errorf("unexpected user agent %q", gotHeaders.Get("User-Agent"))
	}
	if gotHeaders.Get("hltvTimeZone") != "UTC" {
		t.Errorf("missing hltvTimeZone header")
	}
}

func TestDirectFetchFailure(t *testing.T) {
	var calls int32
	transport := stubTransport(func(e *proxy.Endpoint, r *http.Request) (*http.Response, error) {
		atomic.AddInt32(&calls, 1)
		return respond(r, http.StatusForbidden, "denied"), nil
	})

	policy := Policy{DirectRetries: 2, DelayStep: time.Millisecond}
	f, _ := NewFetcher(policy, nil, WithTransport(transport))
	_, err := f.Fetch(context.Background(), "https://www.hltv.org/")

	var ferr *FetchError
	if !errors.As(err, &ferr) {
		t.Fatalf("expected *FetchError, got %v", err)
	}
	if ferr.Status != http.StatusForbidden || ferr.Last != Blocked {
		t.Errorf("unexpected error %+v", ferr)
	}
	if calls != 2 {
		t.Errorf("expected 2 attempts, got %d", calls)
	}
}

func TestDirectFetchNoRetryByDefault(t *testing.T) {
	var calls int32
	transport := stubTransport(func(e *proxy.Endpoint, r *http.Request) (*http.Response, error) {
		atomic.AddInt32(&calls, 1)
		return nil, errors.New("dial tcp: no such host")
	})

	f, _ := NewFetcher(DefaultPolicy(), nil, WithTransport(transport))
	_, err := f.Fetch(context.Background(), "https://www.hltv.org/")

	var ferr *FetchError
	if !errors.As(err, &ferr) || ferr.Last != NetworkError {
		t.Fatalf("expected network FetchError, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected a single attempt, got %d", calls)
	}
}

func TestInvalidURL(t *testing.T) {
	f, _ := NewFetcher(Policy{}, nil)
	_, err := f.Fetch(context.Background(), "://bad")
	var ferr *FetchError
	if !errors.As(err, &ferr) {
		t.Fatalf("expected *FetchError, got %v", err)
	}
}

func TestNonHTTPURLNeverTouchesPool(t *testing.T) {
	for _, url := range []string{"", "/matches", "www.hltv.org/matches", "ftp://www.hltv.org/"} {
		pool := loadPool(t, "http://127.0.0.1:1", "http://127.0.0.1:2")
		var calls int32
		transport := stubTransport(func(e *proxy.Endpoint, r *http.Request) (*http.Response, error) {
			atomic.AddInt32(&calls, 1)
			return nil, errors.New("unsupported protocol scheme")
		})

		f, _ := NewFetcher(Policy{UseProxy: true, MaxRetries: 2, RemoveOnFailure: true}, pool, WithTransport(transport))
		_, err := f.Fetch(context.Background(), url)

		var ferr *FetchError
		if !errors.As(err, &ferr) || !errors.Is(err, ErrInvalidURL) {
			t.Errorf("%q: expected *FetchError wrapping ErrInvalidURL, got %v", url, err)
		}
		if calls != 0 {
			t.Errorf("%q: expected no requests, got %d", url, calls)
		}
		if pool.Size() != 2 {
			t.Errorf("%q: expected pool size 2, got %d", url, pool.Size())
		}
	}
}

func TestLimiterDeadlineKeepsPool(t *testing.T) {
	pool := loadPool(t, "http://a:1", "http://b:2", "http://c:3")
	var calls int32
	transport := stubTransport(func(e *proxy.Endpoint, r *http.Request) (*http.Response, error) {
		atomic.AddInt32(&calls, 1)
		return respond(r, http.StatusOK, "ok"), nil
	})
	limiter := rate.NewLimiter(rate.Every(time.Second), 1)
	limiter.Allow()

	policy := Policy{UseProxy: true, MaxRetries: 3, RemoveOnFailure: true, Timeout: time.Second}
	f, _ := NewFetcher(policy, pool, WithTransport(transport), WithLimiter(limiter))

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	_, err := f.Fetch(ctx, "https://www.hltv.org/matches")
	if err == nil {
		t.Fatal("expected the limiter to refuse the attempt")
	}
	var rerr *RetriesExhaustedError
	if errors.As(err, &rerr) {
		t.Errorf("limiter failure reported as exhausted retries: %v", err)
	}
	if calls != 0 {
		t.Errorf("expected no requests, got %d", calls)
	}
	if pool.Size() != 3 {
		t.Errorf("expected pool size 3, got %d", pool.Size())
	}
}

func TestLimiterDeadlineDirect(t *testing.T) {
	var calls int32
	transport := stubTransport(func(e *proxy.Endpoint, r *http.Request) (*http.Response, error) {
		atomic.AddInt32(&calls, 1)
		return respond(r, http.StatusOK, "ok"), nil
	})
	limiter := rate.NewLimiter(rate.Every(time.Second), 1)
	limiter.Allow()

	f, _ := NewFetcher(Policy{}, nil, WithTransport(transport), WithLimiter(limiter))
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	_, err := f.Fetch(ctx, "https://www.hltv.org/")
	var ferr *FetchError
	if err == nil || errors.As(err, &ferr) {
		t.Errorf("expected a limiter error, got %v", err)
	}
	if calls != 0 {
		t.Errorf("expected no requests, got %d", calls)
	}
}

func TestExhaustionLogsPoolSize(t *testing.T) {
	pool := loadPool(t, "http://a:1", "http://b:2", "http://c:3")
	transport := stubTransport(func(e *proxy.Endpoint, r *http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	})
	core, logs := observer.New(zap.WarnLevel)

	policy := Policy{UseProxy: true, MaxRetries: 2, RemoveOnFailure: true, Timeout: time.Second}
	f, _ := NewFetcher(policy, pool, WithTransport(transport), WithLogger(zap.New(core)))
	if _, err := f.Fetch(context.Background(), "https://www.hltv.org/"); err == nil {
		t.Fatal("expected an error")
	}

	entries := logs.FilterMessage("retries exhausted").All()
	if len(entries) != 1 {
		t.Fatalf("expected one exhaustion entry, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["pool_size"]; got != int64(1) {
		t.Errorf("expected pool_size 1, got %v", got)
	}
}

func TestOutcomesAreCounted(t *testing.T) {
	pool := loadPool(t, "http://a:1", "http://b:2")
	transport := stubTransport(func(e *proxy.Endpoint, r *http.Request) (*http.Response, error) {
		if e.Addr == "a:1" {
			return respond(r, http.StatusOK, challengePage), nil
		}
		return respond(r, http.StatusOK, "ok"), nil
	})
	c := counter.NewMemoryCounter("")

	f, _ := NewFetcher(Policy{UseProxy: true, MaxRetries: 2}, pool, WithTransport(transport), WithCounter(c))
	if _, err := f.Fetch(context.Background(), "https://www.hltv.org/"); err != nil {
		t.Fatal(err)
	}

	if c.Get("blocked") != 1 || c.Get("success") != 1 {
		t.Errorf("unexpected counts %v", c.Snapshot())
	}
	if c.Get("proxy:http://a:1:blocked") != 1 {
		t.Errorf("per-proxy count missing: %v", c.Snapshot())
	}
	// a was released, not removed
	if pool.Size() != 2 {
		t.Errorf("expected pool size 2, got %d", pool.Size())
	}
}
