package fetcher

import (
	"errors"
	"fmt"

	"github.com/superjcd/gohltv/proxy"
)

// ErrInvalidURL rejects targets that are not absolute http(s) URLs.
var ErrInvalidURL = errors.New("url must be absolute http or https")

// FetchError reports a failed direct (unproxied) fetch.
type FetchError struct {
	URL      string
	Attempts int
	Last     Outcome
	Status   int
	Err      error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %s after %d attempt(s): %v", e.URL, e.Last, e.Attempts, e.Err)
	}
	return fmt.Sprintf("fetch %s: %s after %d attempt(s), status %d", e.URL, e.Last, e.Attempts, e.Status)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// RetriesExhaustedError reports that every permitted proxied attempt failed.
type RetriesExhaustedError struct {
	URL      string
	Attempts int
	Last     Outcome
	Err      error
}

func (e *RetriesExhaustedError) Error() string {
	return fmt.Sprintf("fetch %s: retries exhausted after %d attempt(s), last outcome %s", e.URL, e.Attempts, e.Last)
}

func (e *RetriesExhaustedError) Unwrap() error {
	return e.Err
}

// ProxyExhaustedError reports that the pool ran out of endpoints before any
// attempt succeeded.
type ProxyExhaustedError struct {
	URL      string
	Attempts int
}

func (e *ProxyExhaustedError) Error() string {
	return fmt.Sprintf("fetch %s: no live proxies left after %d attempt(s)", e.URL, e.Attempts)
}

func (e *ProxyExhaustedError) Unwrap() error {
	return proxy.ErrEmptyPool
}
