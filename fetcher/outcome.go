package fetcher

import (
	"time"

	"github.com/superjcd/gohltv/proxy"
)

type Outcome int8

const (
	Success Outcome = iota
	Blocked
	NetworkError
	Timeout
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case Blocked:
		return "blocked"
	case NetworkError:
		return "network_error"
	case Timeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// AttemptResult is the classified result of one request through one endpoint.
type AttemptResult struct {
	Outcome  Outcome
	Endpoint *proxy.Endpoint
	Status   int
	Body     string
	Elapsed  time.Duration
	Err      error
}

// Page is the content handed back to callers.
type Page struct {
	URL      string
	Status   int
	Body     string
	Endpoint *proxy.Endpoint
	Attempts int
}
