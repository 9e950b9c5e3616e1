package fetcher

import (
	"time"

	"github.com/superjcd/gohltv/proxy"
)

// defaults
const (
	TIMEOUT        = 5 * time.Second
	MAX_RETRIES    = 3
	DIRECT_RETRIES = 1
	MAX_DELAY      = 15 * time.Second
	DELAY_STEP     = time.Second
)

// Policy controls one Fetch call.
type Policy struct {
	// MaxRetries caps the proxied attempts of a single fetch.
	MaxRetries int
	// Timeout bounds each attempt, body read included.
	Timeout  time.Duration
	UseProxy bool
	// RemoveOnFailure drops a failing endpoint from the pool instead of
	// moving it to the back.
	RemoveOnFailure bool
	// Protocol is attached to proxy entries written as host:port.
	Protocol string

	// DirectRetries caps attempts when UseProxy is false. Attempt n waits
	// n*DelayStep first, capped at MaxDelay.
	DirectRetries int
	DelayStep     time.Duration
	MaxDelay      time.Duration
}

func DefaultPolicy() Policy {
	return Policy{
		MaxRetries:    MAX_RETRIES,
		Timeout:       TIMEOUT,
		Protocol:      proxy.DEFAULT_PROTOCOL,
		DirectRetries: DIRECT_RETRIES,
		DelayStep:     DELAY_STEP,
		MaxDelay:      MAX_DELAY,
	}
}

func (p Policy) normalized() Policy {
	if p.MaxRetries < 1 {
		p.MaxRetries = 1
	}
	if p.Timeout <= 0 {
		p.Timeout = TIMEOUT
	}
	if p.Protocol == "" {
		p.Protocol = proxy.DEFAULT_PROTOCOL
	}
	if p.DirectRetries < 1 {
		p.DirectRetries = DIRECT_RETRIES
	}
	if p.DelayStep <= 0 {
		p.DelayStep = DELAY_STEP
	}
	if p.MaxDelay <= 0 {
		p.MaxDelay = MAX_DELAY
	}
	return p
}

func (p Policy) directDelay(attempt int) time.Duration {
	d := time.Duration(attempt) * p.DelayStep
	if d > p.MaxDelay {
		return p.MaxDelay
	}
	return d
}
