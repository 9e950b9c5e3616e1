package worker

import (
	"errors"

	"github.com/superjcd/gohltv/hltv"
	"github.com/superjcd/gohltv/proxy"
)

// Signal tells a worker loop what to do after a failed job.
type Signal int8

const (
	DummySignal Signal = 1 << iota
	ContinueWithRetrySignal
	ContinueWithoutRetrySignal
	BreakWithoutPanicSignal
)

func signalFor(err error) Signal {
	switch {
	case err == nil:
		return DummySignal
	case errors.Is(err, proxy.ErrEmptyPool), errors.Is(err, proxy.ErrConfiguration):
		// every later job would fail the same way
		return BreakWithoutPanicSignal
	case errors.Is(err, hltv.ErrUnknownKind):
		return ContinueWithoutRetrySignal
	default:
		return ContinueWithRetrySignal
	}
}
