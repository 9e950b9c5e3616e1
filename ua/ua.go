package ua

import (
	"context"
	"math/rand"
)

var DEFAULT_UAS = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:121.0) Gecko/20100101 Firefox/121.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.2 Safari/605.1.15",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36 Edg/120.0.0.0",
}

type UaGetter interface {
	Get(context.Context) (string, error)
}

type randomUA struct {
	uas []string
}

func (u *randomUA) Get(ctx context.Context) (string, error) {
	return u.uas[rand.Intn(len(u.uas))], nil
}

// NewRandomUAGetter picks a user agent from uas, or DEFAULT_UAS when none are given.
func NewRandomUAGetter(uas ...string) *randomUA {
	if len(uas) == 0 {
		uas = DEFAULT_UAS
	}
	return &randomUA{uas: uas}
}
