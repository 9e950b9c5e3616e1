package cookie

import (
	"context"
	"net/http/cookiejar"
	"sync"
)

type CookieGetter interface {
	Get(context.Context) (*cookiejar.Jar, error)
}

// sessionCookieGetter hands out the same jar for the whole process, so
// cookies set by one page (e.g. a passed challenge) are sent with the next.
type sessionCookieGetter struct {
	once sync.Once
	jar  *cookiejar.Jar
	err  error
}

func NewSessionCookieGetter() *sessionCookieGetter {
	return &sessionCookieGetter{}
}

func (g *sessionCookieGetter) Get(context.Context) (*cookiejar.Jar, error) {
	g.once.Do(func() {
		g.jar, g.err = cookiejar.New(nil)
	})
	return g.jar, g.err
}

// freshCookieGetter starts every fetch with an empty jar.
type freshCookieGetter struct{}

func NewFreshCookieGetter() *freshCookieGetter {
	return &freshCookieGetter{}
}

func (g *freshCookieGetter) Get(context.Context) (*cookiejar.Jar, error) {
	return cookiejar.New(nil)
}
