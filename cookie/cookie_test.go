package cookie

import (
	"context"
	"testing"
)

func TestSessionCookieGetterReusesJar(t *testing.T) {
	g := NewSessionCookieGetter()
	j1, _ := g.Get(context.Background())
	j2, _ := g.Get(context.Background())
	if j1 == nil || j1 != j2 {
		t.Errorf("session getter should return the same jar")
	}
}

func TestFreshCookieGetter(t *testing.T) {
	g := NewFreshCookieGetter()
	j1, _ := g.Get(context.Background())
	j2, _ := g.Get(context.Background())
	if j1 == j2 {
		t.Errorf("fresh getter should return a new jar")
	}
}
