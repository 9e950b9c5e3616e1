package redis

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis"
)

func TestRedisCache(t *testing.T) {
	s := miniredis.RunT(t)
	c := NewRedisCache(redis.Options{Addr: s.Addr()}, "")
	defer c.Close()

	if _, ok, err := c.Get("missing"); ok || err != nil {
		t.Fatalf("expected miss, got %v %v", ok, err)
	}

	if err := c.Set("page", "<html></html>", time.Minute); err != nil {
		t.Fatal(err)
	}
	v, ok, err := c.Get("page")
	if err != nil || !ok || v != "<html></html>" {
		t.Fatalf("unexpected get result %q %v %v", v, ok, err)
	}
	if !s.Exists("gohltv:page") {
		t.Errorf("expected default prefix")
	}

	s.FastForward(2 * time.Minute)
	if _, ok, _ := c.Get("page"); ok {
		t.Errorf("page should have expired")
	}

	c.Set("visited", "1", 0)
	c.Delete("visited")
	if _, ok, _ := c.Get("visited"); ok {
		t.Errorf("deleted key still present")
	}
}
