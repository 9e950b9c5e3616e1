package main

import (
	"testing"
	"time"

	"github.com/superjcd/gohltv/config"
)

func TestParseJobArgs(t *testing.T) {
	args, err := parseJobArgs([]string{"id=9565", "title=team vitality", "empty="})
	if err != nil {
		t.Fatal(err)
	}
	if args["id"] != "9565" || args["title"] != "team vitality" || args["empty"] != "" {
		t.Errorf("unexpected args %v", args)
	}
	if _, err := parseJobArgs([]string{"novalue"}); err == nil {
		t.Errorf("expected error for malformed argument")
	}
}

func TestApplyFlags(t *testing.T) {
	cmd := rootCmd
	if err := cmd.ParseFlags([]string{"--use-proxy", "--proxy", "a:1", "--proxy", "b:2", "--timeout", "2s"}); err != nil {
		t.Fatal(err)
	}
	c := config.Default()
	applyFlags(cmd, c)

	if !c.Proxy.UseProxy || len(c.Proxy.ProxyList) != 2 || c.Fetch.Timeout != 2*time.Second {
		t.Errorf("flags not applied: %+v %+v", c.Proxy, c.Fetch)
	}
	if c.Fetch.MaxRetries != 3 {
		t.Errorf("unset flag should not override, got %d", c.Fetch.MaxRetries)
	}
}
