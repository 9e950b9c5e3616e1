package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/superjcd/gohltv/request"
)

func TestMemorySchedulerPushPull(t *testing.T) {
	s := NewMemoryScheduler(4)
	ctx := context.Background()

	a := request.New("teams", nil)
	b := request.New("events", nil)
	if err := s.Push(ctx, DIRECT_PUSH, a); err != nil {
		t.Fatal(err)
	}
	if err := s.Push(ctx, QUEUE_PUSH, b); err != nil {
		t.Fatal(err)
	}

	for _, want := range []*request.Request{a, b} {
		got, err := s.Pull(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if got.ID != want.ID {
			t.Errorf("pulled %s, want %s", got.Kind, want.Kind)
		}
	}
}

func TestMemorySchedulerPullHonoursContext(t *testing.T) {
	s := NewMemoryScheduler(1)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := s.Pull(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}

func TestMemorySchedulerStop(t *testing.T) {
	s := NewMemoryScheduler(1)
	ctx := context.Background()
	pending := request.New("news", nil)
	s.Push(ctx, DIRECT_PUSH, pending)
	s.Stop()
	s.Stop()

	if got, err := s.Pull(ctx); err != nil || got.ID != pending.ID {
		t.Errorf("pending job should still be pulled, got %v %v", got, err)
	}
	if _, err := s.Pull(ctx); !errors.Is(err, ErrStopped) {
		t.Errorf("expected ErrStopped, got %v", err)
	}
	if err := s.Push(ctx, DIRECT_PUSH, request.New("a", nil)); !errors.Is(err, ErrStopped) {
		t.Errorf("expected ErrStopped, got %v", err)
	}
}
