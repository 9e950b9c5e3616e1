package scheduler

import (
	"context"
	"errors"
	"sync"

	"github.com/superjcd/gohltv/request"
)

// push types
const (
	// DIRECT_PUSH hands jobs to local workers.
	DIRECT_PUSH = iota
	// QUEUE_PUSH publishes jobs to the shared queue, when there is one.
	QUEUE_PUSH
)

var ErrStopped = errors.New("scheduler stopped")

type Scheduler interface {
	Pull(ctx context.Context) (*request.Request, error)
	Push(ctx context.Context, typ int, reqs ...*request.Request) error
	Schedule() error
	Stop()
}

type memoryScheduler struct {
	workerCh chan *request.Request
	done     chan struct{}
	once     sync.Once
}

var _ Scheduler = (*memoryScheduler)(nil)

// NewMemoryScheduler keeps jobs in a channel of size slots. Both push types
// behave the same.
func NewMemoryScheduler(size int) *memoryScheduler {
	return &memoryScheduler{
		workerCh: make(chan *request.Request, size),
		done:     make(chan struct{}),
	}
}

func (s *memoryScheduler) Pull(ctx context.Context) (*request.Request, error) {
	select {
	case req := <-s.workerCh:
		return req, nil
	default:
	}

	select {
	case req := <-s.workerCh:
		return req, nil
	case <-s.done:
		return nil, ErrStopped
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *memoryScheduler) Push(ctx context.Context, typ int, reqs ...*request.Request) error {
	for _, req := range reqs {
		select {
		case <-s.done:
			return ErrStopped
		default:
		}
		select {
		case s.workerCh <- req:
		case <-s.done:
			return ErrStopped
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (s *memoryScheduler) Schedule() error {
	return nil
}

func (s *memoryScheduler) Stop() {
	s.once.Do(func() { close(s.done) })
}
