package mongo

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/qiniu/qmgo"
	"github.com/superjcd/gohltv/parser"
	"github.com/superjcd/gohltv/store"
	"go.uber.org/zap"
)

type bufferedMongoStorage struct {
	mu     sync.Mutex
	cli    *qmgo.QmgoClient
	insert insertFunc
	buf    []parser.ParseItem
	done   chan struct{}
	wg     sync.WaitGroup
	once   sync.Once
	options
}

var _ store.Storage = (*bufferedMongoStorage)(nil)

// NewBufferedMongoStorage collects items and writes them in batches, when
// the buffer is full and every flush interval.
func NewBufferedMongoStorage(ctx context.Context, uri, database, collection string, opts ...Option) (*bufferedMongoStorage, error) {
	cli, err := open(ctx, uri, database, collection)
	if err != nil {
		return nil, err
	}
	s := newBufferedMongoStorage(collectionInsert(cli.Collection), opts...)
	s.cli = cli
	return s, nil
}

func newBufferedMongoStorage(insert insertFunc, opts ...Option) *bufferedMongoStorage {
	o := newOptions(opts)
	s := &bufferedMongoStorage{
		insert:  insert,
		buf:     make([]parser.ParseItem, 0, o.bufferSize),
		done:    make(chan struct{}),
		options: o,
	}

	s.wg.Add(1)
	go s.autoFlush()
	return s
}

func (s *bufferedMongoStorage) autoFlush() {
	defer s.wg.Done()
	ticker := time.NewTicker(s.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.mu.Lock()
			if err := s.flush(context.Background()); err != nil {
				s.logger.Error("auto flush failed", zap.Error(err))
			}
			s.mu.Unlock()
		}
	}
}

func (s *bufferedMongoStorage) Save(ctx context.Context, items ...parser.ParseItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(items) > s.bufferSize {
		return fmt.Errorf("%d items exceed the buffer size %d", len(items), s.bufferSize)
	}
	if len(items) > s.bufferSize-len(s.buf) {
		if err := s.flush(ctx); err != nil {
			return err
		}
	}
	s.buf = append(s.buf, items...)
	return nil
}

// Flush writes the buffered items now.
func (s *bufferedMongoStorage) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flush(ctx)
}

// flush must be called with mu held. On failure the buffer is kept.
func (s *bufferedMongoStorage) flush(ctx context.Context) error {
	if len(s.buf) == 0 {
		return nil
	}
	n, err := s.insert(ctx, s.buf)
	if err != nil {
		return fmt.Errorf("flush %d items: %w", len(s.buf), err)
	}

	s.count(s.buf)
	s.buf = make([]parser.ParseItem, 0, s.bufferSize)
	s.logger.Info("flushed", zap.Int("count", n))
	return nil
}

func (s *bufferedMongoStorage) Close() error {
	var err error
	s.once.Do(func() {
		close(s.done)
		s.wg.Wait()
		err = s.Flush(context.Background())
		if s.cli != nil {
			if cerr := s.cli.Close(context.Background()); err == nil {
				err = cerr
			}
		}
	})
	return err
}
