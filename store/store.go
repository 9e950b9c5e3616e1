package store

import (
	"context"
	"sync"

	"github.com/superjcd/gohltv/parser"
)

type Storage interface {
	Save(ctx context.Context, items ...parser.ParseItem) error
	Close() error
}

// Memory keeps saved items in process, for tests and one-shot commands.
type Memory struct {
	mu    sync.Mutex
	items []parser.ParseItem
}

var _ Storage = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Save(ctx context.Context, items ...parser.ParseItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = append(m.items, items...)
	return nil
}

func (m *Memory) Items() []parser.ParseItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	items := make([]parser.ParseItem, len(m.items))
	copy(items, m.items)
	return items
}

func (m *Memory) Close() error {
	return nil
}
