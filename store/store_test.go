package store

import (
	"context"
	"testing"

	"github.com/superjcd/gohltv/parser"
)

func TestMemorySave(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	m.Save(ctx, parser.ParseItem{"id": "1"})
	m.Save(ctx, parser.ParseItem{"id": "2"}, parser.ParseItem{"id": "3"})

	items := m.Items()
	if len(items) != 3 || items[2]["id"] != "3" {
		t.Errorf("unexpected items %v", items)
	}
	items[0] = nil
	if m.Items()[0] == nil {
		t.Errorf("Items should return a copy")
	}
}
