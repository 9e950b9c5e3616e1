package mongo

import (
	"context"
	"fmt"

	"github.com/qiniu/qmgo"
	"github.com/superjcd/gohltv/parser"
	"github.com/superjcd/gohltv/store"
	"go.uber.org/zap"
)

// insertFunc writes items to the collection and reports how many were stored.
type insertFunc func(ctx context.Context, items []parser.ParseItem) (int, error)

func collectionInsert(coll *qmgo.Collection) insertFunc {
	return func(ctx context.Context, items []parser.ParseItem) (int, error) {
		if len(items) == 1 {
			if _, err := coll.InsertOne(ctx, items[0]); err != nil {
				return 0, err
			}
			return 1, nil
		}
		result, err := coll.InsertMany(ctx, items)
		if err != nil {
			return 0, err
		}
		return len(result.InsertedIDs), nil
	}
}

func open(ctx context.Context, uri, database, collection string) (*qmgo.QmgoClient, error) {
	cli, err := qmgo.Open(ctx, &qmgo.Config{Uri: uri, Database: database, Coll: collection})
	if err != nil {
		return nil, fmt.Errorf("open mongo %s/%s: %w", database, collection, err)
	}
	return cli, nil
}

type mongoStorage struct {
	cli    *qmgo.QmgoClient
	insert insertFunc
	options
}

var _ store.Storage = (*mongoStorage)(nil)

// NewMongoStorage writes every Save straight to the collection.
func NewMongoStorage(ctx context.Context, uri, database, collection string, opts ...Option) (*mongoStorage, error) {
	cli, err := open(ctx, uri, database, collection)
	if err != nil {
		return nil, err
	}
	s := newMongoStorage(collectionInsert(cli.Collection), opts...)
	s.cli = cli
	return s, nil
}

func newMongoStorage(insert insertFunc, opts ...Option) *mongoStorage {
	return &mongoStorage{insert: insert, options: newOptions(opts)}
}

func (s *mongoStorage) Save(ctx context.Context, items ...parser.ParseItem) error {
	for i, item := range items {
		if _, err := s.insert(ctx, []parser.ParseItem{item}); err != nil {
			return fmt.Errorf("insert item %d of %d: %w", i+1, len(items), err)
		}
	}
	s.count(items)
	s.logger.Debug("items saved", zap.Int("count", len(items)))
	return nil
}

func (s *mongoStorage) Close() error {
	if s.cli == nil {
		return nil
	}
	return s.cli.Close(context.Background())
}
