package proxy

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Source names where the pool's endpoints come from. List wins over Path.
type Source struct {
	List []string
	Path string
}

// Pool is the live set of proxy endpoints shared by concurrent fetches.
//
// Selection is sequential and sticky: Select always hands out the endpoint at
// the head of the queue, so a working proxy keeps serving until it fails.
// Release moves a failed endpoint to the tail, Remove drops it.
type Pool struct {
	mu        sync.Mutex
	endpoints []Endpoint
	store     *FileStore
	persist   bool
	protocol  string
	logger    *zap.Logger
}

// Load builds a pool from src. ErrConfiguration is returned when src names
// neither a list nor a readable file, ErrEmptyPool when no endpoint survives
// normalization.
func Load(src Source, opts ...Option) (*Pool, error) {
	o := options{protocol: DEFAULT_PROTOCOL}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}

	var (
		entries []string
		store   *FileStore
	)
	switch {
	case len(src.List) > 0:
		entries = src.List
	case src.Path != "":
		store = NewFileStore(src.Path)
		lines, err := store.Lines()
		if err != nil {
			return nil, fmt.Errorf("%w: read proxy file %s: %w", ErrConfiguration, src.Path, err)
		}
		entries = lines
	default:
		return nil, ErrConfiguration
	}

	p := &Pool{
		store:    store,
		persist:  o.persist && store != nil,
		protocol: o.protocol,
		logger:   o.logger,
	}
	seen := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		e, err := ParseEndpoint(entry, o.protocol)
		if err != nil {
			p.logger.Warn("skipping proxy entry", zap.String("entry", entry), zap.Error(err))
			continue
		}
		if _, ok := seen[e.Key()]; ok {
			continue
		}
		seen[e.Key()] = struct{}{}
		p.endpoints = append(p.endpoints, e)
	}

	if len(p.endpoints) == 0 {
		return nil, ErrEmptyPool
	}
	p.logger.Info("proxy pool loaded", zap.Int("size", len(p.endpoints)), zap.Bool("persist", p.persist))
	return p, nil
}

// Select returns the endpoint currently at the head of the pool.
func (p *Pool) Select() (Endpoint, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.endpoints) == 0 {
		return Endpoint{}, ErrEmptyPool
	}
	return p.endpoints[0], nil
}

// Release moves e to the tail of the pool so other endpoints are tried first.
func (p *Pool) Release(e Endpoint) {
	p.mu.Lock()
	defer p.mu.Unlock()

	i := p.indexOf(e)
	if i < 0 || i == len(p.endpoints)-1 {
		return
	}
	p.endpoints = append(append(p.endpoints[:i:i], p.endpoints[i+1:]...), e)
	p.logger.Debug("proxy rotated", zap.Stringer("endpoint", e))
}

// Remove drops e from the live set and reports whether it was still live.
// With persistence enabled the backing file is rewritten before Remove
// returns; a failed rewrite yields a *PersistError but the endpoint stays
// removed in memory.
func (p *Pool) Remove(e Endpoint) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	i := p.indexOf(e)
	if i < 0 {
		return false, nil
	}
	p.endpoints = append(p.endpoints[:i:i], p.endpoints[i+1:]...)
	p.logger.Info("proxy removed", zap.Stringer("endpoint", e), zap.Int("remaining", len(p.endpoints)))

	if !p.persist {
		return true, nil
	}
	// spellings of the same endpoint ("a:1", "http://a:1") all go
	drop := func(line string) bool {
		candidate, err := ParseEndpoint(line, p.protocol)
		return err == nil && candidate.Key() == e.Key()
	}
	if err := p.store.Remove(drop); err != nil {
		perr := &PersistError{Path: p.store.Path, Endpoint: e, Err: err}
		p.logger.Error("proxy file rewrite failed", zap.Error(perr))
		return true, perr
	}
	return true, nil
}

// Size is the current live count.
func (p *Pool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.endpoints)
}

// Endpoints returns a snapshot of the live set in selection order.
func (p *Pool) Endpoints() []Endpoint {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]Endpoint, len(p.endpoints))
	copy(out, p.endpoints)
	return out
}

func (p *Pool) indexOf(e Endpoint) int {
	key := e.Key()
	for i, candidate := range p.endpoints {
		if candidate.Key() == key {
			return i
		}
	}
	return -1
}
