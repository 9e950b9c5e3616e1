package counter

import (
	"sync"
	"time"

	"github.com/go-redis/redis"
)

// Counter accumulates named counts such as fetch outcomes or saved records.
type Counter interface {
	Incr(key string, num int64)
	GetCounterPrefix() string
}

// Redis transactions use optimistic locking.
const (
	maxRetries = 1000
)

type RedisCounter struct {
	prefix string
	RCli   *redis.Client
	TTL    time.Duration
}

var _ Counter = (*RedisCounter)(nil)

func NewRedisCounter(r_config redis.Options, ttl time.Duration, counterPrefix string) *RedisCounter {
	rc := &RedisCounter{TTL: ttl, prefix: counterPrefix}
	rc.RCli = redis.NewClient(&r_config)
	return rc
}

func (c *RedisCounter) GetCounterPrefix() string {
	return c.prefix
}

func (c *RedisCounter) Incr(key string, increment int64) {
	key = c.prefix + key
	txf := func(tx *redis.Tx) error {
		n, err := tx.Get(key).Int64()
		if err != nil && err != redis.Nil {
			return err
		}
		n += increment

		// committed only if the watched key is unchanged
		_, err = tx.Pipelined(func(pipe redis.Pipeliner) error {
			pipe.Set(key, n, c.TTL)
			return nil
		})
		return err
	}

	for i := 0; i < maxRetries; i++ {
		err := c.RCli.Watch(txf, key)
		if err == nil {
			return
		}
		if err == redis.TxFailedErr {
			continue
		}
		// counters are best effort
		return
	}
}

// Get reads the current value of key, zero when unset.
func (c *RedisCounter) Get(key string) (int64, error) {
	n, err := c.RCli.Get(c.prefix + key).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return n, err
}

func (c *RedisCounter) Close() error {
	return c.RCli.Close()
}

type MemoryCounter struct {
	mu     sync.Mutex
	prefix string
	counts map[string]int64
}

var _ Counter = (*MemoryCounter)(nil)

func NewMemoryCounter(counterPrefix string) *MemoryCounter {
	return &MemoryCounter{prefix: counterPrefix, counts: make(map[string]int64)}
}

func (c *MemoryCounter) GetCounterPrefix() string {
	return c.prefix
}

func (c *MemoryCounter) Incr(key string, increment int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[c.prefix+key] += increment
}

func (c *MemoryCounter) Get(key string) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[c.prefix+key]
}

// Snapshot copies all counts, keys including the prefix.
func (c *MemoryCounter) Snapshot() map[string]int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]int64, len(c.counts))
	for k, v := range c.counts {
		out[k] = v
	}
	return out
}
