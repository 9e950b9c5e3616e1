package redis

import (
	"time"

	"github.com/go-redis/redis"
	"github.com/superjcd/gohltv/cache"
)

type RedisCache struct {
	KeyPrefix string
	RCli      *redis.Client
}

var _ cache.Cache = (*RedisCache)(nil)

func NewRedisCache(r_config redis.Options, prefixKey string) *RedisCache {
	rc := &RedisCache{KeyPrefix: prefixKey}
	rc.RCli = redis.NewClient(&r_config)
	return rc
}

func (rc *RedisCache) key(key string) string {
	if rc.KeyPrefix == "" {
		return "gohltv:" + key
	}
	return rc.KeyPrefix + key
}

func (rc *RedisCache) Get(key string) (string, bool, error) {
	v, err := rc.RCli.Get(rc.key(key)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (rc *RedisCache) Set(key, value string, ttl time.Duration) error {
	return rc.RCli.Set(rc.key(key), value, ttl).Err()
}

func (rc *RedisCache) Delete(key string) error {
	return rc.RCli.Del(rc.key(key)).Err()
}

func (rc *RedisCache) Close() error {
	return rc.RCli.Close()
}
