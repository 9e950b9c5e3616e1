package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/superjcd/gohltv/fetcher"
	"github.com/superjcd/gohltv/proxy"
)

const ENV_PREFIX = "GOHLTV"

type Config struct {
	Fetch   FetchConfig   `mapstructure:"fetch"`
	Proxy   ProxyConfig   `mapstructure:"proxy"`
	Logging LoggingConfig `mapstructure:"logging"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Mongo   MongoConfig   `mapstructure:"mongo"`
	Nsq     NsqConfig     `mapstructure:"nsq"`
	Worker  WorkerConfig  `mapstructure:"worker"`
}

type FetchConfig struct {
	Timeout       time.Duration `mapstructure:"timeout"`
	MaxRetries    int           `mapstructure:"max_retries"`
	DirectRetries int           `mapstructure:"direct_retries"`
	DelayStep     time.Duration `mapstructure:"delay_step"`
	MaxDelay      time.Duration `mapstructure:"max_delay"`
	// RateLimit is in requests per second; zero disables limiting.
	RateLimit float64 `mapstructure:"rate_limit"`
	// Session keeps one cookie jar for the life of the process.
	Session bool `mapstructure:"session"`
}

type ProxyConfig struct {
	UseProxy      bool     `mapstructure:"use_proxy"`
	ProxyList     []string `mapstructure:"proxy_list"`
	ProxyPath     string   `mapstructure:"proxy_path"`
	RemoveProxy   bool     `mapstructure:"remove_proxy"`
	ProxyProtocol string   `mapstructure:"proxy_protocol"`
	// Persist rewrites proxy_path when an endpoint is removed.
	Persist bool `mapstructure:"persist"`
}

type LoggingConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

type CacheConfig struct {
	// Backend is "memory" or "redis".
	Backend string        `mapstructure:"backend"`
	TTL     time.Duration `mapstructure:"ttl"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
	// Counter keeps fetch outcome counts in redis instead of in memory.
	Counter    bool          `mapstructure:"counter"`
	CounterTTL time.Duration `mapstructure:"counter_ttl"`
}

type MongoConfig struct {
	URI           string        `mapstructure:"uri"`
	Database      string        `mapstructure:"database"`
	Collection    string        `mapstructure:"collection"`
	BufferSize    int           `mapstructure:"buffer_size"`
	FlushInterval time.Duration `mapstructure:"flush_interval"`
}

type NsqConfig struct {
	NsqdAddr    string `mapstructure:"nsqd_addr"`
	LookupdAddr string `mapstructure:"lookupd_addr"`
	Topic       string `mapstructure:"topic"`
	Channel     string `mapstructure:"channel"`
}

type WorkerConfig struct {
	Name            string        `mapstructure:"name"`
	Workers         int           `mapstructure:"workers"`
	Retries         int           `mapstructure:"retries"`
	MaxRunTime      time.Duration `mapstructure:"max_run_time"`
	VisitTTL        time.Duration `mapstructure:"visit_ttl"`
	SaveRequestData bool          `mapstructure:"save_request_data"`
}

// Load reads path, or config.yaml from ./configs, . and ~/.gohltv when path
// is empty. A missing default file is not an error. GOHLTV_* environment
// variables override the file, e.g. GOHLTV_FETCH_MAX_RETRIES.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".gohltv"))
		}
	}

	setDefaults(v)
	v.SetEnvPrefix(ENV_PREFIX)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// Default returns the built-in configuration, ignoring files and environment.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(err)
	}
	return &cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("fetch.timeout", fetcher.TIMEOUT)
	v.SetDefault("fetch.max_retries", fetcher.MAX_RETRIES)
	v.SetDefault("fetch.direct_retries", fetcher.DIRECT_RETRIES)
	v.SetDefault("fetch.delay_step", fetcher.DELAY_STEP)
	v.SetDefault("fetch.max_delay", fetcher.MAX_DELAY)
	v.SetDefault("fetch.rate_limit", 2.0)
	v.SetDefault("fetch.session", false)

	v.SetDefault("proxy.use_proxy", false)
	v.SetDefault("proxy.proxy_list", []string{})
	v.SetDefault("proxy.proxy_path", "")
	v.SetDefault("proxy.remove_proxy", false)
	v.SetDefault("proxy.proxy_protocol", proxy.DEFAULT_PROTOCOL)
	v.SetDefault("proxy.persist", true)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.development", false)

	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.ttl", time.Duration(0))

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "gohltv:")
	v.SetDefault("redis.counter", false)
	v.SetDefault("redis.counter_ttl", 24*time.Hour)

	v.SetDefault("mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("mongo.database", "gohltv")
	v.SetDefault("mongo.collection", "pages")
	v.SetDefault("mongo.buffer_size", 100)
	v.SetDefault("mongo.flush_interval", 10*time.Second)

	v.SetDefault("nsq.nsqd_addr", "localhost:4150")
	v.SetDefault("nsq.lookupd_addr", "localhost:4161")
	v.SetDefault("nsq.topic", "gohltv")
	v.SetDefault("nsq.channel", "default")

	v.SetDefault("worker.name", "gohltv")
	v.SetDefault("worker.workers", 4)
	v.SetDefault("worker.retries", 3)
	v.SetDefault("worker.max_run_time", time.Duration(0))
	v.SetDefault("worker.visit_ttl", time.Hour)
	v.SetDefault("worker.save_request_data", true)
}

var protocols = map[string]bool{"http": true, "https": true, "socks5": true, "socks5h": true}

// Validate reports settings that would only fail later, before any network
// call is made.
func (c *Config) Validate() error {
	if c.Fetch.MaxRetries < 1 {
		return fmt.Errorf("%w: fetch.max_retries must be at least 1", proxy.ErrConfiguration)
	}
	if c.Fetch.Timeout <= 0 {
		return fmt.Errorf("%w: fetch.timeout must be positive", proxy.ErrConfiguration)
	}
	if c.Fetch.RateLimit < 0 {
		return fmt.Errorf("%w: fetch.rate_limit must not be negative", proxy.ErrConfiguration)
	}
	if !protocols[strings.ToLower(c.Proxy.ProxyProtocol)] {
		return fmt.Errorf("%w: unsupported proxy protocol %q", proxy.ErrConfiguration, c.Proxy.ProxyProtocol)
	}
	if c.Proxy.UseProxy && len(c.Proxy.ProxyList) == 0 && c.Proxy.ProxyPath == "" {
		return fmt.Errorf("%w: use_proxy needs proxy_list or proxy_path", proxy.ErrConfiguration)
	}
	if c.Cache.Backend != "memory" && c.Cache.Backend != "redis" {
		return fmt.Errorf("%w: unknown cache backend %q", proxy.ErrConfiguration, c.Cache.Backend)
	}
	return nil
}

func (c *Config) Policy() fetcher.Policy {
	return fetcher.Policy{
		MaxRetries:      c.Fetch.MaxRetries,
		Timeout:         c.Fetch.Timeout,
		UseProxy:        c.Proxy.UseProxy,
		RemoveOnFailure: c.Proxy.RemoveProxy,
		Protocol:        strings.ToLower(c.Proxy.ProxyProtocol),
		DirectRetries:   c.Fetch.DirectRetries,
		DelayStep:       c.Fetch.DelayStep,
		MaxDelay:        c.Fetch.MaxDelay,
	}
}

func (c *Config) ProxySource() proxy.Source {
	return proxy.Source{List: c.Proxy.ProxyList, Path: c.Proxy.ProxyPath}
}
