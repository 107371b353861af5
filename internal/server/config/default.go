package config

import (
	"time"

	"github.com/yndnr/shardtab/internal/bench"
	"github.com/yndnr/shardtab/internal/telemetry/logger"
)

// Default configuration values.
const (
	DefaultHTTPAddr          = "127.0.0.1:5080"
	DefaultReadTimeout       = 10 * time.Second
	DefaultReadHeaderTimeout = 5 * time.Second
	DefaultWriteTimeout      = 10 * time.Second
	DefaultIdleTimeout       = 60 * time.Second
	DefaultShutdownTimeout   = 15 * time.Second
	DefaultRateLimit         = 1000

	DefaultRedisAddr         = "127.0.0.1:6379"
	DefaultRedisReadTimeout  = 30 * time.Second
	DefaultRedisWriteTimeout = 30 * time.Second
	DefaultRedisIdleTimeout  = 5 * time.Minute

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Server: ServerSection{
			Addr:              DefaultHTTPAddr,
			ReadTimeout:       DefaultReadTimeout,
			ReadHeaderTimeout: DefaultReadHeaderTimeout,
			WriteTimeout:      DefaultWriteTimeout,
			IdleTimeout:       DefaultIdleTimeout,
			ShutdownTimeout:   DefaultShutdownTimeout,
			RateLimit:         DefaultRateLimit,
		},
		Redis: RedisSection{
			Addr:         DefaultRedisAddr,
			ReadTimeout:  DefaultRedisReadTimeout,
			WriteTimeout: DefaultRedisWriteTimeout,
			IdleTimeout:  DefaultRedisIdleTimeout,
			RateLimit:    DefaultRateLimit,
		},
		Bench: bench.DefaultConfig(),
		Log: LogSection{
			Level:       DefaultLogLevel,
			Format:      DefaultLogFormat,
			MaxValueLen: logger.DefaultMaxValueLen,
		},
	}
}

// DefaultMap returns Default as the flat key map the config loader layers
// files and environment variables over.
func DefaultMap() map[string]any {
	d := Default()
	return map[string]any{
		"server.addr":                d.Server.Addr,
		"server.read_timeout":        d.Server.ReadTimeout,
		"server.read_header_timeout": d.Server.ReadHeaderTimeout,
		"server.write_timeout":       d.Server.WriteTimeout,
		"server.idle_timeout":        d.Server.IdleTimeout,
		"server.shutdown_timeout":    d.Server.ShutdownTimeout,
		"server.rate_limit":          d.Server.RateLimit,
		"server.rate_burst":          d.Server.RateBurst,

		"redis.enabled":       d.Redis.Enabled,
		"redis.addr":          d.Redis.Addr,
		"redis.read_timeout":  d.Redis.ReadTimeout,
		"redis.write_timeout": d.Redis.WriteTimeout,
		"redis.idle_timeout":  d.Redis.IdleTimeout,
		"redis.rate_limit":    d.Redis.RateLimit,
		"redis.rate_burst":    d.Redis.RateBurst,

		"bench.workers":     d.Bench.Workers,
		"bench.keys":        d.Bench.Keys,
		"bench.ops":         d.Bench.Ops,
		"bench.read_ratio":  d.Bench.ReadRatio,
		"bench.erase_ratio": d.Bench.EraseRatio,
		"bench.rate":        d.Bench.Rate,
		"bench.hasher":      d.Bench.Hasher,
		"bench.key_kind":    d.Bench.KeyKind,

		"log.level":         d.Log.Level,
		"log.format":        d.Log.Format,
		"log.add_source":    d.Log.AddSource,
		"log.max_value_len": d.Log.MaxValueLen,
	}
}
