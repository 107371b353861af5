package config

import (
	"fmt"
	"io"

	"github.com/yndnr/shardtab/internal/server/httpserver"
	"github.com/yndnr/shardtab/internal/server/redisserver"
	"github.com/yndnr/shardtab/internal/telemetry/logger"
	"github.com/yndnr/shardtab/internal/telemetry/metric"
	"github.com/yndnr/shardtab/pkg/intern"
)

// ToLoggerConfig maps the log section onto a logger.Config writing to out.
func ToLoggerConfig(cfg *Config, out io.Writer) logger.Config {
	return logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		Output:      out,
		AddSource:   cfg.Log.AddSource,
		MaxValueLen: cfg.Log.MaxValueLen,
	}
}

// ToHTTPConfig maps the server section onto the listener settings.
func ToHTTPConfig(cfg *Config) (httpserver.Config, error) {
	if cfg == nil {
		return httpserver.Config{}, fmt.Errorf("config is nil")
	}
	return httpserver.Config{
		Addr:              cfg.Server.Addr,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}, nil
}

// ToRouterConfig builds the router settings for table.
func ToRouterConfig(cfg *Config, table *intern.Table, reg *metric.Registry, log logger.Logger) *httpserver.RouterConfig {
	return &httpserver.RouterConfig{
		Table:     table,
		Metrics:   reg,
		Logger:    log,
		RateLimit: cfg.Server.RateLimit,
		RateBurst: cfg.Server.RateBurst,
	}
}

// ToRedisConfig maps the redis section onto the RESP listener settings.
func ToRedisConfig(cfg *Config) redisserver.Config {
	return redisserver.Config{
		Addr:         cfg.Redis.Addr,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
		IdleTimeout:  cfg.Redis.IdleTimeout,
		RateLimit:    cfg.Redis.RateLimit,
		RateBurst:    cfg.Redis.RateBurst,
	}
}
