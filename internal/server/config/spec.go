package config

import (
	"time"

	"github.com/yndnr/shardtab/internal/bench"
)

// Config is the root configuration of the shardtab binary.
type Config struct {
	Server ServerSection `koanf:"server" json:"server" yaml:"server"`
	Redis  RedisSection  `koanf:"redis" json:"redis" yaml:"redis"`
	Bench  bench.Config  `koanf:"bench" json:"bench" yaml:"bench"`
	Log    LogSection    `koanf:"log" json:"log" yaml:"log"`
}

// ServerSection configures the HTTP service started by `shardtab serve`.
//
// Sections stay flat so that SHARDTAB_SERVER_RATE_LIMIT maps onto
// server.rate_limit.
type ServerSection struct {
	Addr              string        `koanf:"addr" json:"addr" yaml:"addr"`
	ReadTimeout       time.Duration `koanf:"read_timeout" json:"read_timeout" yaml:"read_timeout"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout" json:"read_header_timeout" yaml:"read_header_timeout"`
	WriteTimeout      time.Duration `koanf:"write_timeout" json:"write_timeout" yaml:"write_timeout"`
	IdleTimeout       time.Duration `koanf:"idle_timeout" json:"idle_timeout" yaml:"idle_timeout"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout" json:"shutdown_timeout" yaml:"shutdown_timeout"`

	// RateLimit is requests per second per client IP; zero disables it.
	RateLimit float64 `koanf:"rate_limit" json:"rate_limit" yaml:"rate_limit"`
	RateBurst int     `koanf:"rate_burst" json:"rate_burst" yaml:"rate_burst"`
}

// RedisSection configures the optional RESP listener of `shardtab serve`.
type RedisSection struct {
	Enabled      bool          `koanf:"enabled" json:"enabled" yaml:"enabled"`
	Addr         string        `koanf:"addr" json:"addr" yaml:"addr"`
	ReadTimeout  time.Duration `koanf:"read_timeout" json:"read_timeout" yaml:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout" json:"write_timeout" yaml:"write_timeout"`
	IdleTimeout  time.Duration `koanf:"idle_timeout" json:"idle_timeout" yaml:"idle_timeout"`

	// RateLimit is commands per second per client IP; zero disables it.
	RateLimit float64 `koanf:"rate_limit" json:"rate_limit" yaml:"rate_limit"`
	RateBurst int     `koanf:"rate_burst" json:"rate_burst" yaml:"rate_burst"`
}

// LogSection configures logging.
type LogSection struct {
	Level       string `koanf:"level" json:"level" yaml:"level"`
	Format      string `koanf:"format" json:"format" yaml:"format"`
	AddSource   bool   `koanf:"add_source" json:"add_source" yaml:"add_source"`
	MaxValueLen int    `koanf:"max_value_len" json:"max_value_len" yaml:"max_value_len"`
}
