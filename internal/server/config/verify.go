package config

import (
	"errors"
	"fmt"
	"net"

	"github.com/yndnr/shardtab/internal/telemetry/logger"
)

// ErrInvalidConfig is wrapped by every Verify failure.
var ErrInvalidConfig = errors.New("invalid config")

// Verify validates the configuration and reports every problem it finds.
func Verify(cfg *Config) error {
	return errors.Join(
		verifyServer(&cfg.Server),
		verifyRedis(&cfg.Redis),
		verifyBench(cfg),
		verifyLog(&cfg.Log),
	)
}

func verifyServer(cfg *ServerSection) error {
	var errs []error
	if cfg.Addr == "" {
		errs = append(errs, fmt.Errorf("%w: server.addr is required", ErrInvalidConfig))
	} else if _, _, err := net.SplitHostPort(cfg.Addr); err != nil {
		errs = append(errs, fmt.Errorf("%w: server.addr %q: %v", ErrInvalidConfig, cfg.Addr, err))
	}
	if cfg.ReadTimeout < 0 || cfg.ReadHeaderTimeout < 0 || cfg.WriteTimeout < 0 || cfg.IdleTimeout < 0 {
		errs = append(errs, fmt.Errorf("%w: server timeouts must not be negative", ErrInvalidConfig))
	}
	if cfg.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Errorf("%w: server.shutdown_timeout must be positive", ErrInvalidConfig))
	}
	if cfg.RateLimit < 0 || cfg.RateBurst < 0 {
		errs = append(errs, fmt.Errorf("%w: server.rate_limit and server.rate_burst must not be negative", ErrInvalidConfig))
	}
	return errors.Join(errs...)
}

func verifyRedis(cfg *RedisSection) error {
	if !cfg.Enabled {
		return nil
	}
	var errs []error
	if _, _, err := net.SplitHostPort(cfg.Addr); err != nil {
		errs = append(errs, fmt.Errorf("%w: redis.addr %q: %v", ErrInvalidConfig, cfg.Addr, err))
	}
	if cfg.ReadTimeout < 0 || cfg.WriteTimeout < 0 || cfg.IdleTimeout < 0 {
		errs = append(errs, fmt.Errorf("%w: redis timeouts must not be negative", ErrInvalidConfig))
	}
	if cfg.RateLimit < 0 || cfg.RateBurst < 0 {
		errs = append(errs, fmt.Errorf("%w: redis.rate_limit and redis.rate_burst must not be negative", ErrInvalidConfig))
	}
	return errors.Join(errs...)
}

func verifyBench(cfg *Config) error {
	if err := cfg.Bench.Validate(); err != nil {
		return fmt.Errorf("%w: bench: %w", ErrInvalidConfig, err)
	}
	return nil
}

func verifyLog(cfg *LogSection) error {
	var errs []error
	if !logger.ValidLevel(cfg.Level) {
		errs = append(errs, fmt.Errorf("%w: log.level %q", ErrInvalidConfig, cfg.Level))
	}
	switch cfg.Format {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("%w: log.format %q", ErrInvalidConfig, cfg.Format))
	}
	if cfg.MaxValueLen < 0 {
		errs = append(errs, fmt.Errorf("%w: log.max_value_len must not be negative", ErrInvalidConfig))
	}
	return errors.Join(errs...)
}
