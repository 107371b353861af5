package bench

import (
	"errors"
	"fmt"
	"runtime"
)

// Hasher names accepted by Config.Hasher.
const (
	HasherMurmur3 = "murmur3"
	HasherXXH3    = "xxh3"
)

// Key kinds accepted by Config.KeyKind.
const (
	KeyKindInt  = "int"
	KeyKindULID = "ulid"
)

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("invalid bench config")

// Config describes one benchmark run.
type Config struct {
	// Workers is the number of concurrent goroutines. Zero means GOMAXPROCS.
	Workers int `koanf:"workers" json:"workers" yaml:"workers"`
	// Keys is the number of distinct keys loaded before the mixed phase.
	Keys int `koanf:"keys" json:"keys" yaml:"keys"`
	// Ops is the total number of mixed-phase operations across all workers.
	Ops int `koanf:"ops" json:"ops" yaml:"ops"`
	// ReadRatio and EraseRatio split the mixed phase; the rest are inserts.
	ReadRatio  float64 `koanf:"read_ratio" json:"read_ratio" yaml:"read_ratio"`
	EraseRatio float64 `koanf:"erase_ratio" json:"erase_ratio" yaml:"erase_ratio"`
	// Rate caps mixed-phase operations per second. Zero disables pacing.
	Rate    float64 `koanf:"rate" json:"rate" yaml:"rate"`
	Hasher  string  `koanf:"hasher" json:"hasher" yaml:"hasher"`
	KeyKind string  `koanf:"key_kind" json:"key_kind" yaml:"key_kind"`
}

// DefaultConfig returns a short mixed workload over integer keys.
func DefaultConfig() Config {
	return Config{
		Workers:    runtime.GOMAXPROCS(0),
		Keys:       100_000,
		Ops:        1_000_000,
		ReadRatio:  0.8,
		EraseRatio: 0.1,
		Hasher:     HasherMurmur3,
		KeyKind:    KeyKindInt,
	}
}

func (c Config) workers() int {
	if c.Workers <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return c.Workers
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	switch {
	case c.Workers < 0:
		return fmt.Errorf("%w: workers must not be negative", ErrInvalidConfig)
	case c.Keys <= 0:
		return fmt.Errorf("%w: keys must be positive", ErrInvalidConfig)
	case c.Ops < 0:
		return fmt.Errorf("%w: ops must not be negative", ErrInvalidConfig)
	case c.ReadRatio < 0 || c.EraseRatio < 0 || c.ReadRatio+c.EraseRatio > 1:
		return fmt.Errorf("%w: read_ratio and erase_ratio must be non-negative and sum to at most 1", ErrInvalidConfig)
	case c.Rate < 0:
		return fmt.Errorf("%w: rate must not be negative", ErrInvalidConfig)
	}
	switch c.Hasher {
	case HasherMurmur3, HasherXXH3:
	default:
		return fmt.Errorf("%w: unknown hasher %q", ErrInvalidConfig, c.Hasher)
	}
	switch c.KeyKind {
	case KeyKindInt, KeyKindULID:
	default:
		return fmt.Errorf("%w: unknown key kind %q", ErrInvalidConfig, c.KeyKind)
	}
	return nil
}
