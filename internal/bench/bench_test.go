package bench

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yndnr/shardtab/internal/telemetry/logger"
	"github.com/yndnr/shardtab/internal/telemetry/metric"
)

func smallConfig() Config {
	return Config{
		Workers:    4,
		Keys:       2000,
		Ops:        20000,
		ReadRatio:  0.5,
		EraseRatio: 0.25,
		Hasher:     HasherMurmur3,
		KeyKind:    KeyKindInt,
	}
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
	require.NoError(t, smallConfig().Validate())

	tests := []struct {
		name   string
		modify func(c *Config)
	}{
		{"negative workers", func(c *Config) { c.Workers = -1 }},
		{"no keys", func(c *Config) { c.Keys = 0 }},
		{"negative ops", func(c *Config) { c.Ops = -5 }},
		{"negative read ratio", func(c *Config) { c.ReadRatio = -0.1 }},
		{"ratios above one", func(c *Config) { c.ReadRatio, c.EraseRatio = 0.7, 0.4 }},
		{"negative rate", func(c *Config) { c.Rate = -1 }},
		{"unknown hasher", func(c *Config) { c.Hasher = "fnv" }},
		{"unknown key kind", func(c *Config) { c.KeyKind = "uuid" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := smallConfig()
			tt.modify(&cfg)
			require.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestGenerateKeysDistinct(t *testing.T) {
	for _, kind := range []string{KeyKindInt, KeyKindULID} {
		t.Run(kind, func(t *testing.T) {
			keys, err := GenerateKeys(kind, 5000)
			require.NoError(t, err)
			require.Len(t, keys, 5000)

			seen := make(map[string]struct{}, len(keys))
			for _, k := range keys {
				seen[k] = struct{}{}
			}
			require.Len(t, seen, len(keys))
		})
	}

	_, err := GenerateKeys("uuid", 1)
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestRun(t *testing.T) {
	for _, hasher := range []string{HasherMurmur3, HasherXXH3} {
		for _, kind := range []string{KeyKindInt, KeyKindULID} {
			t.Run(hasher+"/"+kind, func(t *testing.T) {
				cfg := smallConfig()
				cfg.Hasher, cfg.KeyKind = hasher, kind

				res, err := Run(context.Background(), cfg, logger.Nop())
				require.NoError(t, err)

				assert.Equal(t, hasher, res.Hasher)
				assert.Equal(t, kind, res.KeyKind)
				assert.Equal(t, 4, res.Workers)
				assert.Equal(t, 2000, res.Keys)
				assert.EqualValues(t, cfg.Ops, res.Ops)
				assert.Equal(t, res.Ops, res.Reads+res.Adds+res.Erases)
				assert.LessOrEqual(t, res.Hits, res.Reads)
				assert.LessOrEqual(t, res.Erased, res.Erases)
				assert.LessOrEqual(t, res.Inserted, res.Adds)
				assert.Equal(t, int(2000+res.Inserted-res.Erased), res.Summary.Entries)
				assert.Equal(t, 4096, res.Summary.Shards)
				assert.Positive(t, res.Throughput)
			})
		}
	}
}

func TestRunReadOnly(t *testing.T) {
	cfg := smallConfig()
	cfg.ReadRatio, cfg.EraseRatio = 1, 0

	res, err := Run(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	assert.Equal(t, res.Ops, res.Reads)
	assert.Equal(t, res.Reads, res.Hits)
	assert.Equal(t, 2000, res.Summary.Entries)
}

func TestRunLoadOnly(t *testing.T) {
	cfg := smallConfig()
	cfg.Ops = 0
	cfg.Workers = 0

	res, err := Run(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	assert.Zero(t, res.Ops)
	assert.Positive(t, res.Workers)
	assert.Equal(t, 2000, res.Summary.Entries)
}

func TestRunInvalidConfig(t *testing.T) {
	cfg := smallConfig()
	cfg.Keys = 0
	_, err := Run(context.Background(), cfg, logger.Nop())
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, smallConfig(), logger.Nop())
	require.ErrorIs(t, err, context.Canceled)
}

func TestRunRateLimited(t *testing.T) {
	cfg := smallConfig()
	cfg.Ops = 40
	cfg.Rate = 20
	cfg.Workers = 2

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	// 40 ops at 20/s need about two seconds, so the deadline fires first.
	_, err := Run(ctx, cfg, logger.Nop())
	require.Error(t, err)
}

func TestRunWithMetrics(t *testing.T) {
	reg := metric.NewRegistry()
	cfg := smallConfig()

	res, err := Run(context.Background(), cfg, logger.Nop(), WithMetrics(reg))
	require.NoError(t, err)

	assert.Equal(t, float64(res.Reads), testutil.ToFloat64(reg.BenchOps.WithLabelValues("find")))
	assert.Equal(t, float64(res.Adds), testutil.ToFloat64(reg.BenchOps.WithLabelValues("insert")))
	assert.Equal(t, float64(res.Erases), testutil.ToFloat64(reg.BenchOps.WithLabelValues("erase")))
}
