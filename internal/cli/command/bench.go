package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/shardtab/internal/bench"
	"github.com/yndnr/shardtab/internal/cli/output"
	"github.com/yndnr/shardtab/internal/infra/shutdown"
	"github.com/yndnr/shardtab/internal/telemetry/metric"
)

// BenchCommand returns the bench command.
func BenchCommand() *cli.Command {
	return &cli.Command{
		Name:  "bench",
		Usage: "Load a sharded set then run a concurrent read/add/erase mix",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Number of worker goroutines (default GOMAXPROCS)",
			},
			&cli.IntFlag{
				Name:  "keys",
				Usage: "Number of distinct keys",
			},
			&cli.IntFlag{
				Name:  "ops",
				Usage: "Operations in the mixed phase, 0 for load only",
			},
			&cli.Float64Flag{
				Name:  "read-ratio",
				Usage: "Fraction of mixed operations that are lookups",
			},
			&cli.Float64Flag{
				Name:  "erase-ratio",
				Usage: "Fraction of mixed operations that are erases",
			},
			&cli.Float64Flag{
				Name:  "rate",
				Usage: "Operations per second across all workers, 0 for unlimited",
			},
			&cli.StringFlag{
				Name:  "hasher",
				Usage: "String hasher: murmur3, xxh3",
			},
			&cli.StringFlag{
				Name:  "key-kind",
				Usage: "Key generator: int, ulid",
			},
		},
		Action: runBench,
	}
}

// benchConfig applies the bench flags that were set over the configured
// defaults.
func benchConfig(c *cli.Context, base bench.Config) bench.Config {
	cfg := base
	if c.IsSet("workers") {
		cfg.Workers = c.Int("workers")
	}
	if c.IsSet("keys") {
		cfg.Keys = c.Int("keys")
	}
	if c.IsSet("ops") {
		cfg.Ops = c.Int("ops")
	}
	if c.IsSet("read-ratio") {
		cfg.ReadRatio = c.Float64("read-ratio")
	}
	if c.IsSet("erase-ratio") {
		cfg.EraseRatio = c.Float64("erase-ratio")
	}
	if c.IsSet("rate") {
		cfg.Rate = c.Float64("rate")
	}
	if c.IsSet("hasher") {
		cfg.Hasher = c.String("hasher")
	}
	if c.IsSet("key-kind") {
		cfg.KeyKind = c.String("key-kind")
	}
	return cfg
}

func runBench(c *cli.Context) error {
	rt, err := GetRuntime(c)
	if err != nil {
		return err
	}
	cfg := benchConfig(c, rt.Config.Bench)
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := shutdown.WithSignals(c.Context)
	defer stop()

	spinner := output.NewSpinner(rt.Progress(),
		fmt.Sprintf("benchmarking %d keys, %d ops (%s)", cfg.Keys, cfg.Ops, cfg.Hasher))
	spinner.Start()
	result, err := bench.Run(ctx, cfg, rt.Log, bench.WithMetrics(metric.Global()))
	if err != nil {
		spinner.Fail("benchmark failed")
		return fmt.Errorf("bench: %w", err)
	}
	spinner.Success(fmt.Sprintf("%.0f ops/s", result.Throughput))
	return rt.Print(result)
}
