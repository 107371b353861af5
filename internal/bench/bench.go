package bench

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/yndnr/shardtab/internal/telemetry/logger"
	"github.com/yndnr/shardtab/internal/telemetry/metric"
	"github.com/yndnr/shardtab/pkg/cmap"
)

// ErrLostUpdate means the load phase finished with fewer (or more) values
// in the set than distinct keys inserted.
var ErrLostUpdate = errors.New("lost update")

// Result reports a completed run.
type Result struct {
	Hasher  string `json:"hasher" yaml:"hasher"`
	KeyKind string `json:"key_kind" yaml:"key_kind"`
	Workers int    `json:"workers" yaml:"workers"`
	Keys    int    `json:"keys" yaml:"keys"`

	// Mixed-phase counters.
	Ops      int64 `json:"ops" yaml:"ops"`
	Reads    int64 `json:"reads" yaml:"reads"`
	Hits     int64 `json:"hits" yaml:"hits"`
	Adds     int64 `json:"adds" yaml:"adds"`
	Inserted int64 `json:"inserted" yaml:"inserted"`
	Erases   int64 `json:"erases" yaml:"erases"`
	Erased   int64 `json:"erased" yaml:"erased"`

	LoadDuration time.Duration `json:"load_duration" yaml:"load_duration"`
	Duration     time.Duration `json:"duration" yaml:"duration"`
	Throughput   float64       `json:"throughput" yaml:"throughput"`

	Summary cmap.Summary `json:"summary" yaml:"summary"`
}

// stringSet is the part of cmap.Set a run drives, whatever its hasher.
type stringSet interface {
	Add(v string) bool
	Contains(v string) bool
	Erase(v string) bool
	Len() int
}

type counters struct {
	reads, hits, adds, inserted, erases, erased atomic.Int64
}

// Option customizes Run.
type Option func(*runner)

// WithMetrics counts mixed-phase operations in reg.
func WithMetrics(reg *metric.Registry) Option {
	return func(r *runner) { r.metrics = reg }
}

type runner struct {
	cfg     Config
	log     logger.Logger
	metrics *metric.Registry
	keys    []string
}

// Run executes cfg. It returns early with ctx's error when ctx is cancelled
// and with ErrLostUpdate when the load phase loses or duplicates values.
func Run(ctx context.Context, cfg Config, log logger.Logger, opts ...Option) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Default()
	}
	keys, err := GenerateKeys(cfg.KeyKind, cfg.Keys)
	if err != nil {
		return nil, err
	}

	r := &runner{cfg: cfg, log: log, keys: keys}
	for _, opt := range opts {
		opt(r)
	}

	switch cfg.Hasher {
	case HasherXXH3:
		return run(ctx, r, cmap.NewSet[string](cmap.XXH3StringHasher{}))
	default:
		return run(ctx, r, cmap.NewSet[string](cmap.StringHasher{}))
	}
}

func run[H cmap.Hasher[string]](ctx context.Context, r *runner, set *cmap.Set[string, H]) (*Result, error) {
	defer set.Close()

	workers := r.cfg.workers()
	res := &Result{
		Hasher:  r.cfg.Hasher,
		KeyKind: r.cfg.KeyKind,
		Workers: workers,
		Keys:    len(r.keys),
	}

	r.log.Info("bench load phase started", "keys", len(r.keys), "workers", workers, "hasher", r.cfg.Hasher)
	start := time.Now()
	if err := r.load(ctx, set, workers); err != nil {
		return nil, err
	}
	res.LoadDuration = time.Since(start)
	r.log.Debug("bench load phase done", "took", res.LoadDuration)

	var c counters
	start = time.Now()
	if err := r.mixed(ctx, set, workers, &c); err != nil {
		return nil, err
	}
	res.Duration = time.Since(start)

	res.Reads = c.reads.Load()
	res.Hits = c.hits.Load()
	res.Adds = c.adds.Load()
	res.Inserted = c.inserted.Load()
	res.Erases = c.erases.Load()
	res.Erased = c.erased.Load()
	res.Ops = res.Reads + res.Adds + res.Erases
	if secs := res.Duration.Seconds(); secs > 0 {
		res.Throughput = float64(res.Ops) / secs
	}
	res.Summary = set.Summary()

	r.log.Info("bench finished",
		"ops", res.Ops,
		"duration", res.Duration,
		"throughput", res.Throughput,
		"entries", res.Summary.Entries,
	)
	return res, nil
}

// load inserts every key once, worker w taking keys w, w+workers, ...
func (r *runner) load(ctx context.Context, set stringSet, workers int) error {
	var inserted atomic.Int64
	g, ctx := errgroup.WithContext(ctx)
	for w := range workers {
		g.Go(func() error {
			var n int64
			for i, step := w, 0; i < len(r.keys); i, step = i+workers, step+1 {
				if step&255 == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				if set.Add(r.keys[i]) {
					n++
				}
			}
			inserted.Add(n)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if got := set.Len(); got != len(r.keys) || inserted.Load() != int64(len(r.keys)) {
		return fmt.Errorf("%w: %d distinct keys, set holds %d, %d reported new",
			ErrLostUpdate, len(r.keys), got, inserted.Load())
	}
	return nil
}

func (r *runner) mixed(ctx context.Context, set stringSet, workers int, c *counters) error {
	if r.cfg.Ops == 0 {
		return nil
	}

	var limiter *rate.Limiter
	if r.cfg.Rate > 0 {
		limiter = rate.NewLimiter(rate.Limit(r.cfg.Rate), workers)
	}

	g, ctx := errgroup.WithContext(ctx)
	for w := range workers {
		ops := r.cfg.Ops / workers
		if w < r.cfg.Ops%workers {
			ops++
		}
		g.Go(func() error {
			rng := rand.New(rand.NewPCG(uint64(w), uint64(len(r.keys))))
			var reads, hits, adds, inserted, erases, erased int64
			defer func() {
				c.reads.Add(reads)
				c.hits.Add(hits)
				c.adds.Add(adds)
				c.inserted.Add(inserted)
				c.erases.Add(erases)
				c.erased.Add(erased)
				r.record(reads, adds, erases)
			}()

			for i := range ops {
				if limiter != nil {
					if err := limiter.Wait(ctx); err != nil {
						return err
					}
				} else if i&255 == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}

				key := r.keys[rng.IntN(len(r.keys))]
				switch roll := rng.Float64(); {
				case roll < r.cfg.ReadRatio:
					reads++
					if set.Contains(key) {
						hits++
					}
				case roll < r.cfg.ReadRatio+r.cfg.EraseRatio:
					erases++
					if set.Erase(key) {
						erased++
					}
				default:
					adds++
					if set.Add(key) {
						inserted++
					}
				}
			}
			return nil
		})
	}
	return g.Wait()
}

func (r *runner) record(reads, adds, erases int64) {
	if r.metrics == nil {
		return
	}
	r.metrics.BenchOps.WithLabelValues("find").Add(float64(reads))
	r.metrics.BenchOps.WithLabelValues("insert").Add(float64(adds))
	r.metrics.BenchOps.WithLabelValues("erase").Add(float64(erases))
}
