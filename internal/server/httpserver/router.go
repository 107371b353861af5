package httpserver

import (
	"net/http"

	"github.com/yndnr/shardtab/internal/server/httpserver/handler"
	"github.com/yndnr/shardtab/internal/telemetry/logger"
	"github.com/yndnr/shardtab/internal/telemetry/metric"
	"github.com/yndnr/shardtab/pkg/intern"
)

// RouterConfig holds configuration for the HTTP router.
type RouterConfig struct {
	// Table is the intern table served under /v1/strings.
	Table *intern.Table

	// Metrics receives request and intern counters and backs /metrics.
	Metrics *metric.Registry

	Logger logger.Logger

	// RateLimit is the per-client request rate (requests/second). Zero
	// disables rate limiting.
	RateLimit float64
	RateBurst int
}

// DefaultRouterConfig returns default router configuration.
func DefaultRouterConfig() *RouterConfig {
	return &RouterConfig{
		Table:     intern.Default(),
		Metrics:   metric.Global(),
		Logger:    logger.Default(),
		RateLimit: 1000,
	}
}

// NewRouter creates the HTTP router with all routes and middleware.
//
// Order: Recover -> RequestID -> RateLimit -> AccessLog -> routes
func NewRouter(cfg *RouterConfig) http.Handler {
	if cfg.Table == nil {
		cfg.Table = intern.Default()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metric.NewRegistry()
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Default()
	}

	h := handler.New(cfg.Table, cfg.Metrics, cfg.Logger)

	mux := http.NewServeMux()
	mux.Handle("GET /metrics", cfg.Metrics.Handler())
	mux.Handle("/", h)

	middlewares := []Middleware{
		Recover(cfg.Logger),
		RequestID(cfg.Logger),
	}
	if cfg.RateLimit > 0 {
		middlewares = append(middlewares, RateLimit(cfg.RateLimit, cfg.RateBurst, cfg.Metrics))
	}
	middlewares = append(middlewares, AccessLog(cfg.Metrics))

	return Chain(mux, middlewares...)
}
