package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/yndnr/shardtab/internal/telemetry/logger"
	"github.com/yndnr/shardtab/internal/telemetry/metric"
	"github.com/yndnr/shardtab/pkg/intern"
)

// Handler serves the intern table API.
type Handler struct {
	table   *intern.Table
	metrics *metric.Registry
	log     logger.Logger
	started time.Time
	mux     *http.ServeMux
}

// New creates a Handler. A nil metrics registry disables operation counters.
func New(table *intern.Table, metrics *metric.Registry, log logger.Logger) *Handler {
	if log == nil {
		log = logger.Default()
	}
	h := &Handler{
		table:   table,
		metrics: metrics,
		log:     log,
		started: time.Now(),
		mux:     http.NewServeMux(),
	}

	h.registerRoutes()
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	h.mux.HandleFunc("GET /health", h.handleHealth)

	h.mux.HandleFunc("PUT /v1/strings/{value}", h.handleIntern)
	h.mux.HandleFunc("GET /v1/strings/{value}", h.handleLookup)
	h.mux.HandleFunc("DELETE /v1/strings/{value}", h.handleRelease)
	h.mux.HandleFunc("GET /v1/stats", h.handleStats)
}

// writeJSON writes a JSON response with standard envelope format.
func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	requestID := logger.RequestIDFromContext(r.Context())

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(NewResponse(requestID, data)); err != nil {
		h.log.WithContext(r.Context()).Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	WriteError(w, logger.RequestIDFromContext(r.Context()), status, code, message)
}

// WriteError writes an error envelope. Middleware uses it before a request
// reaches the Handler.
func WriteError(w http.ResponseWriter, requestID string, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Error-Code", code)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(NewErrorResponse(requestID, code, message))
}

func (h *Handler) count(op, result string) {
	if h.metrics != nil {
		h.metrics.InternOps.WithLabelValues(op, result).Inc()
	}
}
