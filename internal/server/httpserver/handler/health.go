package handler

import (
	"net/http"
	"time"

	"github.com/yndnr/shardtab/internal/infra/buildinfo"
)

// handleHealth handles GET /health.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, HealthResponse{
		Status:  "healthy",
		Version: buildinfo.Version,
		Time:    time.Now().UTC().Format(time.RFC3339),
	})
}
