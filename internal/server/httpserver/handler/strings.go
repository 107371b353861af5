package handler

import (
	"net/http"
	"time"
)

// handleIntern handles PUT /v1/strings/{value}.
func (h *Handler) handleIntern(w http.ResponseWriter, r *http.Request) {
	value := r.PathValue("value")
	if value == "" {
		h.writeError(w, r, http.StatusBadRequest, CodeBadRequest, "value is required")
		return
	}

	canon, refs := h.table.Acquire(value)
	status, result := http.StatusOK, "existing"
	if refs == 1 {
		status, result = http.StatusCreated, "created"
	}
	h.count("intern", result)

	h.writeJSON(w, r, status, StringResponse{Value: canon, Refs: refs, Created: refs == 1})
}

// handleLookup handles GET /v1/strings/{value}.
func (h *Handler) handleLookup(w http.ResponseWriter, r *http.Request) {
	value := r.PathValue("value")
	canon, ok := h.table.Lookup(value)
	if !ok {
		h.count("lookup", "miss")
		h.writeError(w, r, http.StatusNotFound, CodeNotFound, "string not interned")
		return
	}
	h.count("lookup", "hit")

	h.writeJSON(w, r, http.StatusOK, StringResponse{Value: canon, Refs: h.table.Refs(canon)})
}

// handleRelease handles DELETE /v1/strings/{value}.
func (h *Handler) handleRelease(w http.ResponseWriter, r *http.Request) {
	value := r.PathValue("value")
	left, ok := h.table.Drop(value)
	if !ok {
		h.count("release", "miss")
		h.writeError(w, r, http.StatusNotFound, CodeNotFound, "string not interned")
		return
	}
	h.count("release", "hit")

	h.writeJSON(w, r, http.StatusOK, StringResponse{Value: value, Refs: left, Removed: left == 0})
}

// handleStats handles GET /v1/stats.
func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, StatsResponse{
		Strings: h.table.Len(),
		Shards:  h.table.Stats(),
		Uptime:  time.Since(h.started).Round(time.Second).String(),
	})
}
