package handler

import (
	"net/http"

	"github.com/libris/libris/internal/metrics"
)

// MetricsHandler exposes the in-memory counters as JSON.
type MetricsHandler struct {
	recorder *metrics.InMemory
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(recorder *metrics.InMemory) *MetricsHandler {
	return &MetricsHandler{recorder: recorder}
}

// Metrics returns current counter values.
// GET /metrics
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.recorder.Snapshot())
}
