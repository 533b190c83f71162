package api

import (
	"net/http"
)

// StatsHandler handles stats requests.
type StatsHandler struct {
	src ProgressSource
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(src ProgressSource) *StatsHandler {
	return &StatsHandler{src: src}
}

// HandleStats handles GET /stats requests.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.src.Progress())
}
