package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/okian/rostersim/internal/domain/types"
)

// LeaderboardHandler serves the leaders of the latest report.
type LeaderboardHandler struct {
	src      ProgressSource
	maxLimit int
}

// NewLeaderboardHandler creates a new leaderboard handler.
func NewLeaderboardHandler(src ProgressSource, maxLimit int) *LeaderboardHandler {
	return &LeaderboardHandler{
		src:      src,
		maxLimit: maxLimit,
	}
}

// HandleGetLeaderboard handles GET /leaderboard?limit=N requests. Without a
// limit every leader of the latest report is returned. Before the first
// report the list is empty.
func (h *LeaderboardHandler) HandleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	n := h.maxLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: limit %q", ErrBadRequest, s))
			return
		}
		if v > h.maxLimit {
			writeError(w, http.StatusBadRequest, "limit_exceeded", fmt.Errorf("%w: %d > %d", ErrLimitExceeded, v, h.maxLimit))
			return
		}
		n = v
	}

	leaders := []types.Leader{}
	if last := h.src.Progress().Last; last != nil {
		leaders = last.Leaders
	}
	if len(leaders) > n {
		leaders = leaders[:n]
	}
	writeJSON(w, http.StatusOK, leaders)
}
