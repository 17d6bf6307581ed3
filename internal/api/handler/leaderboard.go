package handler

import (
	"net/http"
	"strconv"

	"github.com/tuannh/noichu/internal/api/response"
	"github.com/tuannh/noichu/internal/model"
	"github.com/tuannh/noichu/internal/services/stats"
)

// LeaderboardHandler handles the leaderboard endpoint
type LeaderboardHandler struct {
	statsService *stats.Service
}

// NewLeaderboardHandler creates a new leaderboard handler
func NewLeaderboardHandler(statsService *stats.Service) *LeaderboardHandler {
	return &LeaderboardHandler{statsService: statsService}
}

// Get handles GET /api/v1/leaderboard
func (h *LeaderboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			WriteError(w, NewInvalidRequestError("limit must be a positive integer"))
			return
		}
		limit = n
	}

	entries, err := h.statsService.Leaderboard(r.Context(), limit)
	if err != nil {
		WriteError(w, err)
		return
	}

	out := response.Leaderboard{Entries: make([]response.LeaderboardEntry, len(entries))}
	for i, e := range entries {
		out.Entries[i] = response.LeaderboardEntryFromModel(e)
	}
	response.JSON(w, http.StatusOK, out)
}

// leaderboardEntry derives the ratio fields for a single stats row.
func leaderboardEntry(st *model.PlayerStats) model.LeaderboardEntry {
	e := model.LeaderboardEntry{PlayerStats: *st}
	if st.TotalGames > 0 {
		e.WinRate = float64(st.Wins) / float64(st.TotalGames)
		e.AverageScore = float64(st.TotalScore) / float64(st.TotalGames)
	}
	return e
}
