package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"feedai/internal/service"
)

// LeaderboardHandler handles HTTP requests for the donor leaderboard.
type LeaderboardHandler struct {
	gamificationService *service.GamificationService
}

// NewLeaderboardHandler creates a new LeaderboardHandler.
func NewLeaderboardHandler(gamificationService *service.GamificationService) *LeaderboardHandler {
	return &LeaderboardHandler{gamificationService: gamificationService}
}

// RankResponse is the HTTP response for a single donor's rank.
type RankResponse struct {
	DonorID string `json:"donor_id"`
	Rank    int64  `json:"rank"`
	Points  int    `json:"points"`
}

// Get handles GET /v1/leaderboard
func (h *LeaderboardHandler) Get(c *gin.Context) {
	entries, err := h.gamificationService.Leaderboard(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, entries)
}

// GetRank handles GET /v1/leaderboard/rank/:donor_id
func (h *LeaderboardHandler) GetRank(c *gin.Context) {
	donorID := c.Param("donor_id")

	rank, err := h.gamificationService.DonorRank(c.Request.Context(), donorID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, RankResponse{
		DonorID: rank.DonorID,
		Rank:    rank.Rank,
		Points:  int(rank.Points),
	})
}
