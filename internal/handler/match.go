package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"feedai/internal/domain"
	"feedai/internal/service"
)

// MatchHandler handles HTTP requests for matches.
type MatchHandler struct {
	matchService *service.MatchService
}

// NewMatchHandler creates a new MatchHandler.
func NewMatchHandler(matchService *service.MatchService) *MatchHandler {
	return &MatchHandler{matchService: matchService}
}

// RequestMatchRequest is the HTTP request body for a recipient-initiated
// match.
type RequestMatchRequest struct {
	RecipientID string `json:"recipient_id"`
	DonationID  string `json:"donation_id"`
}

// UpdateMatchStatusRequest is the HTTP request body for a lifecycle
// transition.
type UpdateMatchStatusRequest struct {
	ActorID string `json:"actor_id"`
	Status  string `json:"status"`
}

// MatchResponse is the HTTP response for match data.
type MatchResponse struct {
	ID                  string          `json:"id"`
	DonationID          string          `json:"donation_id"`
	DonorID             string          `json:"donor_id"`
	RecipientID         string          `json:"recipient_id"`
	Score               float64         `json:"score"`
	Pickup              LocationPayload `json:"pickup"`
	Delivery            LocationPayload `json:"delivery"`
	Distance            float64         `json:"distance"`
	EstimatedDeliveryAt time.Time       `json:"estimated_delivery_at"`
	Status              string          `json:"status"`
}

// Request handles POST /v1/matches/request
func (h *MatchHandler) Request(c *gin.Context) {
	var req RequestMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	match, err := h.matchService.RequestMatch(c.Request.Context(), service.RequestMatchRequest{
		RecipientID: req.RecipientID,
		DonationID:  req.DonationID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toMatchResponse(match))
}

// List handles GET /v1/matches?user_id=&type=
func (h *MatchHandler) List(c *gin.Context) {
	userID := c.Query("user_id")
	userType := domain.UserType(c.Query("type"))

	matches, err := h.matchService.ListForUser(c.Request.Context(), userID, userType)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]MatchResponse, 0, len(matches))
	for _, m := range matches {
		response = append(response, toMatchResponse(m))
	}

	respondJSON(c, http.StatusOK, response)
}

// UpdateStatus handles PATCH /v1/matches/:id
func (h *MatchHandler) UpdateStatus(c *gin.Context) {
	matchID := c.Param("id")

	var req UpdateMatchStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	match, err := h.matchService.UpdateStatus(c.Request.Context(), service.UpdateMatchStatusRequest{
		MatchID:   matchID,
		ActorID:   req.ActorID,
		NewStatus: domain.MatchStatus(req.Status),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toMatchResponse(match))
}

func toMatchResponse(m *domain.Match) MatchResponse {
	return MatchResponse{
		ID:          m.ID,
		DonationID:  m.DonationID,
		DonorID:     m.DonorID,
		RecipientID: m.RecipientID,
		Score:       m.Score,
		Pickup: LocationPayload{
			Lat:     m.Route.Pickup.Lat,
			Lng:     m.Route.Pickup.Lng,
			Address: m.Route.Pickup.Address,
		},
		Delivery: LocationPayload{
			Lat:     m.Route.Delivery.Lat,
			Lng:     m.Route.Delivery.Lng,
			Address: m.Route.Delivery.Address,
		},
		Distance:            m.Route.Distance,
		EstimatedDeliveryAt: m.EstimatedDeliveryAt,
		Status:              string(m.Status),
	}
}
