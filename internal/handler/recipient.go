package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"feedai/internal/domain"
	"feedai/internal/service"
)

// RecipientHandler handles HTTP requests for recipient profiles.
type RecipientHandler struct {
	recipientService *service.RecipientService
}

// NewRecipientHandler creates a new RecipientHandler.
func NewRecipientHandler(recipientService *service.RecipientService) *RecipientHandler {
	return &RecipientHandler{recipientService: recipientService}
}

// HourWindowPayload is the wire form of an available-hours window.
type HourWindowPayload struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// UpdateProfileRequest is the HTTP request body for a profile update.
// Omitted fields keep their prior values.
type UpdateProfileRequest struct {
	FoodPreferences *[]string            `json:"food_preferences,omitempty"`
	Capacity        *float64             `json:"capacity,omitempty"`
	AvailableHours  *[]HourWindowPayload `json:"available_hours,omitempty"`
	Location        *LocationPayload     `json:"location,omitempty"`
	Active          *bool                `json:"active,omitempty"`
}

// ProfileResponse is the HTTP response for recipient profile data.
type ProfileResponse struct {
	UserID          string              `json:"user_id"`
	FoodPreferences []string            `json:"food_preferences"`
	Capacity        float64             `json:"capacity"`
	AvailableHours  []HourWindowPayload `json:"available_hours"`
	Location        LocationPayload     `json:"location"`
	Active          bool                `json:"active"`
}

// GetProfile handles GET /v1/recipients/:id/profile
func (h *RecipientHandler) GetProfile(c *gin.Context) {
	userID := c.Param("id")

	profile, err := h.recipientService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toProfileResponse(profile))
}

// UpdateProfile handles PATCH /v1/recipients/:id/profile
func (h *RecipientHandler) UpdateProfile(c *gin.Context) {
	userID := c.Param("id")

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	svcReq := service.UpdateProfileRequest{
		UserID:          userID,
		FoodPreferences: req.FoodPreferences,
		Capacity:        req.Capacity,
		Active:          req.Active,
	}
	if req.AvailableHours != nil {
		windows := make([]domain.HourWindow, 0, len(*req.AvailableHours))
		for _, w := range *req.AvailableHours {
			windows = append(windows, domain.HourWindow{Start: w.Start, End: w.End})
		}
		svcReq.AvailableHours = &windows
	}
	if req.Location != nil {
		svcReq.Location = &domain.Location{
			Lat:     req.Location.Lat,
			Lng:     req.Location.Lng,
			Address: req.Location.Address,
		}
	}

	profile, err := h.recipientService.UpdateProfile(c.Request.Context(), svcReq)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toProfileResponse(profile))
}

func toProfileResponse(p *domain.RecipientProfile) ProfileResponse {
	prefs := p.FoodPreferences
	if prefs == nil {
		prefs = []string{}
	}

	windows := make([]HourWindowPayload, 0, len(p.AvailableHours))
	for _, w := range p.AvailableHours {
		windows = append(windows, HourWindowPayload{Start: w.Start, End: w.End})
	}

	return ProfileResponse{
		UserID:          p.UserID,
		FoodPreferences: prefs,
		Capacity:        p.Capacity,
		AvailableHours:  windows,
		Location: LocationPayload{
			Lat:     p.Location.Lat,
			Lng:     p.Location.Lng,
			Address: p.Location.Address,
		},
		Active: p.Active,
	}
}
