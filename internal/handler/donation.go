package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"feedai/internal/domain"
	"feedai/internal/service"
)

// DonationHandler handles HTTP requests for donations.
type DonationHandler struct {
	donationService *service.DonationService
}

// NewDonationHandler creates a new DonationHandler.
func NewDonationHandler(donationService *service.DonationService) *DonationHandler {
	return &DonationHandler{donationService: donationService}
}

// SubmitDonationRequest is the HTTP request body for submitting a donation.
type SubmitDonationRequest struct {
	DonorID    string          `json:"donor_id"`
	FoodType   string          `json:"food_type"`
	Quantity   float64         `json:"quantity"`
	Unit       string          `json:"unit"`
	Perishable bool            `json:"perishable"`
	ExpiresAt  *time.Time      `json:"expires_at,omitempty"`
	PickupAt   time.Time       `json:"pickup_at"`
	Location   LocationPayload `json:"location"`
}

// DonationResponse is the HTTP response for donation data.
type DonationResponse struct {
	ID         string          `json:"id"`
	DonorID    string          `json:"donor_id"`
	FoodType   string          `json:"food_type"`
	Quantity   float64         `json:"quantity"`
	Unit       string          `json:"unit"`
	Perishable bool            `json:"perishable"`
	ExpiresAt  *time.Time      `json:"expires_at,omitempty"`
	PickupAt   time.Time       `json:"pickup_at"`
	Location   LocationPayload `json:"location"`
	Status     string          `json:"status"`
}

// SubmitDonationResponse is the HTTP response for submitting a donation.
type SubmitDonationResponse struct {
	Donation      DonationResponse `json:"donation"`
	Matched       bool             `json:"matched"`
	Match         *MatchResponse   `json:"match,omitempty"`
	PointsAwarded int              `json:"points_awarded"`
	TotalPoints   int              `json:"total_points"`
	NewBadges     []string         `json:"new_badges"`
}

// UpdateDonationStatusRequest is the HTTP request body for a donor status
// patch.
type UpdateDonationStatusRequest struct {
	DonorID string `json:"donor_id"`
	Status  string `json:"status"`
}

// Submit handles POST /v1/donations
func (h *DonationHandler) Submit(c *gin.Context) {
	var req SubmitDonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	svcReq := service.SubmitDonationRequest{
		DonorID:    req.DonorID,
		FoodType:   req.FoodType,
		Quantity:   req.Quantity,
		Unit:       req.Unit,
		Perishable: req.Perishable,
		PickupAt:   req.PickupAt,
		Location: domain.Location{
			Lat:     req.Location.Lat,
			Lng:     req.Location.Lng,
			Address: req.Location.Address,
		},
	}
	if req.ExpiresAt != nil {
		svcReq.ExpiresAt = *req.ExpiresAt
	}

	result, err := h.donationService.SubmitDonation(c.Request.Context(), svcReq)
	if err != nil {
		respondError(c, err)
		return
	}

	response := SubmitDonationResponse{
		Donation:  toDonationResponse(result.Donation),
		Matched:   result.Match != nil,
		NewBadges: []string{},
	}
	if result.Match != nil {
		m := toMatchResponse(result.Match)
		response.Match = &m
	}
	if result.Award != nil {
		response.PointsAwarded = result.Award.PointsAwarded
		response.TotalPoints = result.Award.TotalPoints
		if result.Award.NewBadges != nil {
			response.NewBadges = result.Award.NewBadges
		}
	}

	respondJSON(c, http.StatusCreated, response)
}

// ListMine handles GET /v1/donations/my?donor_id=
func (h *DonationHandler) ListMine(c *gin.Context) {
	donorID := c.Query("donor_id")

	donations, err := h.donationService.ListByDonor(c.Request.Context(), donorID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toDonationResponses(donations))
}

// ListAvailable handles GET /v1/donations/available
func (h *DonationHandler) ListAvailable(c *gin.Context) {
	donations, err := h.donationService.ListAvailable(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toDonationResponses(donations))
}

// UpdateStatus handles PATCH /v1/donations/:id
func (h *DonationHandler) UpdateStatus(c *gin.Context) {
	donationID := c.Param("id")

	var req UpdateDonationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	donation, err := h.donationService.UpdateStatus(c.Request.Context(), service.UpdateStatusRequest{
		DonationID: donationID,
		DonorID:    req.DonorID,
		NewStatus:  domain.DonationStatus(req.Status),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toDonationResponse(donation))
}

func toDonationResponse(d *domain.Donation) DonationResponse {
	response := DonationResponse{
		ID:         d.ID,
		DonorID:    d.DonorID,
		FoodType:   d.FoodType,
		Quantity:   d.Quantity,
		Unit:       d.Unit,
		Perishable: d.Perishable,
		PickupAt:   d.PickupAt,
		Location: LocationPayload{
			Lat:     d.Location.Lat,
			Lng:     d.Location.Lng,
			Address: d.Location.Address,
		},
		Status: string(d.Status),
	}
	if !d.ExpiresAt.IsZero() {
		expiresAt := d.ExpiresAt
		response.ExpiresAt = &expiresAt
	}
	return response
}

func toDonationResponses(donations []*domain.Donation) []DonationResponse {
	response := make([]DonationResponse, 0, len(donations))
	for _, d := range donations {
		response = append(response, toDonationResponse(d))
	}
	return response
}
