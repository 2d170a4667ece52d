package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"feedai/internal/repository"
	"feedai/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidDonorID),
		errors.Is(err, service.ErrInvalidRecipientID),
		errors.Is(err, service.ErrInvalidDonationID),
		errors.Is(err, service.ErrInvalidMatchID),
		errors.Is(err, service.ErrInvalidUserID),
		errors.Is(err, service.ErrInvalidFoodType),
		errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrInvalidUnit),
		errors.Is(err, service.ErrInvalidPickupTime),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidHourWindow),
		errors.Is(err, service.ErrInvalidCapacity):
		return http.StatusBadRequest

	// Conflict errors
	case errors.Is(err, service.ErrInvalidStatusTransition),
		errors.Is(err, service.ErrDonationNotAvailable),
		errors.Is(err, service.ErrDonationBeingMatched),
		errors.Is(err, service.ErrConcurrentUpdate),
		errors.Is(err, repository.ErrConflict):
		return http.StatusConflict

	// Forbidden/Business rule errors
	case errors.Is(err, service.ErrNotPartyToMatch),
		errors.Is(err, service.ErrNotDonationOwner),
		errors.Is(err, service.ErrNotARecipient),
		errors.Is(err, service.ErrNotADonor):
		return http.StatusForbidden

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
