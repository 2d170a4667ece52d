package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"feedai/internal/domain"
	"feedai/internal/repository"
)

// UserHandler handles HTTP requests for users.
type UserHandler struct {
	userRepo      repository.UserRepository
	recipientRepo repository.RecipientRepository
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userRepo repository.UserRepository, recipientRepo repository.RecipientRepository) *UserHandler {
	return &UserHandler{
		userRepo:      userRepo,
		recipientRepo: recipientRepo,
	}
}

// RegisterRequest is the HTTP request body for user registration.
type RegisterRequest struct {
	Email    string           `json:"email"`
	Name     string           `json:"name"`
	Type     string           `json:"type"` // donor or recipient
	Location *LocationPayload `json:"location,omitempty"`
}

// LocationPayload is the wire form of a location.
type LocationPayload struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address,omitempty"`
}

// UserResponse is the HTTP response for user data.
type UserResponse struct {
	ID     string   `json:"id"`
	Email  string   `json:"email"`
	Name   string   `json:"name"`
	Type   string   `json:"type"`
	Points int      `json:"points"`
	Badges []string `json:"badges"`
}

// Register handles POST /v1/users/register
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if req.Email == "" || req.Name == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "email and name are required"})
		return
	}

	userType := domain.UserType(req.Type)
	if userType != domain.UserTypeDonor && userType != domain.UserTypeRecipient {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "type must be donor or recipient"})
		return
	}

	// Check if user already exists
	existing, err := h.userRepo.GetByEmail(c.Request.Context(), req.Email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		respondError(c, err)
		return
	}

	if existing != nil {
		c.JSON(http.StatusConflict, gin.H{
			"message": "User already registered",
			"user":    toUserResponse(existing),
		})
		return
	}

	// Create new user
	user := &domain.User{
		ID:        uuid.New().String(),
		Email:     req.Email,
		Name:      req.Name,
		Type:      userType,
		CreatedAt: time.Now(),
	}
	if req.Location != nil {
		user.Location = domain.Location{
			Lat:     req.Location.Lat,
			Lng:     req.Location.Lng,
			Address: req.Location.Address,
		}
	}

	if err := h.userRepo.Create(c.Request.Context(), user); err != nil {
		respondError(c, err)
		return
	}

	// Recipients get an empty matching profile so they can be updated in
	// place later. Inactive until the recipient fills it in.
	if userType == domain.UserTypeRecipient {
		profile := &domain.RecipientProfile{
			UserID:   user.ID,
			Location: user.Location,
		}
		if err := h.recipientRepo.UpsertProfile(c.Request.Context(), profile); err != nil {
			respondError(c, err)
			return
		}
	}

	c.JSON(http.StatusCreated, toUserResponse(user))
}

// GetAll handles GET /v1/users
func (h *UserHandler) GetAll(c *gin.Context) {
	users, err := h.userRepo.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	var response []UserResponse
	for _, u := range users {
		response = append(response, toUserResponse(u))
	}

	c.JSON(http.StatusOK, response)
}

func toUserResponse(u *domain.User) UserResponse {
	badges := u.Badges
	if badges == nil {
		badges = []string{}
	}
	return UserResponse{
		ID:     u.ID,
		Email:  u.Email,
		Name:   u.Name,
		Type:   string(u.Type),
		Points: u.Points,
		Badges: badges,
	}
}
