package service

import (
	"context"

	"feedai/internal/domain"
	"feedai/internal/redis"
	"feedai/internal/repository"
)

// RecipientService manages recipient matching profiles.
type RecipientService struct {
	recipientRepo repository.RecipientRepository
	userRepo      repository.UserRepository
	cacheStore    *redis.CacheStore
}

// NewRecipientService creates a new RecipientService.
func NewRecipientService(
	recipientRepo repository.RecipientRepository,
	userRepo repository.UserRepository,
	cacheStore *redis.CacheStore,
) *RecipientService {
	return &RecipientService{
		recipientRepo: recipientRepo,
		userRepo:      userRepo,
		cacheStore:    cacheStore,
	}
}

// GetProfile retrieves a recipient's matching profile.
func (s *RecipientService) GetProfile(ctx context.Context, userID string) (*domain.RecipientProfile, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}

	return s.recipientRepo.GetProfile(ctx, userID)
}

// UpdateProfileRequest carries a partial profile update. Nil fields keep
// their prior values.
type UpdateProfileRequest struct {
	UserID          string
	FoodPreferences *[]string
	Capacity        *float64
	AvailableHours  *[]domain.HourWindow
	Location        *domain.Location
	Active          *bool
}

// UpdateProfile applies a partial update to a recipient's profile and
// invalidates the recipient pool cache so the matcher sees the change.
func (s *RecipientService) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*domain.RecipientProfile, error) {
	if req.UserID == "" {
		return nil, ErrInvalidUserID
	}

	user, err := s.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if user.Type != domain.UserTypeRecipient {
		return nil, ErrNotARecipient
	}

	profile, err := s.recipientRepo.GetProfile(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	if req.FoodPreferences != nil {
		profile.FoodPreferences = *req.FoodPreferences
	}
	if req.Capacity != nil {
		if *req.Capacity < 0 {
			return nil, ErrInvalidCapacity
		}
		profile.Capacity = *req.Capacity
	}
	if req.AvailableHours != nil {
		for _, w := range *req.AvailableHours {
			if w.Start < 0 || w.End > 23 || w.Start > w.End {
				return nil, ErrInvalidHourWindow
			}
		}
		profile.AvailableHours = *req.AvailableHours
	}
	if req.Location != nil {
		profile.Location = *req.Location
	}
	if req.Active != nil {
		profile.Active = *req.Active
	}

	if err := s.recipientRepo.UpsertProfile(ctx, profile); err != nil {
		return nil, err
	}

	if s.cacheStore != nil {
		_ = s.cacheStore.InvalidateRecipientPool(ctx)
	}

	return profile, nil
}
