package repository

import (
	"context"

	"feedai/internal/domain"
)

// RecipientRepository defines the persistence operations for recipient
// matching profiles.
type RecipientRepository interface {
	// GetProfile retrieves the profile for a recipient user.
	GetProfile(ctx context.Context, userID string) (*domain.RecipientProfile, error)

	// UpsertProfile creates or replaces a recipient's profile.
	UpsertProfile(ctx context.Context, profile *domain.RecipientProfile) error

	// GetAllActive retrieves every active recipient profile, ordered by user
	// ID so that candidate iteration is deterministic.
	GetAllActive(ctx context.Context) ([]*domain.RecipientProfile, error)
}
