package repository

import (
	"context"

	"feedai/internal/domain"
)

// MatchRepository defines the persistence operations for matches.
// Matches are append-only history: there is no delete.
type MatchRepository interface {
	// Create persists a new match.
	Create(ctx context.Context, match *domain.Match) error

	// GetByID retrieves a match by ID.
	GetByID(ctx context.Context, id string) (*domain.Match, error)

	// ListByDonor retrieves matches for a donor, newest first.
	ListByDonor(ctx context.Context, donorID string) ([]*domain.Match, error)

	// ListByRecipient retrieves matches for a recipient, newest first.
	ListByRecipient(ctx context.Context, recipientID string) ([]*domain.Match, error)

	// Update updates an existing match.
	Update(ctx context.Context, match *domain.Match) error
}
