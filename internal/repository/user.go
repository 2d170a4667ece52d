package repository

import (
	"context"

	"feedai/internal/domain"
)

// UserRepository defines the persistence operations for user accounts,
// including donor incentive state.
type UserRepository interface {
	// Create adds a new user.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by ID.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByEmail retrieves a user by email address.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// GetAll retrieves all users.
	GetAll(ctx context.Context) ([]*domain.User, error)

	// UpdateIncentive writes the donor's points and badge set, conditional on
	// the points value read at the start of the award. Returns ErrConflict if
	// a concurrent award moved the points first, ErrNotFound if the user does
	// not exist.
	UpdateIncentive(ctx context.Context, id string, oldPoints, newPoints int, badges []string) error

	// QueryTopDonors retrieves the highest-scoring donors, points descending,
	// name ascending on ties.
	QueryTopDonors(ctx context.Context, limit int) ([]*domain.User, error)
}
