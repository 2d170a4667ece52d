package repository

import (
	"context"

	"feedai/internal/domain"
)

// DonationRepository defines the persistence operations for donations.
type DonationRepository interface {
	// Create persists a new donation.
	Create(ctx context.Context, donation *domain.Donation) error

	// GetByID retrieves a donation by ID.
	GetByID(ctx context.Context, id string) (*domain.Donation, error)

	// ListByDonor retrieves a donor's donations, newest first.
	ListByDonor(ctx context.Context, donorID string) ([]*domain.Donation, error)

	// ListAvailable retrieves donations still open for matching, newest first.
	ListAvailable(ctx context.Context) ([]*domain.Donation, error)

	// Update updates an existing donation.
	Update(ctx context.Context, donation *domain.Donation) error

	// UpdateStatusFrom transitions the donation's status only if it currently
	// has the expected status. Returns ErrConflict when the donation exists in
	// a different status, ErrNotFound when it does not exist.
	UpdateStatusFrom(ctx context.Context, id string, from, to domain.DonationStatus) error
}
