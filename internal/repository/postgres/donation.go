package postgres

import (
	"context"
	"database/sql"
	"errors"

	"feedai/internal/domain"
	"feedai/internal/repository"
)

// DonationRepository is a PostgreSQL implementation of repository.DonationRepository.
type DonationRepository struct {
	q Querier
}

// NewDonationRepository creates a new PostgreSQL donation repository.
func NewDonationRepository(db *sql.DB) *DonationRepository {
	return &DonationRepository{q: db}
}

// NewDonationRepositoryWithTx creates a donation repository using a transaction.
func NewDonationRepositoryWithTx(tx *sql.Tx) *DonationRepository {
	return &DonationRepository{q: tx}
}

const donationColumns = `id, donor_id, food_type, quantity, unit, perishable, expires_at, pickup_at, lat, lng, address, status, created_at`

// Create persists a new donation.
func (r *DonationRepository) Create(ctx context.Context, donation *domain.Donation) error {
	query := `
		INSERT INTO donations (` + donationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	var expiresAt sql.NullTime
	if !donation.ExpiresAt.IsZero() {
		expiresAt = sql.NullTime{Time: donation.ExpiresAt, Valid: true}
	}

	_, err := r.q.ExecContext(ctx, query,
		donation.ID,
		donation.DonorID,
		donation.FoodType,
		donation.Quantity,
		donation.Unit,
		donation.Perishable,
		expiresAt,
		donation.PickupAt,
		donation.Location.Lat,
		donation.Location.Lng,
		donation.Location.Address,
		donation.Status,
		donation.CreatedAt,
	)

	return err
}

// GetByID retrieves a donation by ID.
func (r *DonationRepository) GetByID(ctx context.Context, id string) (*domain.Donation, error) {
	query := `SELECT ` + donationColumns + ` FROM donations WHERE id = $1`

	donation, err := scanDonation(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return donation, nil
}

// ListByDonor retrieves a donor's donations, newest first.
func (r *DonationRepository) ListByDonor(ctx context.Context, donorID string) ([]*domain.Donation, error) {
	query := `SELECT ` + donationColumns + ` FROM donations WHERE donor_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, donorID)
}

// ListAvailable retrieves donations still open for matching, newest first.
func (r *DonationRepository) ListAvailable(ctx context.Context) ([]*domain.Donation, error) {
	query := `SELECT ` + donationColumns + ` FROM donations WHERE status = $1 ORDER BY created_at DESC LIMIT 100`
	return r.list(ctx, query, domain.DonationStatusAvailable)
}

func (r *DonationRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Donation, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var donations []*domain.Donation
	for rows.Next() {
		donation, err := scanDonation(rows)
		if err != nil {
			return nil, err
		}
		donations = append(donations, donation)
	}
	return donations, rows.Err()
}

// Update updates an existing donation.
func (r *DonationRepository) Update(ctx context.Context, donation *domain.Donation) error {
	query := `
		UPDATE donations
		SET food_type = $1, quantity = $2, unit = $3, perishable = $4, expires_at = $5,
		    pickup_at = $6, lat = $7, lng = $8, address = $9, status = $10
		WHERE id = $11
	`

	var expiresAt sql.NullTime
	if !donation.ExpiresAt.IsZero() {
		expiresAt = sql.NullTime{Time: donation.ExpiresAt, Valid: true}
	}

	result, err := r.q.ExecContext(ctx, query,
		donation.FoodType,
		donation.Quantity,
		donation.Unit,
		donation.Perishable,
		expiresAt,
		donation.PickupAt,
		donation.Location.Lat,
		donation.Location.Lng,
		donation.Location.Address,
		donation.Status,
		donation.ID,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// UpdateStatusFrom transitions the donation's status with a conditional write.
// A donation must not be matched twice, so the transition only succeeds when
// the row still carries the expected current status.
func (r *DonationRepository) UpdateStatusFrom(ctx context.Context, id string, from, to domain.DonationStatus) error {
	query := `UPDATE donations SET status = $1 WHERE id = $2 AND status = $3`

	result, err := r.q.ExecContext(ctx, query, to, id, from)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		// Distinguish a missing row from a row in an unexpected status.
		var status domain.DonationStatus
		err := r.q.QueryRowContext(ctx, `SELECT status FROM donations WHERE id = $1`, id).Scan(&status)
		if errors.Is(err, sql.ErrNoRows) {
			return repository.ErrNotFound
		}
		if err != nil {
			return err
		}
		return repository.ErrConflict
	}

	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanDonation(row rowScanner) (*domain.Donation, error) {
	var donation domain.Donation
	var expiresAt sql.NullTime

	err := row.Scan(
		&donation.ID,
		&donation.DonorID,
		&donation.FoodType,
		&donation.Quantity,
		&donation.Unit,
		&donation.Perishable,
		&expiresAt,
		&donation.PickupAt,
		&donation.Location.Lat,
		&donation.Location.Lng,
		&donation.Location.Address,
		&donation.Status,
		&donation.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if expiresAt.Valid {
		donation.ExpiresAt = expiresAt.Time
	}

	return &donation, nil
}
