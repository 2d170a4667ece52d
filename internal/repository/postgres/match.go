package postgres

import (
	"context"
	"database/sql"
	"errors"

	"feedai/internal/domain"
	"feedai/internal/repository"
)

// MatchRepository is a PostgreSQL implementation of repository.MatchRepository.
type MatchRepository struct {
	q Querier
}

// NewMatchRepository creates a new PostgreSQL match repository.
func NewMatchRepository(db *sql.DB) *MatchRepository {
	return &MatchRepository{q: db}
}

// NewMatchRepositoryWithTx creates a match repository using a transaction.
func NewMatchRepositoryWithTx(tx *sql.Tx) *MatchRepository {
	return &MatchRepository{q: tx}
}

const matchColumns = `id, donation_id, donor_id, recipient_id, score,
	pickup_lat, pickup_lng, pickup_address,
	delivery_lat, delivery_lng, delivery_address,
	distance, estimated_delivery_at, status, created_at`

// Create persists a new match.
func (r *MatchRepository) Create(ctx context.Context, match *domain.Match) error {
	query := `
		INSERT INTO matches (` + matchColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := r.q.ExecContext(ctx, query,
		match.ID,
		match.DonationID,
		match.DonorID,
		match.RecipientID,
		match.Score,
		match.Route.Pickup.Lat,
		match.Route.Pickup.Lng,
		match.Route.Pickup.Address,
		match.Route.Delivery.Lat,
		match.Route.Delivery.Lng,
		match.Route.Delivery.Address,
		match.Route.Distance,
		match.EstimatedDeliveryAt,
		match.Status,
		match.CreatedAt,
	)

	return err
}

// GetByID retrieves a match by ID.
func (r *MatchRepository) GetByID(ctx context.Context, id string) (*domain.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`

	match, err := scanMatch(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return match, nil
}

// ListByDonor retrieves matches for a donor, newest first.
func (r *MatchRepository) ListByDonor(ctx context.Context, donorID string) ([]*domain.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE donor_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, donorID)
}

// ListByRecipient retrieves matches for a recipient, newest first.
func (r *MatchRepository) ListByRecipient(ctx context.Context, recipientID string) ([]*domain.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE recipient_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, recipientID)
}

func (r *MatchRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Match, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []*domain.Match
	for rows.Next() {
		match, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, match)
	}
	return matches, rows.Err()
}

// Update updates an existing match.
func (r *MatchRepository) Update(ctx context.Context, match *domain.Match) error {
	query := `UPDATE matches SET score = $1, status = $2 WHERE id = $3`

	result, err := r.q.ExecContext(ctx, query, match.Score, match.Status, match.ID)
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

func scanMatch(row rowScanner) (*domain.Match, error) {
	var match domain.Match

	err := row.Scan(
		&match.ID,
		&match.DonationID,
		&match.DonorID,
		&match.RecipientID,
		&match.Score,
		&match.Route.Pickup.Lat,
		&match.Route.Pickup.Lng,
		&match.Route.Pickup.Address,
		&match.Route.Delivery.Lat,
		&match.Route.Delivery.Lng,
		&match.Route.Delivery.Address,
		&match.Route.Distance,
		&match.EstimatedDeliveryAt,
		&match.Status,
		&match.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &match, nil
}
