package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/lib/pq"

	"feedai/internal/domain"
	"feedai/internal/repository"
)

// RecipientRepository is a PostgreSQL implementation of repository.RecipientRepository.
type RecipientRepository struct {
	q Querier
}

// NewRecipientRepository creates a new PostgreSQL recipient repository.
func NewRecipientRepository(db *sql.DB) *RecipientRepository {
	return &RecipientRepository{q: db}
}

const profileColumns = `user_id, food_preferences, capacity, available_hours, lat, lng, address, active`

// GetProfile retrieves the profile for a recipient user.
func (r *RecipientRepository) GetProfile(ctx context.Context, userID string) (*domain.RecipientProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM recipient_profiles WHERE user_id = $1`

	profile, err := scanProfile(r.q.QueryRowContext(ctx, query, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return profile, nil
}

// UpsertProfile creates or replaces a recipient's profile.
func (r *RecipientRepository) UpsertProfile(ctx context.Context, profile *domain.RecipientProfile) error {
	query := `
		INSERT INTO recipient_profiles (` + profileColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id) DO UPDATE SET
			food_preferences = EXCLUDED.food_preferences,
			capacity = EXCLUDED.capacity,
			available_hours = EXCLUDED.available_hours,
			lat = EXCLUDED.lat,
			lng = EXCLUDED.lng,
			address = EXCLUDED.address,
			active = EXCLUDED.active
	`

	prefs := profile.FoodPreferences
	if prefs == nil {
		prefs = []string{}
	}

	hours, err := json.Marshal(profile.AvailableHours)
	if err != nil {
		return err
	}

	_, err = r.q.ExecContext(ctx, query,
		profile.UserID,
		pq.Array(prefs),
		profile.Capacity,
		hours,
		profile.Location.Lat,
		profile.Location.Lng,
		profile.Location.Address,
		profile.Active,
	)

	return err
}

// GetAllActive retrieves every active recipient profile. Ordering by user ID
// keeps candidate iteration, and therefore tie-breaking, deterministic.
func (r *RecipientRepository) GetAllActive(ctx context.Context) ([]*domain.RecipientProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM recipient_profiles WHERE active ORDER BY user_id`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []*domain.RecipientProfile
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}
	return profiles, rows.Err()
}

func scanProfile(row rowScanner) (*domain.RecipientProfile, error) {
	var profile domain.RecipientProfile
	var prefs pq.StringArray
	var hours []byte

	err := row.Scan(
		&profile.UserID,
		&prefs,
		&profile.Capacity,
		&hours,
		&profile.Location.Lat,
		&profile.Location.Lng,
		&profile.Location.Address,
		&profile.Active,
	)
	if err != nil {
		return nil, err
	}

	profile.FoodPreferences = []string(prefs)
	if len(hours) > 0 {
		if err := json.Unmarshal(hours, &profile.AvailableHours); err != nil {
			return nil, err
		}
	}

	return &profile, nil
}
