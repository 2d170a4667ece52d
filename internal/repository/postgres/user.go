package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"feedai/internal/domain"
	"feedai/internal/repository"
)

// UserRepository is a PostgreSQL implementation of repository.UserRepository.
type UserRepository struct {
	q Querier
}

// NewUserRepository creates a new PostgreSQL user repository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{q: db}
}

const userColumns = `id, email, name, type, points, badges, lat, lng, address, created_at`

// Create adds a new user.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	badges := user.Badges
	if badges == nil {
		badges = []string{}
	}

	_, err := r.q.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.Name,
		user.Type,
		user.Points,
		pq.Array(badges),
		user.Location.Lat,
		user.Location.Lng,
		user.Location.Address,
		user.CreatedAt,
	)

	return err
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.get(ctx, query, id)
}

// GetByEmail retrieves a user by email address.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.get(ctx, query, email)
}

func (r *UserRepository) get(ctx context.Context, query string, arg any) (*domain.User, error) {
	user, err := scanUser(r.q.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

// GetAll retrieves all users.
func (r *UserRepository) GetAll(ctx context.Context) ([]*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`
	return r.list(ctx, query)
}

// UpdateIncentive writes the donor's points and badge set conditionally on the
// previously read points value, so a concurrent award cannot be silently lost.
func (r *UserRepository) UpdateIncentive(ctx context.Context, id string, oldPoints, newPoints int, badges []string) error {
	query := `UPDATE users SET points = $1, badges = $2 WHERE id = $3 AND points = $4`

	if badges == nil {
		badges = []string{}
	}

	result, err := r.q.ExecContext(ctx, query, newPoints, pq.Array(badges), id, oldPoints)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		var points int
		err := r.q.QueryRowContext(ctx, `SELECT points FROM users WHERE id = $1`, id).Scan(&points)
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

// QueryTopDonors retrieves the highest-scoring donors. Ties are broken by
// name ascending so the ordering is stable across calls.
func (r *UserRepository) QueryTopDonors(ctx context.Context, limit int) ([]*domain.User, error) {
	query := `
		SELECT ` + userColumns + ` FROM users
		WHERE type = $1
		ORDER BY points DESC, name ASC
		LIMIT $2
	`
	return r.list(ctx, query, domain.UserTypeDonor, limit)
}

func (r *UserRepository) list(ctx context.Context, query string, args ...any) ([]*domain.User, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func scanUser(row rowScanner) (*domain.User, error) {
	var user domain.User
	var badges pq.StringArray

	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.Type,
		&user.Points,
		&badges,
		&user.Location.Lat,
		&user.Location.Lng,
		&user.Location.Address,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	user.Badges = []string(badges)
	return &user, nil
}
