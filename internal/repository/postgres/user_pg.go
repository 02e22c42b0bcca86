// internal/repository/postgres/user_pg.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"papertrade/internal/domain"
	"papertrade/internal/repository"
	"papertrade/internal/util"
)

// uniqueViolation is the PostgreSQL error code for unique constraint violations.
const uniqueViolation = "23505"

// UserRepository implements repository.UserRepository for PostgreSQL.
type UserRepository struct {
	// Methods receive a DBExecutor directly, so no connection is stored here.
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sqlx.DB) repository.UserRepository {
	return &UserRepository{}
}

// CreateUser inserts a new user using the provided DBExecutor.
// The unique constraint on username is the authority on duplicates.
func (r *UserRepository) CreateUser(ctx context.Context, q repository.DBExecutor, user *domain.User) error {
	query := `INSERT INTO users (username, password_hash, cash, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5) RETURNING id`
	err := q.QueryRowContext(ctx, query,
		user.Username,
		user.PasswordHash,
		user.Cash,
		user.CreatedAt,
		user.UpdatedAt,
	).Scan(&user.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return util.ErrUsernameTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUserByID retrieves a user by their ID using the provided DBExecutor.
func (r *UserRepository) GetUserByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.User, error) {
	var user domain.User
	query := `SELECT id, username, password_hash, cash, created_at, updated_at FROM users WHERE id = $1`
	err := q.GetContext(ctx, &user, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by ID %d: %w", id, err)
	}
	return &user, nil
}

// GetUserByUsername retrieves a user by their username using the provided DBExecutor.
func (r *UserRepository) GetUserByUsername(ctx context.Context, q repository.DBExecutor, username string) (*domain.User, error) {
	var user domain.User
	query := `SELECT id, username, password_hash, cash, created_at, updated_at FROM users WHERE username = $1`
	err := q.GetContext(ctx, &user, query, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by username '%s': %w", username, err)
	}
	return &user, nil
}

// GetUserForUpdate retrieves a user with a row lock held until the surrounding
// transaction commits or rolls back. q must be a transaction executor.
func (r *UserRepository) GetUserForUpdate(ctx context.Context, q repository.DBExecutor, id int64) (*domain.User, error) {
	var user domain.User
	query := `SELECT id, username, password_hash, cash, created_at, updated_at FROM users WHERE id = $1 FOR UPDATE`
	err := q.GetContext(ctx, &user, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock user %d: %w", id, err)
	}
	return &user, nil
}

// UpdateCash applies a signed delta to the user's cash balance.
func (r *UserRepository) UpdateCash(ctx context.Context, q repository.DBExecutor, userID int64, delta decimal.Decimal) error {
	query := `UPDATE users SET cash = cash + $1, updated_at = $2 WHERE id = $3`
	result, err := q.ExecContext(ctx, query, delta, time.Now().UTC(), userID)
	if err != nil {
		return fmt.Errorf("failed to update cash for user %d: %w", userID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after updating cash for user %d: %w", userID, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("no rows affected when updating cash for user %d: %w", userID, util.ErrNotFound)
	}
	return nil
}
