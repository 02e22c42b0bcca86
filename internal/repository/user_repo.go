// internal/repository/user_repo.go
package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"papertrade/internal/domain"
)

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	// CreateUser adds a new user. It returns util.ErrUsernameTaken if the
	// username is already registered.
	CreateUser(ctx context.Context, q DBExecutor, user *domain.User) error
	// GetUserByID retrieves a user by their ID.
	GetUserByID(ctx context.Context, q DBExecutor, id int64) (*domain.User, error)
	// GetUserByUsername retrieves a user by their username.
	GetUserByUsername(ctx context.Context, q DBExecutor, username string) (*domain.User, error)
	// GetUserForUpdate retrieves a user and locks their row for the duration
	// of the surrounding transaction, serializing concurrent trades.
	GetUserForUpdate(ctx context.Context, q DBExecutor, id int64) (*domain.User, error)
	// UpdateCash applies a signed delta to the user's cash balance.
	UpdateCash(ctx context.Context, q DBExecutor, userID int64, delta decimal.Decimal) error
}
