// internal/service/auth_service.go
package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"papertrade/internal/domain"
	"papertrade/internal/repository"
	"papertrade/internal/session"
	"papertrade/internal/util"
)

// AuthService handles registration, login, and session resolution.
type AuthService interface {
	// Register creates a user and opens a session for them.
	Register(ctx context.Context, username, password, confirmation string) (*domain.User, string, error)
	// Login verifies credentials and opens a session.
	Login(ctx context.Context, username, password string) (*domain.User, string, error)
	// Logout ends the session for the given token.
	Logout(ctx context.Context, token string) error
	// Authenticate resolves a session token to a user id.
	Authenticate(ctx context.Context, token string) (int64, error)
}

// authService implements the AuthService interface.
type authService struct {
	dbExecutor repository.DBExecutor
	userRepo   repository.UserRepository
	sessions   session.Store
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(
	dbExecutor repository.DBExecutor,
	userRepo repository.UserRepository,
	sessions session.Store,
) AuthService {
	return &authService{
		dbExecutor: dbExecutor,
		userRepo:   userRepo,
		sessions:   sessions,
	}
}

// Register creates a user with the starting cash balance and logs them in.
// The database unique constraint decides username collisions, so two
// concurrent registrations of the same name cannot both succeed.
func (s *authService) Register(ctx context.Context, username, password, confirmation string) (*domain.User, string, error) {
	if username == "" || password == "" || confirmation == "" {
		return nil, "", fmt.Errorf("%w: username, password and confirmation are required", util.ErrInvalidInput)
	}
	if password != confirmation {
		return nil, "", fmt.Errorf("%w: passwords must match", util.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("register: failed to hash password: %w", err)
	}

	user := domain.NewUser(username, string(hash))
	if err := s.userRepo.CreateUser(ctx, s.dbExecutor, user); err != nil {
		if errors.Is(err, util.ErrUsernameTaken) {
			return nil, "", util.ErrUsernameTaken
		}
		return nil, "", fmt.Errorf("register: failed to create user: %w", err)
	}

	token, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("register: failed to create session: %w", err)
	}
	return user, token, nil
}

// Login verifies credentials and opens a session. A missing user and a wrong
// password produce the same error.
func (s *authService) Login(ctx context.Context, username, password string) (*domain.User, string, error) {
	if username == "" || password == "" {
		return nil, "", fmt.Errorf("%w: username and password are required", util.ErrInvalidInput)
	}

	user, err := s.userRepo.GetUserByUsername(ctx, s.dbExecutor, username)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			return nil, "", util.ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("login: failed to fetch user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", util.ErrInvalidCredentials
	}

	token, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("login: failed to create session: %w", err)
	}
	return user, token, nil
}

// Logout ends the session for the given token.
func (s *authService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.Delete(ctx, token)
}

// Authenticate resolves a session token to a user id.
func (s *authService) Authenticate(ctx context.Context, token string) (int64, error) {
	if token == "" {
		return 0, util.ErrUnauthorized
	}
	return s.sessions.Get(ctx, token)
}
