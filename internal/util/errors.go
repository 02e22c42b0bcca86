// internal/util/errors.go
package util

import "errors"

// Common application-specific errors.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidInput       = errors.New("invalid input provided")
	ErrInvalidSymbol      = errors.New("invalid symbol")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrInsufficientShares = errors.New("not enough shares")
	ErrUsernameTaken      = errors.New("username already in use")
	ErrInvalidCredentials = errors.New("invalid username and/or password")
	ErrUnauthorized       = errors.New("authentication required")
	ErrUserNotFound       = errors.New("user not found")
)

// IsError reports whether err matches target in its chain.
func IsError(err, target error) bool {
	return errors.Is(err, target)
}
