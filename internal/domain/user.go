// internal/domain/user.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// StartingCash is the cash balance granted to every newly registered user.
var StartingCash = decimal.NewFromInt(10000)

// User represents a registered account in the trading simulator.
type User struct {
	ID           int64           `db:"id" json:"id"`
	Username     string          `db:"username" json:"username"`
	PasswordHash string          `db:"password_hash" json:"-"`
	Cash         decimal.Decimal `db:"cash" json:"cash"` // NUMERIC(20, 4) in DB
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`
}

// NewUser creates a new User instance with the starting cash balance.
func NewUser(username, passwordHash string) *User {
	now := time.Now().UTC()
	return &User{
		Username:     username,
		PasswordHash: passwordHash,
		Cash:         StartingCash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
