// internal/domain/transaction.go
package domain

import (
	"time"

	"github.com/shopspring/decimal" // For precise monetary calculations
)

// Transaction is one immutable entry in a user's trade ledger.
// Quantity is signed: positive for a buy, negative for a sell.
// Total is always the positive magnitude price * |quantity|.
type Transaction struct {
	ID         int64           `db:"id" json:"id"`
	UserID     int64           `db:"user_id" json:"user_id"`
	Symbol     string          `db:"symbol" json:"symbol"`
	Company    string          `db:"company" json:"company"`
	Quantity   int64           `db:"quantity" json:"quantity"`
	Price      decimal.Decimal `db:"price" json:"price"` // price per share at execution time
	Total      decimal.Decimal `db:"total" json:"total"`
	ExecutedAt time.Time       `db:"executed_at" json:"executed_at"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
}

// NewTransaction creates a ledger entry for a trade executed now.
// quantity carries the sign convention; price is the per-share execution price.
func NewTransaction(userID int64, symbol, company string, quantity int64, price decimal.Decimal) *Transaction {
	now := time.Now().UTC()
	abs := quantity
	if abs < 0 {
		abs = -abs
	}
	return &Transaction{
		UserID:     userID,
		Symbol:     symbol,
		Company:    company,
		Quantity:   quantity,
		Price:      price,
		Total:      price.Mul(decimal.NewFromInt(abs)),
		ExecutedAt: now,
		CreatedAt:  now,
	}
}
