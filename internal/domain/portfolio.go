// internal/domain/portfolio.go
package domain

import "github.com/shopspring/decimal"

// Holding is the net share count a user currently holds for one symbol,
// derived by aggregating the transaction ledger.
type Holding struct {
	Symbol string `db:"symbol"`
	Shares int64  `db:"shares"`
}

// Position is a holding enriched with the current market quote.
type Position struct {
	Symbol string          `json:"symbol"`
	Name   string          `json:"name"`
	Shares int64           `json:"shares"`
	Price  decimal.Decimal `json:"price"`
	Value  decimal.Decimal `json:"value"` // price * shares at current quote
}

// Portfolio is the quote-enriched valuation of a user's account.
// It is recomputed on every view and never persisted.
type Portfolio struct {
	Cash          decimal.Decimal `json:"cash"`
	Positions     []Position      `json:"positions"`
	HoldingsValue decimal.Decimal `json:"holdings_value"`
	GrandTotal    decimal.Decimal `json:"grand_total"` // cash + holdings value
}
