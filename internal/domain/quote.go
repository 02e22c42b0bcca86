// internal/domain/quote.go
package domain

import "github.com/shopspring/decimal"

// Quote is the externally supplied current price and display name for a symbol.
type Quote struct {
	Symbol string          `json:"symbol"`
	Name   string          `json:"name"`
	Price  decimal.Decimal `json:"price"`
}
