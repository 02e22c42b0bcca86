// internal/util/currency_test.go
package util

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestUSD(t *testing.T) {
	tests := []struct {
		name     string
		amount   decimal.Decimal
		expected string
	}{
		{"Zero", decimal.Zero, "$0.00"},
		{"WholeDollars", decimal.NewFromInt(999), "$999.00"},
		{"ThousandsSeparator", decimal.NewFromFloat(1234.5), "$1,234.50"},
		{"StartingCash", decimal.NewFromInt(10000), "$10,000.00"},
		{"Millions", decimal.NewFromInt(1000000), "$1,000,000.00"},
		{"RoundsToCents", decimal.NewFromFloat(3444.556), "$3,444.56"},
		{"SubDollar", decimal.NewFromFloat(0.07), "$0.07"},
		{"Negative", decimal.NewFromFloat(-1234.5), "-$1,234.50"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, USD(tc.amount))
		})
	}
}
