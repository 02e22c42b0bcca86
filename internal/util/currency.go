// internal/util/currency.go
package util

import (
	"strings"

	"github.com/shopspring/decimal"
)

// USD formats a monetary amount as a display string, e.g. "$1,234.50".
// Negative amounts render as "-$1,234.50".
func USD(amount decimal.Decimal) string {
	fixed := amount.Abs().StringFixed(2)

	intPart, fracPart, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	if amount.IsNegative() {
		b.WriteByte('-')
	}
	b.WriteByte('$')

	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
		if len(intPart) > lead {
			b.WriteByte(',')
		}
	}
	for i := lead; i < len(intPart); i += 3 {
		b.WriteString(intPart[i : i+3])
		if i+3 < len(intPart) {
			b.WriteByte(',')
		}
	}

	b.WriteByte('.')
	b.WriteString(fracPart)
	return b.String()
}
