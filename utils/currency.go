package utils

import (
	"github.com/shopspring/decimal"
)

// CentsToDecimal converts minor units into a two-place decimal.
func CentsToDecimal(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// FormatAmount renders cents as a plain two-decimal string.
// Example: 550 -> "5.50"
func FormatAmount(cents int64) string {
	return CentsToDecimal(cents).StringFixed(2)
}

// FormatCurrency renders cents as dollars for display.
// Example: 550 -> "$5.50", -100 -> "-$1.00"
func FormatCurrency(cents int64) string {
	if cents < 0 {
		return "-$" + FormatAmount(-cents)
	}
	return "$" + FormatAmount(cents)
}
