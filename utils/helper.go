package utils

import "github.com/shopspring/decimal"

// CurrencyLabel prefixes every rendered money value. Single-currency system.
const CurrencyLabel = "PKR"

// FormatCurrency renders a money value with the currency label and exactly
// two decimal places.
func FormatCurrency(amount decimal.Decimal) string {
	return CurrencyLabel + " " + amount.StringFixed(2)
}

// FormatPercent renders a percentage with exactly two decimal places, no sign.
func FormatPercent(percent decimal.Decimal) string {
	return percent.StringFixed(2)
}

// TruncateString cuts s to at most max characters.
func TruncateString(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
