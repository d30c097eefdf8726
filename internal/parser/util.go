package parser

import (
	"strings"

	"github.com/shopspring/decimal"
)

// parseAmount converts a row amount like "830", "146.9", "1,234.56" or
// "-12.34" to a decimal, stripping thousands separators and currency signs.
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "$", "")
	// The row grammar allows a bare trailing period ("12.")
	s = strings.TrimSuffix(s, ".")

	if s == "" || s == "-" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

// collapseWhitespace normalizes runs of whitespace to single spaces and
// trims the ends. Statement text extracted from PDFs has erratic spacing.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// titleCase capitalizes the first letter of each word and lowercases the
// rest, e.g. "NIAGARA FALLS" -> "Niagara Falls".
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}
