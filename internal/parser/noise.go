package parser

import (
	"regexp"
	"strings"
)

// Boilerplate prefixes that appear on every statement page.
const (
	cardNumberPrefix = "Card number"
	totalForPrefix   = "Total for"
)

var (
	pageNumberPattern = regexp.MustCompile(`^Page \d+ of \d+$`)
	// Mailing barcodes, e.g. *0502530000*
	barcodePattern = regexp.MustCompile(`^\*\d{7,}\*$`)
	// Dash-delimited reference codes, e.g. -188-036281
	referenceCodePattern = regexp.MustCompile(`^-?\d{3}-\d{6,}$`)
)

// isNoise reports whether a line is discardable boilerplate: blank lines,
// card-number headers, per-cardholder totals, page numbers, barcodes, and
// reference codes. Filtering these before the row grammar runs keeps
// digit-heavy footers from producing false rows.
func isNoise(line string) bool {
	s := strings.TrimSpace(line)
	if s == "" {
		return true
	}
	if strings.HasPrefix(s, cardNumberPrefix) {
		return true
	}
	if strings.HasPrefix(s, totalForPrefix) {
		return true
	}
	if pageNumberPattern.MatchString(s) {
		return true
	}
	if barcodePattern.MatchString(s) {
		return true
	}
	return referenceCodePattern.MatchString(s)
}
