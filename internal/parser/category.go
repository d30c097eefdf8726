package parser

import "strings"

// knownCategories are the spend labels CIBC prints at the end of a charge
// description. Ordered longest-first so that suffix matching never clips a
// longer label to a shorter one.
var knownCategories = []string{
	"Professional and Financial Services",
	"Hotel, Entertainment and Recreation",
	"Personal and Household Expenses",
	"Foreign Currency Transactions",
	"Health and Education",
	"Retail and Grocery",
	"Other Transactions",
	"Transportation",
	"Restaurants",
}

// extractCategory splits a matched row body into (category, description).
// If the whitespace-normalized body ends with a known label, the label is
// returned along with the body trimmed of it; otherwise the category is
// empty and the normalized body is returned untouched. No match is the
// common case for payments and for charges whose label was cut off.
func extractCategory(body string) (category, desc string) {
	norm := strings.Join(strings.Fields(body), " ")
	for _, cat := range knownCategories {
		if strings.HasSuffix(norm, cat) {
			return cat, strings.TrimRight(norm[:len(norm)-len(cat)], " ")
		}
	}
	return "", norm
}
