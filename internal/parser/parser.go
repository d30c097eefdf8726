package parser

import (
	"fmt"

	"github.com/privafirst/expense-tracker/internal/models"
)

// Parser extracts a Statement from pre-split statement page text.
type Parser interface {
	Parse(pages []string) (*models.Statement, error)
	IssuerName() string
}

// New returns the parser for a known issuer.
func New(issuer models.Issuer) (Parser, error) {
	switch issuer {
	case models.IssuerCIBC:
		return &CIBCParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported issuer %q", issuer)
	}
}

// AutoDetect picks a parser by probing the page text for issuer-specific
// markers.
func AutoDetect(pages []string) (Parser, error) {
	cibc := &CIBCParser{}
	if cibc.Detect(pages) {
		return cibc, nil
	}
	return nil, fmt.Errorf("statement format not recognized")
}
