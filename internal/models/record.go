package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SourceCIBC is the issuer tag stamped on every record.
const SourceCIBC = "CIBC"

// PaymentRecord is one row from the "Your payments" section of a statement:
// money paid toward the card balance.
type PaymentRecord struct {
	TransDate   time.Time       `json:"transDate"`
	PostDate    time.Time       `json:"postDate"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Source      string          `json:"source"`
}

// TransactionRecord is one row from the "Your new charges and credits"
// section. Category is one of the fixed CIBC spend labels, or empty when the
// label could not be recognized. Location is "City PROVINCE" and is only set
// when both parts were inferred; City and Province may be individually empty.
type TransactionRecord struct {
	TransDate   time.Time       `json:"transDate"`
	PostDate    time.Time       `json:"postDate"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Location    string          `json:"location"`
	City        string          `json:"city"`
	Province    string          `json:"province"`
	Source      string          `json:"source"`
}

// Statement holds everything recovered from one multi-page statement.
// Records appear in encounter order (scanning order through the pages).
type Statement struct {
	// Year is the statement year all "Mon D" dates were resolved against.
	Year int
	// YearInferred is true when no "Transactions from … YYYY" marker was
	// found and Year fell back to the current calendar year. Callers should
	// surface this: the fallback is a best-effort, wall-clock-dependent
	// default.
	YearInferred bool
	Payments     []PaymentRecord
	Transactions []TransactionRecord
}

// Issuer identifies a supported statement format.
type Issuer string

const (
	IssuerCIBC Issuer = "cibc"
)
