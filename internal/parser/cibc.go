package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/privafirst/expense-tracker/internal/models"
)

// Section markers on CIBC statements. The parser only harvests rows while
// it is inside one of the two marked sections; everything between sections
// is summary text and must not reach the row grammar.
const (
	paymentsStartMarker = "Your payments"
	paymentsTotalPrefix = "Total payments $"
	chargesStartMarker  = "Your new charges and credits"
)

type section int

const (
	sectionNone section = iota
	sectionPayments
	sectionCharges
)

var (
	// "Transactions from November 16 to December 15, 2023"
	yearMarkerPattern = regexp.MustCompile(`Transactions from .*?(\d{4})`)

	// Two "Mon D" tokens, a non-greedy body, a trailing amount. Non-greedy
	// so that amounts embedded in the description (rare, but merchant codes
	// contain digits) do not steal the money column.
	rowPattern = regexp.MustCompile(
		`^(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\s+(\d{1,2})\s+` +
			`(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\s+(\d{1,2})\s+` +
			`(.*?)\s+(-?\d[\d,]*\.?\d{0,2})$`)
)

// CIBCParser turns extracted CIBC statement page text into a Statement.
// The zero value is ready to use; Now is overridable for deterministic tests.
type CIBCParser struct {
	Now func() time.Time
}

func (p *CIBCParser) IssuerName() string { return models.SourceCIBC }

// Detect reports whether the pages look like a CIBC statement by probing
// for its section markers.
func (p *CIBCParser) Detect(pages []string) bool {
	for _, page := range pages {
		if strings.Contains(page, paymentsStartMarker) ||
			strings.Contains(page, chargesStartMarker) {
			return true
		}
	}
	return false
}

// Parse walks the statement pages line by line, switching sections on the
// CIBC markers and applying the row grammar inside them. A malformed date
// inside a matched row aborts the parse; out-of-section lines are never
// interpreted as rows.
func (p *CIBCParser) Parse(pages []string) (*models.Statement, error) {
	year, found := p.statementYear(pages)
	st := &models.Statement{Year: year, YearInferred: !found}

	state := sectionNone
	for _, page := range pages {
		for _, raw := range strings.Split(page, "\n") {
			// Extracted text has erratic internal spacing; normalize before
			// any marker or noise matching.
			line := collapseWhitespace(raw)

			switch {
			case strings.HasPrefix(line, paymentsStartMarker):
				state = sectionPayments
				continue
			case strings.HasPrefix(line, chargesStartMarker):
				state = sectionCharges
				continue
			case state == sectionPayments && strings.HasPrefix(line, paymentsTotalPrefix):
				// The payments total only closes the payments section; the
				// charges section runs until another header or EOF.
				state = sectionNone
				continue
			}

			if isNoise(line) || state == sectionNone {
				continue
			}

			m := rowPattern.FindStringSubmatch(line)
			if m == nil {
				continue
			}

			transDate, err := normalizeDate(m[1]+" "+m[2], year)
			if err != nil {
				return nil, fmt.Errorf("parse row %q: %w", line, err)
			}
			postDate, err := normalizeDate(m[3]+" "+m[4], year)
			if err != nil {
				return nil, fmt.Errorf("parse row %q: %w", line, err)
			}
			amount, err := parseAmount(m[6])
			if err != nil {
				return nil, fmt.Errorf("parse amount in row %q: %w", line, err)
			}

			body := m[5]
			switch state {
			case sectionPayments:
				st.Payments = append(st.Payments, models.PaymentRecord{
					TransDate:   transDate,
					PostDate:    postDate,
					Description: collapseWhitespace(body),
					Amount:      amount,
					Source:      models.SourceCIBC,
				})
			case sectionCharges:
				category, desc := extractCategory(body)
				loc := ExtractLocation(desc)
				st.Transactions = append(st.Transactions, models.TransactionRecord{
					TransDate:   transDate,
					PostDate:    postDate,
					Description: desc,
					Category:    category,
					Amount:      amount,
					Location:    loc.Location,
					City:        loc.City,
					Province:    loc.Province,
					Source:      models.SourceCIBC,
				})
			}
		}
	}

	return st, nil
}

// statementYear scans the pages for the transaction-period marker and
// returns its year. When no marker survives extraction it falls back to the
// current year; callers see that through Statement.YearInferred.
func (p *CIBCParser) statementYear(pages []string) (int, bool) {
	for _, page := range pages {
		if m := yearMarkerPattern.FindStringSubmatch(page); m != nil {
			year, _ := strconv.Atoi(m[1])
			return year, true
		}
	}
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	return now().Year(), false
}
