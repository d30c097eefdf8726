package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateParseError reports a token that does not match the "Mon D" grammar at
// all. A day that is merely out of range for its month is not an error — it
// clamps (see normalizeDate).
type DateParseError struct {
	Token string
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("unrecognized date token %q", e.Token)
}

var monthDayPattern = regexp.MustCompile(
	`^(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\s+(\d{1,2})$`)

var monthsByAbbrev = map[string]time.Month{
	"Jan": time.January, "Feb": time.February, "Mar": time.March,
	"Apr": time.April, "May": time.May, "Jun": time.June,
	"Jul": time.July, "Aug": time.August, "Sep": time.September,
	"Oct": time.October, "Nov": time.November, "Dec": time.December,
}

// normalizeDate resolves a "Mon D" token against the given statement year.
// If the day exceeds the last valid day of that month in that year (Feb 29
// on a non-leap year), it clamps to the month's last day rather than failing.
func normalizeDate(token string, year int) (time.Time, error) {
	m := monthDayPattern.FindStringSubmatch(strings.TrimSpace(token))
	if m == nil {
		return time.Time{}, &DateParseError{Token: token}
	}

	month := monthsByAbbrev[m[1]]
	day, err := strconv.Atoi(m[2])
	if err != nil || day < 1 {
		return time.Time{}, &DateParseError{Token: token}
	}

	if last := lastDayOfMonth(year, month); day > last {
		day = last
	}

	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), nil
}

// lastDayOfMonth exploits time.Date's normalization: day 0 of the next month
// is the last day of this one.
func lastDayOfMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
