// Package period resolves accounting periods. A user's financial month ends
// on their closing date, so activity after that day belongs to the next month.
package period

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Bounds accepted for a period year.
const (
	MinYear = 1900
	MaxYear = 9999
)

// Period is a (month, year) accounting bucket.
type Period struct {
	Month time.Month `json:"month"`
	Year  int        `json:"year"`
}

// New validates and builds a period.
func New(month, year int) (Period, error) {
	if month < 1 || month > 12 {
		return Period{}, fmt.Errorf("month %d out of range 1..12", month)
	}
	if year < MinYear || year > MaxYear {
		return Period{}, fmt.Errorf("year %d out of range %d..%d", year, MinYear, MaxYear)
	}
	return Period{Month: time.Month(month), Year: year}, nil
}

// Resolve returns the accounting period containing today for the given
// closing date. Days after the closing date count toward the next month.
// The comparison is purely numeric: a closing date past the end of a short
// month keeps that whole month in the current period.
func Resolve(today time.Time, closingDate int) Period {
	p := Period{Month: today.Month(), Year: today.Year()}
	if today.Day() > NormalizeClosingDate(closingDate) {
		return p.Next()
	}
	return p
}

// NormalizeClosingDate maps an unset (zero or negative) closing date to 1.
func NormalizeClosingDate(closingDate int) int {
	if closingDate <= 0 {
		return 1
	}
	return closingDate
}

// Next returns the following month, wrapping December into January.
func (p Period) Next() Period {
	if p.Month == time.December {
		return Period{Month: time.January, Year: p.Year + 1}
	}
	return Period{Month: p.Month + 1, Year: p.Year}
}

// Prev returns the preceding month, wrapping January into December.
func (p Period) Prev() Period {
	if p.Month == time.January {
		return Period{Month: time.December, Year: p.Year - 1}
	}
	return Period{Month: p.Month - 1, Year: p.Year}
}

// IsZero reports whether p is unset.
func (p Period) IsZero() bool { return p.Month == 0 && p.Year == 0 }

// Equal reports whether both periods name the same bucket.
func (p Period) Equal(o Period) bool { return p.Month == o.Month && p.Year == o.Year }

// MonthParam is the zero-padded two-digit month used in query strings.
func (p Period) MonthParam() string { return fmt.Sprintf("%02d", int(p.Month)) }

// YearParam is the four-digit year used in query strings.
func (p Period) YearParam() string { return fmt.Sprintf("%04d", p.Year) }

// String renders the period as "MM-YYYY".
func (p Period) String() string { return p.MonthParam() + "-" + p.YearParam() }

// Parse reads a "MM-YYYY" period.
func Parse(s string) (Period, error) {
	monthStr, yearStr, ok := strings.Cut(strings.TrimSpace(s), "-")
	if !ok {
		return Period{}, fmt.Errorf("period %q: expected MM-YYYY", s)
	}
	month, err := strconv.Atoi(monthStr)
	if err != nil {
		return Period{}, fmt.Errorf("period %q: invalid month: %w", s, err)
	}
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return Period{}, fmt.Errorf("period %q: invalid year: %w", s, err)
	}
	return New(month, year)
}

// ChartMode selects the granularity of the category breakdown.
type ChartMode string

const (
	ChartMonthly ChartMode = "MONTHLY"
	ChartYearly  ChartMode = "YEARLY"
)

// Filter is the query for period-scoped aggregations. Month is omitted in
// yearly mode.
type Filter struct {
	Mode   ChartMode
	Period Period
}

// Params returns the query parameters of the filter.
func (f Filter) Params() map[string]string {
	params := map[string]string{"year": f.Period.YearParam()}
	if f.Mode != ChartYearly {
		params["month"] = f.Period.MonthParam()
	}
	return params
}
