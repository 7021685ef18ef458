package money

import (
	"errors"
	"strconv"
	"strings"
	"unicode"

	"github.com/dustin/go-humanize"
)

// ErrEmptyAmount is returned by Parse when the input has no digits.
var ErrEmptyAmount = errors.New("amount has no digits")

// idGrouping renders integers with "." thousand separators and no fraction.
const idGrouping = "#.###,"

// Format renders n with Indonesian digit grouping, e.g. 1500000 -> "1.500.000".
func Format(n int64) string {
	if n < 0 {
		return "-" + humanize.FormatInteger(idGrouping, int(-n))
	}
	return humanize.FormatInteger(idGrouping, int(n))
}

// FormatIDR renders n as rupiah currency, e.g. "Rp 1.500.000,00".
func FormatIDR(n int64) string {
	if n < 0 {
		return "-Rp " + Format(-n) + ",00"
	}
	return "Rp " + Format(n) + ",00"
}

// Parse normalizes a locale-formatted amount typed by the user into a plain
// integer by dropping every non-digit character.
func Parse(display string) (int64, error) {
	var b strings.Builder
	for _, r := range display {
		if r < unicode.MaxASCII && unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0, ErrEmptyAmount
	}
	return strconv.ParseInt(b.String(), 10, 64)
}

// Reformat parses and re-renders user input, the way the amount field updates
// while typing. Empty input stays empty.
func Reformat(display string) string {
	n, err := Parse(display)
	if err != nil {
		return ""
	}
	return Format(n)
}
