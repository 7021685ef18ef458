// Package money handles IDR amounts as they travel between the backend,
// the ledger rules and the display layer. Amounts are whole rupiah.
package money

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a whole-rupiah value. It decodes tolerantly from JSON numbers,
// numeric strings and decimal strings ("150000.00"); anything non-numeric
// decodes to zero. It encodes as a decimal-string integer.
type Amount int64

// Int64 returns the amount as a plain integer.
func (a Amount) Int64() int64 { return int64(a) }

// String returns the canonical wire form, e.g. "150000".
func (a Amount) String() string { return strconv.FormatInt(int64(a), 10) }

// MarshalJSON encodes the amount as a decimal-string integer.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(a.String())), nil
}

// UnmarshalJSON never fails on malformed numeric content.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*a = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*a = 0
			return nil
		}
		*a = FromString(s)
		return nil
	}
	*a = FromString(string(data))
	return nil
}

// FromString converts a numeric or decimal string to an Amount, rounding
// half away from zero. Non-numeric input yields zero.
func FromString(s string) Amount {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	return Amount(d.Round(0).IntPart())
}

// Coerce converts a loosely typed transport value into an Amount.
func Coerce(v any) Amount {
	switch n := v.(type) {
	case Amount:
		return n
	case int:
		return Amount(n)
	case int32:
		return Amount(n)
	case int64:
		return Amount(n)
	case float32:
		return Amount(decimal.NewFromFloat32(n).Round(0).IntPart())
	case float64:
		return Amount(decimal.NewFromFloat(n).Round(0).IntPart())
	case json.Number:
		return FromString(n.String())
	case string:
		return FromString(n)
	default:
		return 0
	}
}

// Sum adds amounts.
func Sum(amounts ...Amount) Amount {
	var total Amount
	for _, a := range amounts {
		total += a
	}
	return total
}
