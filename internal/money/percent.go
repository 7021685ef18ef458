package money

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Percent returns round(part/whole*100) clamped to [0, 100]. A zero part or
// whole yields 0.
func Percent(part, whole int64) int {
	if part == 0 || whole == 0 {
		return 0
	}
	p := decimal.NewFromInt(part).Div(decimal.NewFromInt(whole)).Mul(hundred).Round(0).IntPart()
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	}
	return int(p)
}

// Share returns part/total*100 rounded to one decimal place. Unlike Percent it
// is not clamped, so shares of a signed total may exceed 100.
func Share(part, total int64) float64 {
	if total == 0 {
		return 0
	}
	f, _ := decimal.NewFromInt(part).Div(decimal.NewFromInt(total)).Mul(hundred).Round(1).Float64()
	return f
}
