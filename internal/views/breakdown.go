package views

import (
	"kaskita/internal/models"
	"kaskita/internal/money"
)

// Slice is one category of the breakdown chart.
type Slice struct {
	models.CategoryTotal
	Share float64 `json:"share"`
}

// BreakdownView is the per-category split of one transaction type.
type BreakdownView struct {
	Type   models.CategoryType `json:"type"`
	Total  money.Amount        `json:"total"`
	Slices []Slice             `json:"slices"`
}

// Breakdown computes each category's share of the total. Categories with a
// zero total stay in the chart with a 0% share.
func Breakdown(t models.CategoryType, totals []models.CategoryTotal) BreakdownView {
	view := BreakdownView{Type: t, Slices: make([]Slice, 0, len(totals))}
	for _, ct := range totals {
		view.Total += ct.TotalAmount
	}
	for _, ct := range totals {
		view.Slices = append(view.Slices, Slice{
			CategoryTotal: ct,
			Share:         money.Share(ct.TotalAmount.Int64(), view.Total.Int64()),
		})
	}
	return view
}
