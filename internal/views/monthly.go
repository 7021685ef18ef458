package views

import (
	"kaskita/internal/models"
	"kaskita/internal/money"
	"kaskita/internal/period"
)

// MonthlyRow is one month of the yearly summary.
type MonthlyRow struct {
	Month   string       `json:"month"`
	Label   string       `json:"label"`
	Income  money.Amount `json:"income"`
	Expense money.Amount `json:"expense"`
	Net     money.Amount `json:"net"`
}

// MonthlyView is the yearly summary with totals.
type MonthlyView struct {
	Year         int          `json:"year"`
	Rows         []MonthlyRow `json:"rows"`
	TotalIncome  money.Amount `json:"total_income"`
	TotalExpense money.Amount `json:"total_expense"`
	Net          money.Amount `json:"net"`
}

// Monthly adds the per-row net and the year totals to the backend summary.
func Monthly(year int, rows []models.MonthlySummary) MonthlyView {
	view := MonthlyView{Year: year, Rows: make([]MonthlyRow, 0, len(rows))}
	for _, r := range rows {
		row := MonthlyRow{
			Month:   r.Month,
			Label:   r.Month,
			Income:  r.Income,
			Expense: r.Expense,
			Net:     r.Income - r.Expense,
		}
		if p, err := period.Parse(r.Month); err == nil {
			row.Label = shortMonths[p.Month-1]
		}
		view.Rows = append(view.Rows, row)
		view.TotalIncome += r.Income
		view.TotalExpense += r.Expense
	}
	view.Net = view.TotalIncome - view.TotalExpense
	return view
}
