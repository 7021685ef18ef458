package views

import (
	"kaskita/internal/budget"
	"kaskita/internal/models"
	"kaskita/internal/money"
	"kaskita/internal/period"
)

// BudgetRow is one category of the budgeting screen.
type BudgetRow struct {
	ID   models.ID `json:"id"`
	Name string    `json:"name"`
	budget.Usage
}

// BudgetingView is budget against spend for every category of a period.
type BudgetingView struct {
	Period      period.Period `json:"period"`
	Rows        []BudgetRow   `json:"rows"`
	TotalBudget money.Amount  `json:"total_budget"`
	TotalSpent  money.Amount  `json:"total_spent"`
	TotalRemain money.Amount  `json:"total_remain"`
	Percent     int           `json:"percent"`
}

// Budgeting derives remain and percent per category plus page totals. Spend
// comes from the backend aggregation.
func Budgeting(p period.Period, rows []models.CategoryBudgetSpent) BudgetingView {
	view := BudgetingView{Period: p, Rows: make([]BudgetRow, 0, len(rows))}
	for _, r := range rows {
		view.Rows = append(view.Rows, BudgetRow{ID: r.ID, Name: r.Name, Usage: budget.NewUsage(r.Budget, r.Spent)})
		view.TotalBudget += r.Budget
		view.TotalSpent += r.Spent
	}
	view.TotalRemain = view.TotalBudget - view.TotalSpent
	view.Percent = budget.Percent(view.TotalSpent, view.TotalBudget)
	return view
}
