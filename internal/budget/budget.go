// Package budget resolves the effective budget of a category for a period
// and shapes budget upserts.
package budget

import (
	"time"

	"kaskita/internal/models"
	"kaskita/internal/money"
	"kaskita/internal/period"
)

// Source tells which record produced a resolved budget.
type Source string

const (
	SourceOverride Source = "override"
	SourceGlobal   Source = "global"
	SourceNone     Source = "none"
)

// Resolved is an effective budget and where it came from.
type Resolved struct {
	Amount money.Amount `json:"amount"`
	Source Source       `json:"source"`
	// RecordID is the id of the record that supplied the amount, if any.
	RecordID models.ID `json:"record_id,omitempty"`
}

// Resolve returns the effective budget of category for p.
func Resolve(category models.TransactionCategory, p period.Period) money.Amount {
	return ResolveDetail(category, p).Amount
}

// ResolveDetail applies the budget precedence: the first non-global record
// matching p, then the global record, then the category's base budget, then
// zero. Duplicate overrides are not deduplicated; the first one wins.
func ResolveDetail(category models.TransactionCategory, p period.Period) Resolved {
	for _, b := range category.MonthlyBudgets {
		if b.IsGlobal {
			continue
		}
		if int(b.Month) == int(p.Month) && int(b.Year) == p.Year {
			return Resolved{Amount: b.Budget, Source: SourceOverride, RecordID: b.ID}
		}
	}
	for _, b := range category.MonthlyBudgets {
		if b.IsGlobal {
			return Resolved{Amount: b.Budget, Source: SourceGlobal, RecordID: b.ID}
		}
	}
	if category.BaseBudget != 0 {
		return Resolved{Amount: category.BaseBudget, Source: SourceGlobal}
	}
	return Resolved{Source: SourceNone}
}

// GlobalRecord returns the category's global budget record, if present.
func GlobalRecord(category models.TransactionCategory) (models.MonthlyBudget, bool) {
	for _, b := range category.MonthlyBudgets {
		if b.IsGlobal {
			return b, true
		}
	}
	return models.MonthlyBudget{}, false
}

// MonthBudget is one cell of the yearly budget editor.
type MonthBudget struct {
	Month    time.Month   `json:"month"`
	Year     int          `json:"year"`
	Budget   money.Amount `json:"budget"`
	Override bool         `json:"override"`
	// RecordID is set when an override record exists, so saving the cell
	// updates it instead of creating a duplicate.
	RecordID models.ID `json:"record_id,omitempty"`
}

// YearGrid lays out the twelve months of year. Every month starts from the
// global budget and is replaced by a non-global record of that year.
func YearGrid(category models.TransactionCategory, year int) [12]MonthBudget {
	var grid [12]MonthBudget
	for i := range grid {
		p := period.Period{Month: time.Month(i + 1), Year: year}
		r := ResolveDetail(category, p)
		grid[i] = MonthBudget{Month: p.Month, Year: year, Budget: r.Amount}
		if r.Source == SourceOverride {
			grid[i].Override = true
			grid[i].RecordID = r.RecordID
		}
	}
	return grid
}

// Usage compares a budget with the backend-computed spend.
type Usage struct {
	Budget  money.Amount `json:"budget"`
	Spent   money.Amount `json:"spent"`
	Remain  money.Amount `json:"remain"`
	Percent int          `json:"percent"`
}

// NewUsage derives the remaining amount and percent used.
func NewUsage(budget, spent money.Amount) Usage {
	return Usage{
		Budget:  budget,
		Spent:   spent,
		Remain:  budget - spent,
		Percent: Percent(spent, budget),
	}
}

// Percent is the share of budget already spent, clamped to [0, 100]. A zero
// budget or zero spend yields 0.
func Percent(spent, budget money.Amount) int {
	return money.Percent(spent.Int64(), budget.Int64())
}
