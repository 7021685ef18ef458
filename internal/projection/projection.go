// Package projection derives display figures from the current snapshot of
// assets, savings and loans. Nothing here is stored or sent back.
package projection

import (
	"kaskita/internal/models"
	"kaskita/internal/money"
)

// TotalBalance sums the balances of all assets.
func TotalBalance(assets []models.Asset) money.Amount {
	var total money.Amount
	for _, a := range assets {
		total += a.Balance
	}
	return total
}

// TotalRemaining sums what is still owed across loans.
func TotalRemaining(loans []models.Loan) money.Amount {
	var total money.Amount
	for _, l := range loans {
		total += l.RemainingBalance
	}
	return total
}

// TotalSaved sums the current amount of every saving goal.
func TotalSaved(savings []models.Saving) money.Amount {
	var total money.Amount
	for _, s := range savings {
		total += s.CurrentAmount
	}
	return total
}

// SavingPercent is how far a saving is toward its target, in [0, 100].
func SavingPercent(s models.Saving) int {
	return money.Percent(s.CurrentAmount.Int64(), s.TargetAmount.Int64())
}

// LoanPaid is the part of the principal already repaid.
func LoanPaid(l models.Loan) money.Amount {
	return l.Principal - l.RemainingBalance
}

// LoanPercent is how much of the principal is repaid, in [0, 100].
func LoanPercent(l models.Loan) int {
	return money.Percent(LoanPaid(l).Int64(), l.Principal.Int64())
}

// SavingProgress is a saving with its derived progress.
type SavingProgress struct {
	models.Saving
	Percent int    `json:"percent_complete"`
	Display string `json:"display_current"`
}

// LoanProgress is a loan with its derived repayment figures.
type LoanProgress struct {
	models.Loan
	Paid    money.Amount `json:"paid_amount"`
	Percent int          `json:"percent_paid"`
}

// Savings decorates each saving with its progress.
func Savings(savings []models.Saving) []SavingProgress {
	out := make([]SavingProgress, 0, len(savings))
	for _, s := range savings {
		out = append(out, SavingProgress{
			Saving:  s,
			Percent: SavingPercent(s),
			Display: money.FormatIDR(s.CurrentAmount.Int64()),
		})
	}
	return out
}

// Loans decorates each loan with its repayment figures.
func Loans(loans []models.Loan) []LoanProgress {
	out := make([]LoanProgress, 0, len(loans))
	for _, l := range loans {
		out = append(out, LoanProgress{Loan: l, Paid: LoanPaid(l), Percent: LoanPercent(l)})
	}
	return out
}

// Overview is the headline summary of the asset screen.
type Overview struct {
	TotalBalance   money.Amount     `json:"total_balance"`
	TotalSaved     money.Amount     `json:"total_saved"`
	TotalRemaining money.Amount     `json:"total_remaining"`
	Display        OverviewDisplay  `json:"display"`
	Savings        []SavingProgress `json:"savings"`
	Loans          []LoanProgress   `json:"loans"`
}

// OverviewDisplay holds the currency-formatted totals.
type OverviewDisplay struct {
	TotalBalance   string `json:"total_balance"`
	TotalSaved     string `json:"total_saved"`
	TotalRemaining string `json:"total_remaining"`
}

// NewOverview computes every headline figure from one snapshot.
func NewOverview(assets []models.Asset, savings []models.Saving, loans []models.Loan) Overview {
	o := Overview{
		TotalBalance:   TotalBalance(assets),
		TotalSaved:     TotalSaved(savings),
		TotalRemaining: TotalRemaining(loans),
		Savings:        Savings(savings),
		Loans:          Loans(loans),
	}
	o.Display = OverviewDisplay{
		TotalBalance:   money.FormatIDR(o.TotalBalance.Int64()),
		TotalSaved:     money.FormatIDR(o.TotalSaved.Int64()),
		TotalRemaining: money.FormatIDR(o.TotalRemaining.Int64()),
	}
	return o
}
