// Package views computes the aggregation screens (daily, monthly, category
// breakdown, budgeting) from snapshot data.
package views

import (
	"fmt"
	"time"

	"kaskita/internal/ledger"
	"kaskita/internal/models"
	"kaskita/internal/money"
)

var shortMonths = [12]string{"Jan", "Feb", "Mar", "Apr", "Mei", "Jun", "Jul", "Agu", "Sep", "Okt", "Nov", "Des"}

// undatedLabel groups records whose date cannot be read.
const undatedLabel = "Tanpa tanggal"

// DayLabel renders t the way day headers are shown, e.g. "05 Okt 2025".
func DayLabel(t time.Time) string {
	return fmt.Sprintf("%02d %s %d", t.Day(), shortMonths[t.Month()-1], t.Year())
}

// DailyItem is a transaction with its signed display amount.
type DailyItem struct {
	models.Transaction
	SignedAmount money.Amount `json:"signed_amount"`
	Display      string       `json:"display_amount"`
}

// DayGroup holds the transactions of one calendar day.
type DayGroup struct {
	Date    string       `json:"date"`
	Label   string       `json:"label"`
	Items   []DailyItem  `json:"items"`
	Income  money.Amount `json:"income"`
	Expense money.Amount `json:"expense"`
}

// DailyView is the period's transactions grouped by day with totals.
type DailyView struct {
	Groups  []DayGroup   `json:"groups"`
	Income  money.Amount `json:"income"`
	Expense money.Amount `json:"expense"`
	Net     money.Amount `json:"net"`
}

// Daily groups txs by calendar day in loc. Groups keep the order in which
// their first transaction appears, and items keep their input order.
func Daily(txs []models.Transaction, loc *time.Location) DailyView {
	view := DailyView{Groups: []DayGroup{}}
	index := map[string]int{}

	for _, tx := range txs {
		key, label := undatedLabel, undatedLabel
		if at, err := ledger.ParseRecordTime(tx.Date, loc); err == nil {
			local := at.In(loc)
			key = local.Format("2006-01-02")
			label = DayLabel(local)
		}

		i, ok := index[key]
		if !ok {
			i = len(view.Groups)
			index[key] = i
			view.Groups = append(view.Groups, DayGroup{Date: key, Label: label})
		}

		signed := ledger.DisplayAmount(tx.Type, tx.Amount)
		g := &view.Groups[i]
		g.Items = append(g.Items, DailyItem{
			Transaction:  tx,
			SignedAmount: signed,
			Display:      signedIDR(signed, tx.Type),
		})

		switch tx.Type {
		case models.TransactionTypeIncome:
			g.Income += tx.Amount
			view.Income += tx.Amount
		case models.TransactionTypeExpenses:
			g.Expense += tx.Amount
			view.Expense += tx.Amount
		}
	}

	view.Net = view.Income - view.Expense
	return view
}

func signedIDR(signed money.Amount, t models.TransactionType) string {
	if t == models.TransactionTypeIncome {
		return "+" + money.FormatIDR(signed.Int64())
	}
	return money.FormatIDR(signed.Int64())
}
