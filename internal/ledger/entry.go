// Package ledger models transactions as a tagged union. Each transaction type
// is its own variant carrying only the fields that type uses, so a category
// on a transfer or a reference on an expense cannot be expressed.
package ledger

import (
	"time"

	"kaskita/internal/models"
	"kaskita/internal/money"
)

// Entry is one ledger entry. The concrete type is one of Income, Expense,
// Transfer, SavingMovement or LoanPayment.
type Entry interface {
	Type() models.TransactionType
	Core() Common
	// Effects lists the balance changes the backend applies for this entry.
	Effects() []Delta

	variantFields() []Field
}

// Common holds the fields shared by every variant.
type Common struct {
	ID          models.ID    `json:"id,omitempty"`
	Date        time.Time    `json:"date"`
	Amount      money.Amount `json:"amount"`
	AssetID     models.ID    `json:"asset_id"`
	Note        string       `json:"note,omitempty"`
	Description string       `json:"description,omitempty"`
}

// Core returns the shared fields.
func (c Common) Core() Common { return c }

// Income adds money to an asset under an INCOME category.
type Income struct {
	Common
	CategoryID models.ID `json:"category_id"`
}

// Expense takes money from an asset under an EXPENSES category.
type Expense struct {
	Common
	CategoryID models.ID `json:"category_id"`
}

// Transfer moves money between two different assets. AdditionalCost is
// charged to the source asset on top of Amount.
type Transfer struct {
	Common
	ToAssetID      models.ID    `json:"transfer_asset_id"`
	AdditionalCost money.Amount `json:"additional_cost"`
}

// SavingMovement moves money between an asset and a saving goal.
// IN fills the saving from the asset; OUT withdraws it back.
type SavingMovement struct {
	Common
	SavingID  models.ID            `json:"reference_id"`
	Direction models.ReferenceType `json:"reference_type"`
}

// LoanPayment pays a loan down from an asset.
type LoanPayment struct {
	Common
	LoanID models.ID `json:"reference_id"`
}

func (Income) Type() models.TransactionType         { return models.TransactionTypeIncome }
func (Expense) Type() models.TransactionType        { return models.TransactionTypeExpenses }
func (Transfer) Type() models.TransactionType       { return models.TransactionTypeTransfer }
func (SavingMovement) Type() models.TransactionType { return models.TransactionTypeSaving }
func (LoanPayment) Type() models.TransactionType    { return models.TransactionTypeLoan }

// Target is the kind of balance a Delta changes.
type Target string

const (
	TargetAsset  Target = "asset"
	TargetSaving Target = "saving"
	TargetLoan   Target = "loan"
)

// Delta is a signed change to one balance.
type Delta struct {
	Target Target       `json:"target"`
	ID     models.ID    `json:"id"`
	Amount money.Amount `json:"amount"`
}

func (e Income) Effects() []Delta {
	return []Delta{{Target: TargetAsset, ID: e.AssetID, Amount: e.Amount}}
}

func (e Expense) Effects() []Delta {
	return []Delta{{Target: TargetAsset, ID: e.AssetID, Amount: -e.Amount}}
}

func (e Transfer) Effects() []Delta {
	return []Delta{
		{Target: TargetAsset, ID: e.AssetID, Amount: -(e.Amount + e.AdditionalCost)},
		{Target: TargetAsset, ID: e.ToAssetID, Amount: e.Amount},
	}
}

func (e SavingMovement) Effects() []Delta {
	sign := money.Amount(1)
	if e.Direction == models.ReferenceOut {
		sign = -1
	}
	return []Delta{
		{Target: TargetSaving, ID: e.SavingID, Amount: sign * e.Amount},
		{Target: TargetAsset, ID: e.AssetID, Amount: -sign * e.Amount},
	}
}

// Effects of a loan payment: the remaining balance and the paying asset both
// go down by the amount.
func (e LoanPayment) Effects() []Delta {
	return []Delta{
		{Target: TargetLoan, ID: e.LoanID, Amount: -e.Amount},
		{Target: TargetAsset, ID: e.AssetID, Amount: -e.Amount},
	}
}

// DisplayAmount returns the signed amount shown in lists: income is positive,
// every other type is shown as an outflow.
func DisplayAmount(t models.TransactionType, amount money.Amount) money.Amount {
	if amount < 0 {
		amount = -amount
	}
	if t == models.TransactionTypeIncome {
		return amount
	}
	return -amount
}
