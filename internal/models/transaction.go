package models

import "kaskita/internal/money"

// TransactionType is the discriminator of a ledger entry.
type TransactionType string

const (
	TransactionTypeIncome     TransactionType = "INCOME"
	TransactionTypeExpenses   TransactionType = "EXPENSES"
	TransactionTypeTransfer   TransactionType = "TRANSFER"
	TransactionTypeSaving     TransactionType = "SAVING"
	TransactionTypeLoan       TransactionType = "LOAN"
	TransactionTypeAdjustment TransactionType = "ADJUSTMENT"
)

// ReferenceType is the direction of a saving movement.
type ReferenceType string

const (
	ReferenceIn  ReferenceType = "IN"
	ReferenceOut ReferenceType = "OUT"
)

// Transaction is the flat record the backend returns. Use the ledger package
// to turn it into a typed entry before applying any rule.
type Transaction struct {
	Base
	Type            TransactionType      `json:"type"`
	Date            string               `json:"date"`
	Amount          money.Amount         `json:"amount"`
	CategoryID      ID                   `json:"category_id,omitempty"`
	AssetID         ID                   `json:"asset_id"`
	Note            string               `json:"note,omitempty"`
	Description     string               `json:"description,omitempty"`
	TransferAssetID ID                   `json:"transfer_asset_id,omitempty"`
	AdditionalCost  money.Amount         `json:"additional_cost"`
	ReferenceID     ID                   `json:"reference_id,omitempty"`
	ReferenceType   ReferenceType        `json:"reference_type,omitempty"`
	Image           []Image              `json:"image,omitempty"`
	Category        *TransactionCategory `json:"category,omitempty"`
	RefSaving       *Saving              `json:"ref_saving,omitempty"`
	RefLoan         *Loan                `json:"ref_loan,omitempty"`
}

// Image is an attachment stored by the backend image service.
type Image struct {
	ID        ID     `json:"id"`
	TableName string `json:"table_name"`
	TableID   ID     `json:"table_id"`
	Path      string `json:"path"`
	Disk      string `json:"disk,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// MonthlySummary is one row of the yearly summary. Month is "MM-YYYY".
type MonthlySummary struct {
	Month   string       `json:"month"`
	Income  money.Amount `json:"income"`
	Expense money.Amount `json:"expense"`
}
