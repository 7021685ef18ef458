package models

import "kaskita/internal/money"

// Saving is a savings goal. CurrentAmount moves with SAVING transactions and
// is maintained by the backend.
type Saving struct {
	Base
	Name          string       `json:"name"`
	TargetAmount  money.Amount `json:"target_amount"`
	CurrentAmount money.Amount `json:"current_amount"`
	DueDate       string       `json:"due_date,omitempty"`
}

// SavingInput is the create/update payload for a saving.
type SavingInput struct {
	ID            ID           `json:"id,omitempty"`
	Name          string       `json:"name" binding:"required,min=1,max=100"`
	TargetAmount  money.Amount `json:"target_amount"`
	CurrentAmount money.Amount `json:"current_amount"`
	DueDate       string       `json:"due_date,omitempty"`
}
