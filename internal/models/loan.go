package models

import "kaskita/internal/money"

// Loan is a liability. RemainingBalance moves with LOAN transactions and is
// maintained by the backend.
type Loan struct {
	Base
	Name             string       `json:"name"`
	LenderName       string       `json:"lender_name,omitempty"`
	Principal        money.Amount `json:"principal"`
	RemainingBalance money.Amount `json:"remaining_balance"`
	InterestRate     *float64     `json:"interest_rate,omitempty"`
	DueDate          string       `json:"due_date,omitempty"`
}

// LoanInput is the create/update payload for a loan.
type LoanInput struct {
	ID               ID           `json:"id,omitempty"`
	Name             string       `json:"name" binding:"required,min=1,max=100"`
	LenderName       string       `json:"lender_name,omitempty"`
	Principal        money.Amount `json:"principal"`
	RemainingBalance money.Amount `json:"remaining_balance"`
	InterestRate     *float64     `json:"interest_rate,omitempty"`
	DueDate          string       `json:"due_date,omitempty"`
}
