package models

import "kaskita/internal/money"

// CategoryType is the transaction type a category can classify.
type CategoryType string

const (
	CategoryTypeIncome   CategoryType = "INCOME"
	CategoryTypeExpenses CategoryType = "EXPENSES"
)

// TransactionCategory classifies INCOME and EXPENSES transactions and carries
// the category's recurring budget. Type never changes after creation.
type TransactionCategory struct {
	Base
	Type           CategoryType    `json:"type"`
	Name           string          `json:"name"`
	ParentID       ID              `json:"parent_id,omitempty"`
	BaseBudget     money.Amount    `json:"base_budget"`
	MonthlyBudgets []MonthlyBudget `json:"monthly_budgets,omitempty"`
}

// CategoryInput is the create/update payload for a transaction category.
type CategoryInput struct {
	ID         ID           `json:"id,omitempty"`
	Name       string       `json:"name" binding:"required,min=1,max=100"`
	Type       CategoryType `json:"type" binding:"required,category_type"`
	BaseBudget money.Amount `json:"base_budget"`
}

// CategoryTotal is one row of the per-category total-amount aggregation.
type CategoryTotal struct {
	ID          ID           `json:"id,omitempty"`
	Name        string       `json:"name"`
	Type        CategoryType `json:"type"`
	TotalAmount money.Amount `json:"total_amount"`
}

// CategoryBudgetSpent is one row of the backend budget-spent aggregation.
type CategoryBudgetSpent struct {
	ID     ID           `json:"id"`
	Name   string       `json:"name"`
	Budget money.Amount `json:"budget"`
	Spent  money.Amount `json:"spent"`
}
