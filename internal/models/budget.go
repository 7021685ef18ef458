package models

import "kaskita/internal/money"

// MonthlyBudget is a budget record of a category. A global record is the
// recurring base budget and ignores Month and Year; any other record pins a
// budget to exactly one (Month, Year).
type MonthlyBudget struct {
	ID                    ID           `json:"id"`
	TransactionCategoryID ID           `json:"transaction_category_id"`
	Budget                money.Amount `json:"budget"`
	Month                 FlexInt      `json:"month"`
	Year                  FlexInt      `json:"year"`
	IsGlobal              bool         `json:"is_global"`
}

// BudgetPayload is the body of POST/PUT /api/transaction-category-budgets.
type BudgetPayload struct {
	TransactionCategoryID ID     `json:"transaction_category_id"`
	Budget                string `json:"budget"`
	IsGlobal              bool   `json:"is_global"`
	Month                 *int   `json:"month,omitempty"`
	Year                  *int   `json:"year,omitempty"`
}
