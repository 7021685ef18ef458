package budget

import (
	"fmt"

	apperrors "kaskita/internal/errors"
	"kaskita/internal/models"
	"kaskita/internal/money"
	"kaskita/internal/period"
	"kaskita/internal/validator"
)

// Input is a budget edit. A present ID makes it an update of that record;
// otherwise a new record is created.
type Input struct {
	ID         models.ID `json:"id,omitempty"`
	CategoryID models.ID `json:"transaction_category_id" binding:"required"`
	// Budget is the amount as typed, thousand separators allowed.
	Budget   string `json:"budget" binding:"required,amount_digits"`
	IsGlobal bool   `json:"is_global"`
	Month    int    `json:"month,omitempty" binding:"omitempty,min=1,max=12"`
	Year     int    `json:"year,omitempty" binding:"omitempty,min=1900,max=9999"`
}

// IsUpdate reports whether the input targets an existing record.
func (in Input) IsUpdate() bool { return !in.ID.IsZero() }

// Payload validates the input and returns the wire body. Month and year are
// required for a non-global record and dropped for a global one.
func (in Input) Payload() (models.BudgetPayload, error) {
	if err := validator.Struct(in); err != nil {
		return models.BudgetPayload{}, apperrors.WithMessage(apperrors.ErrMissingField, err.Error())
	}
	amount, err := money.Parse(in.Budget)
	if err != nil {
		return models.BudgetPayload{}, apperrors.Wrap(apperrors.ErrInvalidAmount, err)
	}

	payload := models.BudgetPayload{
		TransactionCategoryID: in.CategoryID,
		Budget:                money.Amount(amount).String(),
		IsGlobal:              in.IsGlobal,
	}
	if in.IsGlobal {
		return payload, nil
	}

	if _, err := period.New(in.Month, in.Year); err != nil {
		return models.BudgetPayload{}, apperrors.WithMessage(apperrors.ErrMissingField,
			fmt.Sprintf("month and year are required for a monthly budget: %v", err))
	}
	month, year := in.Month, in.Year
	payload.Month = &month
	payload.Year = &year
	return payload, nil
}

// Echo applies the just-saved value to a cached category so the editor shows
// it before the authoritative refetch lands.
func Echo(category models.TransactionCategory, in Input, saved models.MonthlyBudget) models.TransactionCategory {
	out := category
	out.MonthlyBudgets = append([]models.MonthlyBudget(nil), category.MonthlyBudgets...)
	if in.IsGlobal {
		out.BaseBudget = saved.Budget
	}
	for i, b := range out.MonthlyBudgets {
		sameRecord := !saved.ID.IsZero() && b.ID == saved.ID
		if sameRecord || (in.IsGlobal && b.IsGlobal) {
			out.MonthlyBudgets[i] = saved
			return out
		}
	}
	out.MonthlyBudgets = append(out.MonthlyBudgets, saved)
	return out
}
