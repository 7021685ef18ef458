package client

import (
	"context"
	"net/http"
	"net/url"

	"kaskita/internal/models"
	"kaskita/internal/period"
)

// GetSettings fetches the user settings.
func (cl *Client) GetSettings(ctx context.Context) (*models.UserSettings, error) {
	var s models.UserSettings
	if err := cl.do(ctx, call{method: http.MethodGet, path: "/api/user/settings"}, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// UpdateSettings saves the user settings and returns the stored copy.
func (cl *Client) UpdateSettings(ctx context.Context, in models.SettingsInput) (*models.UserSettings, error) {
	var s models.UserSettings
	if err := cl.do(ctx, call{method: http.MethodPut, path: "/api/user/settings", body: jsonBody(in)}, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// ListAssets fetches every asset of the user's group.
func (cl *Client) ListAssets(ctx context.Context) ([]models.Asset, error) {
	var out []models.Asset
	if err := cl.do(ctx, call{method: http.MethodGet, path: "/api/assets"}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateAsset creates an asset.
func (cl *Client) CreateAsset(ctx context.Context, in models.AssetInput) (*models.Asset, error) {
	var out models.Asset
	if err := cl.do(ctx, call{method: http.MethodPost, path: "/api/assets", body: jsonBody(in)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateAsset updates the asset with the given id.
func (cl *Client) UpdateAsset(ctx context.Context, id models.ID, in models.AssetInput) (*models.Asset, error) {
	var out models.Asset
	if err := cl.do(ctx, call{method: http.MethodPut, path: "/api/assets/" + escape(id), body: jsonBody(in)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteAsset deletes an asset. The backend refuses while transactions
// reference it.
func (cl *Client) DeleteAsset(ctx context.Context, id models.ID) error {
	return cl.do(ctx, call{method: http.MethodDelete, path: "/api/assets/" + escape(id)}, nil)
}

// ListAssetCategories fetches the asset classifications.
func (cl *Client) ListAssetCategories(ctx context.Context) ([]models.AssetCategory, error) {
	var out []models.AssetCategory
	if err := cl.do(ctx, call{method: http.MethodGet, path: "/api/asset-categories"}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListSavings fetches every saving goal.
func (cl *Client) ListSavings(ctx context.Context) ([]models.Saving, error) {
	var out []models.Saving
	if err := cl.do(ctx, call{method: http.MethodGet, path: "/api/savings"}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateSaving creates a saving goal.
func (cl *Client) CreateSaving(ctx context.Context, in models.SavingInput) (*models.Saving, error) {
	var out models.Saving
	if err := cl.do(ctx, call{method: http.MethodPost, path: "/api/savings", body: jsonBody(in)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateSaving updates a saving goal.
func (cl *Client) UpdateSaving(ctx context.Context, id models.ID, in models.SavingInput) (*models.Saving, error) {
	var out models.Saving
	if err := cl.do(ctx, call{method: http.MethodPut, path: "/api/savings/" + escape(id), body: jsonBody(in)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteSaving deletes a saving goal.
func (cl *Client) DeleteSaving(ctx context.Context, id models.ID) error {
	return cl.do(ctx, call{method: http.MethodDelete, path: "/api/savings/" + escape(id)}, nil)
}

// ListLoans fetches every loan.
func (cl *Client) ListLoans(ctx context.Context) ([]models.Loan, error) {
	var out []models.Loan
	if err := cl.do(ctx, call{method: http.MethodGet, path: "/api/loans"}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateLoan creates a loan.
func (cl *Client) CreateLoan(ctx context.Context, in models.LoanInput) (*models.Loan, error) {
	var out models.Loan
	if err := cl.do(ctx, call{method: http.MethodPost, path: "/api/loans", body: jsonBody(in)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateLoan updates a loan.
func (cl *Client) UpdateLoan(ctx context.Context, id models.ID, in models.LoanInput) (*models.Loan, error) {
	var out models.Loan
	if err := cl.do(ctx, call{method: http.MethodPut, path: "/api/loans/" + escape(id), body: jsonBody(in)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteLoan deletes a loan.
func (cl *Client) DeleteLoan(ctx context.Context, id models.ID) error {
	return cl.do(ctx, call{method: http.MethodDelete, path: "/api/loans/" + escape(id)}, nil)
}

// ListCategories fetches every transaction category.
func (cl *Client) ListCategories(ctx context.Context) ([]models.TransactionCategory, error) {
	var out []models.TransactionCategory
	if err := cl.do(ctx, call{method: http.MethodGet, path: "/api/transaction-categories"}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetCategory fetches one category with its monthly budgets.
func (cl *Client) GetCategory(ctx context.Context, id models.ID) (*models.TransactionCategory, error) {
	var out models.TransactionCategory
	if err := cl.do(ctx, call{method: http.MethodGet, path: "/api/transaction-categories/" + escape(id)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateCategory creates a transaction category.
func (cl *Client) CreateCategory(ctx context.Context, in models.CategoryInput) (*models.TransactionCategory, error) {
	var out models.TransactionCategory
	if err := cl.do(ctx, call{method: http.MethodPost, path: "/api/transaction-categories", body: jsonBody(in)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateCategory updates a transaction category.
func (cl *Client) UpdateCategory(ctx context.Context, id models.ID, in models.CategoryInput) (*models.TransactionCategory, error) {
	var out models.TransactionCategory
	if err := cl.do(ctx, call{method: http.MethodPut, path: "/api/transaction-categories/" + escape(id), body: jsonBody(in)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteCategory deletes a transaction category.
func (cl *Client) DeleteCategory(ctx context.Context, id models.ID) error {
	return cl.do(ctx, call{method: http.MethodDelete, path: "/api/transaction-categories/" + escape(id)}, nil)
}

// CategoryTotals fetches the per-category total amounts of one type for the
// filter's period. Yearly filters omit the month.
func (cl *Client) CategoryTotals(ctx context.Context, f period.Filter, t models.CategoryType) ([]models.CategoryTotal, error) {
	q := url.Values{}
	for k, v := range f.Params() {
		q.Set(k, v)
	}
	q.Set("type", string(t))

	var out []models.CategoryTotal
	if err := cl.do(ctx, call{method: http.MethodGet, path: "/api/transaction-categories/total-amount", query: q}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// BudgetSpent fetches budget and spent per category for a period.
func (cl *Client) BudgetSpent(ctx context.Context, p period.Period) ([]models.CategoryBudgetSpent, error) {
	q := url.Values{}
	q.Set("month", p.MonthParam())
	q.Set("year", p.YearParam())

	var out []models.CategoryBudgetSpent
	if err := cl.do(ctx, call{method: http.MethodGet, path: "/api/transaction-categories/budget-spent", query: q}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateBudget creates a budget record.
func (cl *Client) CreateBudget(ctx context.Context, in models.BudgetPayload) (*models.MonthlyBudget, error) {
	var out models.MonthlyBudget
	if err := cl.do(ctx, call{method: http.MethodPost, path: "/api/transaction-category-budgets", body: jsonBody(in)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateBudget updates the budget record with the given id.
func (cl *Client) UpdateBudget(ctx context.Context, id models.ID, in models.BudgetPayload) (*models.MonthlyBudget, error) {
	var out models.MonthlyBudget
	if err := cl.do(ctx, call{method: http.MethodPut, path: "/api/transaction-category-budgets/" + escape(id), body: jsonBody(in)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func escape(id models.ID) string {
	return url.PathEscape(id.String())
}
