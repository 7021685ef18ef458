package services

import (
	"context"

	"kaskita/internal/budget"
	"kaskita/internal/ledger"
	"kaskita/internal/models"
	"kaskita/internal/period"
	"kaskita/internal/projection"
	"kaskita/internal/session"
	"kaskita/internal/views"
)

// AuthServicer defines the contract for signing in and out.
type AuthServicer interface {
	Login(ctx context.Context, email, password string) (*session.Session, error)
	Register(ctx context.Context, name, email, password string) (string, error)
	Logout(ctx context.Context) error
	Profile(ctx context.Context) (*models.User, error)
	UpdateProfile(ctx context.Context, name string) (*models.User, error)
	Current() session.Session
}

// SettingsServicer defines the contract for user settings.
type SettingsServicer interface {
	GetSettings(ctx context.Context, refresh bool) (*models.UserSettings, error)
	UpdateSettings(ctx context.Context, in models.SettingsInput) (*models.UserSettings, error)
}

// PeriodServicer defines the contract for the displayed accounting period.
type PeriodServicer interface {
	Current(ctx context.Context) (period.Period, error)
	Select(ctx context.Context, p period.Period) period.Period
	Shift(ctx context.Context, months int) (period.Period, error)
	Reset(ctx context.Context) (period.Period, error)
}

// AssetServicer defines the contract for assets and their categories.
type AssetServicer interface {
	ListAssets(ctx context.Context, refresh bool) ([]models.Asset, error)
	CreateAsset(ctx context.Context, in models.AssetInput) (*models.Asset, error)
	UpdateAsset(ctx context.Context, id models.ID, in models.AssetInput) (*models.Asset, error)
	DeleteAsset(ctx context.Context, id models.ID) error
	ListAssetCategories(ctx context.Context, refresh bool) ([]models.AssetCategory, error)
}

// SavingServicer defines the contract for saving goals.
type SavingServicer interface {
	ListSavings(ctx context.Context, refresh bool) ([]projection.SavingProgress, error)
	CreateSaving(ctx context.Context, in models.SavingInput) (*projection.SavingProgress, error)
	UpdateSaving(ctx context.Context, id models.ID, in models.SavingInput) (*projection.SavingProgress, error)
	DeleteSaving(ctx context.Context, id models.ID) error
}

// LoanServicer defines the contract for loans.
type LoanServicer interface {
	ListLoans(ctx context.Context, refresh bool) ([]projection.LoanProgress, error)
	CreateLoan(ctx context.Context, in models.LoanInput) (*projection.LoanProgress, error)
	UpdateLoan(ctx context.Context, id models.ID, in models.LoanInput) (*projection.LoanProgress, error)
	DeleteLoan(ctx context.Context, id models.ID) error
}

// CategoryServicer defines the contract for transaction categories and their
// budgets.
type CategoryServicer interface {
	ListCategories(ctx context.Context, refresh bool) ([]models.TransactionCategory, error)
	GetCategory(ctx context.Context, id models.ID, refresh bool) (*models.TransactionCategory, error)
	CreateCategory(ctx context.Context, in models.CategoryInput) (*models.TransactionCategory, error)
	UpdateCategory(ctx context.Context, id models.ID, in models.CategoryInput) (*models.TransactionCategory, error)
	DeleteCategory(ctx context.Context, id models.ID) error
	SaveBudget(ctx context.Context, in budget.Input) (*models.TransactionCategory, error)
	ResolveBudget(ctx context.Context, id models.ID, p period.Period) (*budget.Resolved, error)
	YearGrid(ctx context.Context, id models.ID, year int) ([12]budget.MonthBudget, error)
}

// ImageStatus reports what happened to the attachment of a saved transaction.
type ImageStatus string

const (
	ImageNone     ImageStatus = "none"
	ImageUploaded ImageStatus = "uploaded"
	ImagePending  ImageStatus = "pending"
	ImageRemoved  ImageStatus = "removed"
	// ImageFailed means the upload failed and the image could not be queued.
	ImageFailed ImageStatus = "failed"
)

// ImageUpload is an attachment as received from the UI.
type ImageUpload struct {
	Filename string
	Data     []byte
}

// TransactionResult is the outcome of a create or edit.
type TransactionResult struct {
	Transaction models.Transaction `json:"transaction"`
	ImageStatus ImageStatus        `json:"image_status"`
	Effects     []ledger.Delta     `json:"effects"`
}

// EditRequest is a transaction edit. RemoveImage drops the current image
// without replacing it.
type EditRequest struct {
	Draft       ledger.Draft
	Image       *ImageUpload
	RemoveImage bool
}

// RetryReport summarises a pending-image retry pass.
type RetryReport struct {
	Uploaded int `json:"uploaded"`
	Failed   int `json:"failed"`
}

// TransactionServicer defines the contract for the transaction ledger.
type TransactionServicer interface {
	ListTransactions(ctx context.Context, refresh bool) ([]models.Transaction, error)
	Daily(ctx context.Context, refresh bool) (*views.DailyView, error)
	GetTransaction(ctx context.Context, id models.ID) (*models.Transaction, error)
	EditDraft(ctx context.Context, id models.ID) (*ledger.Draft, error)
	CreateTransaction(ctx context.Context, draft ledger.Draft, img *ImageUpload) (*TransactionResult, error)
	UpdateTransaction(ctx context.Context, id models.ID, req EditRequest) (*TransactionResult, error)
	DeleteTransaction(ctx context.Context, id models.ID) error
	CreateByVoice(ctx context.Context, filename, contentType string, audio []byte) (*models.Transaction, error)
	RetryPendingImages(ctx context.Context) (*RetryReport, error)
}

// StatisticServicer defines the contract for the aggregation screens.
type StatisticServicer interface {
	Monthly(ctx context.Context, year int, refresh bool) (*views.MonthlyView, error)
	Breakdown(ctx context.Context, t models.CategoryType, mode period.ChartMode, refresh bool) (*views.BreakdownView, error)
	Budgeting(ctx context.Context, refresh bool) (*views.BudgetingView, error)
}

// OverviewServicer defines the contract for the headline balances.
type OverviewServicer interface {
	Overview(ctx context.Context, refresh bool) (*projection.Overview, error)
}
