package services

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"kaskita/internal/cache"
	"kaskita/internal/config"
	apperrors "kaskita/internal/errors"
	"kaskita/internal/ledger"
	"kaskita/internal/logger"
	"kaskita/internal/models"
	"kaskita/internal/period"
	"kaskita/internal/snapshot"
)

// Backend is the remote ledger service. *client.Client implements it.
type Backend interface {
	Login(ctx context.Context, email, password string) (*models.TokenResponse, error)
	Register(ctx context.Context, name, email, password string) (string, error)
	Logout(ctx context.Context) error
	Profile(ctx context.Context) (*models.User, error)
	UpdateProfile(ctx context.Context, name string) error

	GetSettings(ctx context.Context) (*models.UserSettings, error)
	UpdateSettings(ctx context.Context, in models.SettingsInput) (*models.UserSettings, error)

	ListAssets(ctx context.Context) ([]models.Asset, error)
	CreateAsset(ctx context.Context, in models.AssetInput) (*models.Asset, error)
	UpdateAsset(ctx context.Context, id models.ID, in models.AssetInput) (*models.Asset, error)
	DeleteAsset(ctx context.Context, id models.ID) error
	ListAssetCategories(ctx context.Context) ([]models.AssetCategory, error)

	ListSavings(ctx context.Context) ([]models.Saving, error)
	CreateSaving(ctx context.Context, in models.SavingInput) (*models.Saving, error)
	UpdateSaving(ctx context.Context, id models.ID, in models.SavingInput) (*models.Saving, error)
	DeleteSaving(ctx context.Context, id models.ID) error

	ListLoans(ctx context.Context) ([]models.Loan, error)
	CreateLoan(ctx context.Context, in models.LoanInput) (*models.Loan, error)
	UpdateLoan(ctx context.Context, id models.ID, in models.LoanInput) (*models.Loan, error)
	DeleteLoan(ctx context.Context, id models.ID) error

	ListCategories(ctx context.Context) ([]models.TransactionCategory, error)
	GetCategory(ctx context.Context, id models.ID) (*models.TransactionCategory, error)
	CreateCategory(ctx context.Context, in models.CategoryInput) (*models.TransactionCategory, error)
	UpdateCategory(ctx context.Context, id models.ID, in models.CategoryInput) (*models.TransactionCategory, error)
	DeleteCategory(ctx context.Context, id models.ID) error
	CategoryTotals(ctx context.Context, f period.Filter, t models.CategoryType) ([]models.CategoryTotal, error)
	BudgetSpent(ctx context.Context, p period.Period) ([]models.CategoryBudgetSpent, error)
	CreateBudget(ctx context.Context, in models.BudgetPayload) (*models.MonthlyBudget, error)
	UpdateBudget(ctx context.Context, id models.ID, in models.BudgetPayload) (*models.MonthlyBudget, error)

	ListTransactions(ctx context.Context, p period.Period) ([]models.Transaction, error)
	CreateTransaction(ctx context.Context, form ledger.Form) (*models.Transaction, error)
	UpdateTransaction(ctx context.Context, id models.ID, form ledger.Form) (*models.Transaction, error)
	DeleteTransaction(ctx context.Context, id models.ID) error
	MonthlySummary(ctx context.Context, year string) ([]models.MonthlySummary, error)
	CreateByVoice(ctx context.Context, filename, contentType string, audio []byte) (*models.Transaction, error)

	UploadImage(ctx context.Context, table string, tableID models.ID, filename string, data []byte) (*models.Image, error)
	DeleteImage(ctx context.Context, path string) error
}

// PendingImageQueue keeps attachments whose upload failed after the
// transaction was saved. *cache.Repository implements it.
type PendingImageQueue interface {
	AddPendingImage(ctx context.Context, transactionID, table, filename string, data []byte) (*cache.PendingImage, error)
	PendingImages(ctx context.Context) ([]cache.PendingImage, error)
	MarkPendingImageFailed(ctx context.Context, id string, cause error) error
	DeletePendingImage(ctx context.Context, id string) error
	DeletePendingImagesFor(ctx context.Context, transactionID string) error
}

// Options are the client-side settings the services read.
type Options struct {
	Location           *time.Location
	DefaultClosingDate int
	ImageMaxDimension  int
	ImageJPEGQuality   int
	ImageSourcePrefix  string
	ImagePolicy        config.ImageFailurePolicy
	Now                func() time.Time
}

// OptionsFromConfig maps the daemon configuration onto service options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Location:           cfg.Location,
		DefaultClosingDate: cfg.DefaultClosingDate,
		ImageMaxDimension:  cfg.ImageMaxDimension,
		ImageJPEGQuality:   cfg.ImageJPEGQuality,
		ImageSourcePrefix:  cfg.ImageSourcePrefix,
		ImagePolicy:        cfg.ImageFailurePolicy,
	}
}

func (o Options) withDefaults() Options {
	if o.Location == nil {
		o.Location = time.UTC
	}
	if o.DefaultClosingDate <= 0 {
		o.DefaultClosingDate = models.DefaultClosingDate
	}
	if o.ImageMaxDimension <= 0 {
		o.ImageMaxDimension = 1600
	}
	if o.ImageJPEGQuality <= 0 {
		o.ImageJPEGQuality = 80
	}
	if o.ImagePolicy == "" {
		o.ImagePolicy = config.ImagePolicyKeepPending
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Ledger is what every service shares: the remote backend, the owned
// snapshot and the generation tracker guarding it.
type Ledger struct {
	backend Backend
	store   *snapshot.Store
	tracker *snapshot.Tracker
	opts    Options
	log     *zap.SugaredLogger
}

// NewLedger wires the shared service dependencies.
func NewLedger(backend Backend, store *snapshot.Store, tracker *snapshot.Tracker, opts Options) *Ledger {
	return &Ledger{
		backend: backend,
		store:   store,
		tracker: tracker,
		opts:    opts.withDefaults(),
		log:     logger.Named("ledger"),
	}
}

// backendError maps a failed backend call onto the operation's error.
// Authentication errors pass through unchanged.
func (l *Ledger) backendError(op *apperrors.AppError, err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	l.log.Errorw("backend request failed", "op", op.Code, "error", err)
	return apperrors.Wrap(op, err)
}

func isAuthError(err error) bool {
	return errors.Is(err, apperrors.ErrUnauthenticated) || errors.Is(err, apperrors.ErrSessionRefreshFailed)
}

// invalidateDerived drops every slot whose figures the backend recomputes
// after a transaction mutation.
func (l *Ledger) invalidateDerived(ctx context.Context) {
	l.store.Invalidate(ctx, snapshot.KeyAssets, snapshot.KeySavings, snapshot.KeyLoans, snapshot.KeyBudgeting)
	l.store.InvalidateScope(ctx, snapshot.ScopeStatistics)
	l.invalidateBreakdowns(ctx)
}

func (l *Ledger) invalidateBreakdowns(ctx context.Context) {
	var keys []string
	for _, t := range []models.CategoryType{models.CategoryTypeIncome, models.CategoryTypeExpenses} {
		for _, mode := range []period.ChartMode{period.ChartMonthly, period.ChartYearly} {
			keys = append(keys, snapshot.BreakdownKey(string(t), string(mode)))
		}
	}
	l.store.Invalidate(ctx, keys...)
}

// fetch returns the slot under key, loading it from the backend when it is
// missing or refresh is set. The load runs under a generation token, so a
// superseded load is discarded with ErrStaleResponse. Authentication errors
// win over staleness since a forced logout cancels every load.
func fetch[T any](ctx context.Context, l *Ledger, key string, scope snapshot.Scope, refresh bool, op *apperrors.AppError, load func(context.Context) (T, error)) (T, error) {
	var zero T
	if !refresh {
		if v, ok := snapshot.Load[T](ctx, l.store, key, scope); ok {
			return v, nil
		}
	}

	fctx, tok := l.tracker.Begin(ctx, key)
	v, err := load(fctx)
	current := l.tracker.Commit(key, tok)
	if isAuthError(err) {
		return zero, err
	}
	if !current {
		l.log.Debugw("discarding stale response", "key", key)
		return zero, apperrors.ErrStaleResponse
	}
	if err != nil {
		return zero, l.backendError(op, err)
	}
	l.store.Put(ctx, key, scope, v)
	return v, nil
}

// fetchPeriod is fetch for period-scoped slots. A response for a period
// that is no longer displayed is stale even if no newer fetch started.
func fetchPeriod[T any](ctx context.Context, l *Ledger, key string, p period.Period, refresh bool, op *apperrors.AppError, load func(context.Context, period.Period) (T, error)) (T, error) {
	var zero T
	if !refresh && l.store.Period().Equal(p) {
		if v, ok := snapshot.Load[T](ctx, l.store, key, snapshot.ScopePeriod); ok {
			return v, nil
		}
	}

	fctx, tok := l.tracker.Begin(ctx, key)
	v, err := load(fctx, p)
	current := l.tracker.Commit(key, tok)
	if isAuthError(err) {
		return zero, err
	}
	if !current || !l.store.Period().Equal(p) {
		l.log.Debugw("discarding stale response", "key", key, "period", p.String())
		return zero, apperrors.ErrStaleResponse
	}
	if err != nil {
		return zero, l.backendError(op, err)
	}
	if !l.store.PutForPeriod(ctx, key, p, v) {
		l.log.Debugw("discarding stale response", "key", key, "period", p.String())
		return zero, apperrors.ErrStaleResponse
	}
	return v, nil
}
