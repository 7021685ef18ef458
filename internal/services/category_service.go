package services

import (
	"context"

	"kaskita/internal/budget"
	apperrors "kaskita/internal/errors"
	"kaskita/internal/models"
	"kaskita/internal/period"
	"kaskita/internal/snapshot"
	"kaskita/internal/validator"
)

type categoryService struct {
	l *Ledger
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(l *Ledger) CategoryServicer {
	return &categoryService{l: l}
}

func (s *categoryService) ListCategories(ctx context.Context, refresh bool) ([]models.TransactionCategory, error) {
	return fetch(ctx, s.l, snapshot.KeyCategories, snapshot.ScopeGlobal, refresh, apperrors.ErrFetchCategories, s.l.backend.ListCategories)
}

func (s *categoryService) GetCategory(ctx context.Context, id models.ID, refresh bool) (*models.TransactionCategory, error) {
	if id.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrMissingField, "id is required")
	}
	category, err := fetch(ctx, s.l, snapshot.CategoryKey(id.String()), snapshot.ScopeGlobal, refresh, apperrors.ErrFetchCategories,
		func(ctx context.Context) (models.TransactionCategory, error) {
			c, err := s.l.backend.GetCategory(ctx, id)
			if err != nil {
				return models.TransactionCategory{}, err
			}
			return *c, nil
		})
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (s *categoryService) CreateCategory(ctx context.Context, in models.CategoryInput) (*models.TransactionCategory, error) {
	if err := validateCategory(in); err != nil {
		return nil, err
	}
	category, err := s.l.backend.CreateCategory(ctx, in)
	if err != nil {
		return nil, s.l.backendError(apperrors.ErrSaveCategory, err)
	}
	s.l.store.Invalidate(ctx, snapshot.KeyCategories)
	s.l.store.Put(ctx, snapshot.CategoryKey(category.ID.String()), snapshot.ScopeGlobal, *category)
	return category, nil
}

// UpdateCategory saves in. The category type is fixed at creation, so a
// different type is rejected before any request.
func (s *categoryService) UpdateCategory(ctx context.Context, id models.ID, in models.CategoryInput) (*models.TransactionCategory, error) {
	if err := validateCategory(in); err != nil {
		return nil, err
	}
	existing, err := s.GetCategory(ctx, id, false)
	if err != nil {
		return nil, err
	}
	if in.Type != existing.Type {
		return nil, apperrors.ErrTypeImmutable
	}

	in.ID = id
	category, err := s.l.backend.UpdateCategory(ctx, id, in)
	if err != nil {
		return nil, s.l.backendError(apperrors.ErrSaveCategory, err)
	}
	s.l.store.Invalidate(ctx, snapshot.KeyCategories, snapshot.KeyBudgeting)
	s.l.store.Put(ctx, snapshot.CategoryKey(id.String()), snapshot.ScopeGlobal, *category)
	return category, nil
}

func (s *categoryService) DeleteCategory(ctx context.Context, id models.ID) error {
	if err := s.l.backend.DeleteCategory(ctx, id); err != nil {
		return s.l.backendError(apperrors.ErrDeleteCategory, err)
	}
	s.l.store.Invalidate(ctx, snapshot.KeyCategories, snapshot.CategoryKey(id.String()), snapshot.KeyBudgeting)
	return nil
}

// SaveBudget creates or updates one budget record, echoes it into the cached
// category and then refetches the category from the backend. A failed
// refetch keeps the echoed copy.
func (s *categoryService) SaveBudget(ctx context.Context, in budget.Input) (*models.TransactionCategory, error) {
	payload, err := in.Payload()
	if err != nil {
		return nil, err
	}

	var saved *models.MonthlyBudget
	if in.IsUpdate() {
		saved, err = s.l.backend.UpdateBudget(ctx, in.ID, payload)
	} else {
		saved, err = s.l.backend.CreateBudget(ctx, payload)
	}
	if err != nil {
		return nil, s.l.backendError(apperrors.ErrSaveBudget, err)
	}

	key := snapshot.CategoryKey(in.CategoryID.String())
	snapshot.Update(ctx, s.l.store, key, func(c models.TransactionCategory) models.TransactionCategory {
		return budget.Echo(c, in, *saved)
	})
	s.l.store.Invalidate(ctx, snapshot.KeyBudgeting, snapshot.KeyCategories)

	category, err := s.GetCategory(ctx, in.CategoryID, true)
	if err != nil {
		s.l.log.Warnw("budget saved but category refetch failed", "category_id", in.CategoryID, "error", err)
		if echoed, ok := snapshot.Load[models.TransactionCategory](ctx, s.l.store, key, snapshot.ScopeGlobal); ok {
			return &echoed, nil
		}
		return nil, err
	}
	return category, nil
}

func (s *categoryService) ResolveBudget(ctx context.Context, id models.ID, p period.Period) (*budget.Resolved, error) {
	if p.IsZero() {
		return nil, apperrors.ErrInvalidPeriod
	}
	category, err := s.GetCategory(ctx, id, false)
	if err != nil {
		return nil, err
	}
	r := budget.ResolveDetail(*category, p)
	return &r, nil
}

func (s *categoryService) YearGrid(ctx context.Context, id models.ID, year int) ([12]budget.MonthBudget, error) {
	if year < period.MinYear || year > period.MaxYear {
		return [12]budget.MonthBudget{}, apperrors.ErrInvalidPeriod
	}
	category, err := s.GetCategory(ctx, id, false)
	if err != nil {
		return [12]budget.MonthBudget{}, err
	}
	return budget.YearGrid(*category, year), nil
}

func validateCategory(in models.CategoryInput) error {
	if err := validator.Struct(in); err != nil {
		return apperrors.WithMessage(apperrors.ErrMissingField, err.Error())
	}
	if in.BaseBudget < 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidAmount, "Nominal tidak boleh negatif")
	}
	return nil
}
