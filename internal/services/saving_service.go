package services

import (
	"context"

	apperrors "kaskita/internal/errors"
	"kaskita/internal/models"
	"kaskita/internal/projection"
	"kaskita/internal/snapshot"
	"kaskita/internal/validator"
)

type savingService struct {
	l *Ledger
}

// NewSavingService creates a new SavingServicer.
func NewSavingService(l *Ledger) SavingServicer {
	return &savingService{l: l}
}

func loadSavings(ctx context.Context, l *Ledger, refresh bool) ([]models.Saving, error) {
	return fetch(ctx, l, snapshot.KeySavings, snapshot.ScopeGlobal, refresh, apperrors.ErrFetchSavings, l.backend.ListSavings)
}

func (s *savingService) ListSavings(ctx context.Context, refresh bool) ([]projection.SavingProgress, error) {
	savings, err := loadSavings(ctx, s.l, refresh)
	if err != nil {
		return nil, err
	}
	return projection.Savings(savings), nil
}

func (s *savingService) CreateSaving(ctx context.Context, in models.SavingInput) (*projection.SavingProgress, error) {
	if err := validateSaving(in); err != nil {
		return nil, err
	}
	saving, err := s.l.backend.CreateSaving(ctx, in)
	if err != nil {
		return nil, s.l.backendError(apperrors.ErrSaveSaving, err)
	}
	s.l.store.Invalidate(ctx, snapshot.KeySavings)
	return savingProgress(*saving), nil
}

func (s *savingService) UpdateSaving(ctx context.Context, id models.ID, in models.SavingInput) (*projection.SavingProgress, error) {
	if id.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrMissingField, "id is required")
	}
	if err := validateSaving(in); err != nil {
		return nil, err
	}
	in.ID = id
	saving, err := s.l.backend.UpdateSaving(ctx, id, in)
	if err != nil {
		return nil, s.l.backendError(apperrors.ErrSaveSaving, err)
	}
	s.l.store.Invalidate(ctx, snapshot.KeySavings)
	return savingProgress(*saving), nil
}

// DeleteSaving surfaces backend failures; the cached list is untouched then.
func (s *savingService) DeleteSaving(ctx context.Context, id models.ID) error {
	if err := s.l.backend.DeleteSaving(ctx, id); err != nil {
		return s.l.backendError(apperrors.ErrDeleteSaving, err)
	}
	s.l.store.Invalidate(ctx, snapshot.KeySavings)
	return nil
}

func savingProgress(saving models.Saving) *projection.SavingProgress {
	p := projection.Savings([]models.Saving{saving})[0]
	return &p
}

func validateSaving(in models.SavingInput) error {
	if err := validator.Struct(in); err != nil {
		return apperrors.WithMessage(apperrors.ErrMissingField, err.Error())
	}
	if in.TargetAmount < 0 || in.CurrentAmount < 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidAmount, "Nominal tidak boleh negatif")
	}
	return nil
}
