package services

import (
	"context"

	apperrors "kaskita/internal/errors"
	"kaskita/internal/models"
	"kaskita/internal/projection"
	"kaskita/internal/snapshot"
	"kaskita/internal/validator"
)

type loanService struct {
	l *Ledger
}

// NewLoanService creates a new LoanServicer.
func NewLoanService(l *Ledger) LoanServicer {
	return &loanService{l: l}
}

func loadLoans(ctx context.Context, l *Ledger, refresh bool) ([]models.Loan, error) {
	return fetch(ctx, l, snapshot.KeyLoans, snapshot.ScopeGlobal, refresh, apperrors.ErrFetchLoans, l.backend.ListLoans)
}

func (s *loanService) ListLoans(ctx context.Context, refresh bool) ([]projection.LoanProgress, error) {
	loans, err := loadLoans(ctx, s.l, refresh)
	if err != nil {
		return nil, err
	}
	return projection.Loans(loans), nil
}

func (s *loanService) CreateLoan(ctx context.Context, in models.LoanInput) (*projection.LoanProgress, error) {
	if err := validateLoan(in); err != nil {
		return nil, err
	}
	loan, err := s.l.backend.CreateLoan(ctx, in)
	if err != nil {
		return nil, s.l.backendError(apperrors.ErrSaveLoan, err)
	}
	s.l.store.Invalidate(ctx, snapshot.KeyLoans)
	return loanProgress(*loan), nil
}

func (s *loanService) UpdateLoan(ctx context.Context, id models.ID, in models.LoanInput) (*projection.LoanProgress, error) {
	if id.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrMissingField, "id is required")
	}
	if err := validateLoan(in); err != nil {
		return nil, err
	}
	in.ID = id
	loan, err := s.l.backend.UpdateLoan(ctx, id, in)
	if err != nil {
		return nil, s.l.backendError(apperrors.ErrSaveLoan, err)
	}
	s.l.store.Invalidate(ctx, snapshot.KeyLoans)
	return loanProgress(*loan), nil
}

func (s *loanService) DeleteLoan(ctx context.Context, id models.ID) error {
	if err := s.l.backend.DeleteLoan(ctx, id); err != nil {
		return s.l.backendError(apperrors.ErrDeleteLoan, err)
	}
	s.l.store.Invalidate(ctx, snapshot.KeyLoans)
	return nil
}

func loanProgress(loan models.Loan) *projection.LoanProgress {
	p := projection.Loans([]models.Loan{loan})[0]
	return &p
}

func validateLoan(in models.LoanInput) error {
	if err := validator.Struct(in); err != nil {
		return apperrors.WithMessage(apperrors.ErrMissingField, err.Error())
	}
	if in.Principal < 0 || in.RemainingBalance < 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidAmount, "Nominal tidak boleh negatif")
	}
	return nil
}
