package services

import (
	"context"
	"fmt"

	apperrors "kaskita/internal/errors"
	"kaskita/internal/models"
	"kaskita/internal/period"
	"kaskita/internal/snapshot"
	"kaskita/internal/views"
)

type statisticService struct {
	l      *Ledger
	period PeriodServicer
}

// NewStatisticService creates a new StatisticServicer.
func NewStatisticService(l *Ledger, periods PeriodServicer) StatisticServicer {
	return &statisticService{l: l, period: periods}
}

// Monthly returns the per-month income and expense of year with their totals.
func (s *statisticService) Monthly(ctx context.Context, year int, refresh bool) (*views.MonthlyView, error) {
	if year < period.MinYear || year > period.MaxYear {
		return nil, apperrors.ErrInvalidPeriod
	}
	yearParam := fmt.Sprintf("%04d", year)
	rows, err := fetch(ctx, s.l, snapshot.MonthlyKey(yearParam), snapshot.ScopeStatistics, refresh, apperrors.ErrFetchMonthlySummary,
		func(ctx context.Context) ([]models.MonthlySummary, error) {
			return s.l.backend.MonthlySummary(ctx, yearParam)
		})
	if err != nil {
		return nil, err
	}
	v := views.Monthly(year, rows)
	return &v, nil
}

func (s *statisticService) Breakdown(ctx context.Context, t models.CategoryType, mode period.ChartMode, refresh bool) (*views.BreakdownView, error) {
	if t != models.CategoryTypeIncome && t != models.CategoryTypeExpenses {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "type must be INCOME or EXPENSES")
	}
	if mode != period.ChartMonthly && mode != period.ChartYearly {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "mode must be MONTHLY or YEARLY")
	}
	p, err := s.period.Current(ctx)
	if err != nil {
		return nil, err
	}

	totals, err := fetchPeriod(ctx, s.l, snapshot.BreakdownKey(string(t), string(mode)), p, refresh, apperrors.ErrFetchStatistics,
		func(ctx context.Context, p period.Period) ([]models.CategoryTotal, error) {
			return s.l.backend.CategoryTotals(ctx, period.Filter{Mode: mode, Period: p}, t)
		})
	if err != nil {
		return nil, err
	}
	v := views.Breakdown(t, totals)
	return &v, nil
}

func (s *statisticService) Budgeting(ctx context.Context, refresh bool) (*views.BudgetingView, error) {
	p, err := s.period.Current(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := fetchPeriod(ctx, s.l, snapshot.KeyBudgeting, p, refresh, apperrors.ErrFetchBudgeting, s.l.backend.BudgetSpent)
	if err != nil {
		return nil, err
	}
	v := views.Budgeting(p, rows)
	return &v, nil
}
