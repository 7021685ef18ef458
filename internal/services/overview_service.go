package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"kaskita/internal/models"
	"kaskita/internal/projection"
)

type overviewService struct {
	l *Ledger
}

// NewOverviewService creates a new OverviewServicer.
func NewOverviewService(l *Ledger) OverviewServicer {
	return &overviewService{l: l}
}

// Overview loads assets, savings and loans concurrently and folds them into
// the headline balances. Any failed load fails the whole overview.
func (s *overviewService) Overview(ctx context.Context, refresh bool) (*projection.Overview, error) {
	var (
		assets  []models.Asset
		savings []models.Saving
		loans   []models.Loan
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		assets, err = loadAssets(gctx, s.l, refresh)
		return err
	})
	g.Go(func() error {
		var err error
		savings, err = loadSavings(gctx, s.l, refresh)
		return err
	})
	g.Go(func() error {
		var err error
		loans, err = loadLoans(gctx, s.l, refresh)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	o := projection.NewOverview(assets, savings, loans)
	return &o, nil
}
