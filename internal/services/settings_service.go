package services

import (
	"context"

	apperrors "kaskita/internal/errors"
	"kaskita/internal/models"
	"kaskita/internal/period"
	"kaskita/internal/snapshot"
	"kaskita/internal/validator"
)

type settingsService struct {
	l *Ledger
}

// NewSettingsService creates a new SettingsServicer.
func NewSettingsService(l *Ledger) SettingsServicer {
	return &settingsService{l: l}
}

func (s *settingsService) GetSettings(ctx context.Context, refresh bool) (*models.UserSettings, error) {
	settings, err := fetch(ctx, s.l, snapshot.KeySettings, snapshot.ScopeGlobal, refresh, apperrors.ErrFetchSettings,
		func(ctx context.Context) (models.UserSettings, error) {
			v, err := s.l.backend.GetSettings(ctx)
			if err != nil {
				return models.UserSettings{}, err
			}
			return *v, nil
		})
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// UpdateSettings saves in. A changed closing date re-resolves the displayed
// period against today.
func (s *settingsService) UpdateSettings(ctx context.Context, in models.SettingsInput) (*models.UserSettings, error) {
	if err := validator.Struct(in); err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
	}

	before := s.l.opts.DefaultClosingDate
	if cur, ok := snapshot.Load[models.UserSettings](ctx, s.l.store, snapshot.KeySettings, snapshot.ScopeGlobal); ok {
		before = cur.EffectiveClosingDate()
	}

	saved, err := s.l.backend.UpdateSettings(ctx, in)
	if err != nil {
		return nil, s.l.backendError(apperrors.ErrSaveSettings, err)
	}
	s.l.store.Put(ctx, snapshot.KeySettings, snapshot.ScopeGlobal, *saved)

	if after := saved.EffectiveClosingDate(); after != before {
		p := period.Resolve(s.l.opts.Now().In(s.l.opts.Location), after)
		s.l.store.SwitchPeriod(ctx, p)
		s.l.log.Infow("closing date changed", "from", before, "to", after, "period", p.String())
	}
	return saved, nil
}

type periodService struct {
	l        *Ledger
	settings SettingsServicer
}

// NewPeriodService creates a new PeriodServicer. The closing date comes from
// settings, falling back to the configured default.
func NewPeriodService(l *Ledger, settings SettingsServicer) PeriodServicer {
	return &periodService{l: l, settings: settings}
}

func (s *periodService) Current(ctx context.Context) (period.Period, error) {
	if p := s.l.store.Period(); !p.IsZero() {
		return p, nil
	}
	return s.Reset(ctx)
}

func (s *periodService) Select(ctx context.Context, p period.Period) period.Period {
	if s.l.store.SwitchPeriod(ctx, p) {
		s.l.log.Debugw("period selected", "period", p.String())
	}
	return p
}

func (s *periodService) Shift(ctx context.Context, months int) (period.Period, error) {
	p, err := s.Current(ctx)
	if err != nil {
		return period.Period{}, err
	}
	for ; months > 0; months-- {
		p = p.Next()
	}
	for ; months < 0; months++ {
		p = p.Prev()
	}
	if p.Year < period.MinYear || p.Year > period.MaxYear {
		return period.Period{}, apperrors.ErrInvalidPeriod
	}
	return s.Select(ctx, p), nil
}

// Reset selects the period containing today.
func (s *periodService) Reset(ctx context.Context) (period.Period, error) {
	closing := s.l.opts.DefaultClosingDate
	settings, err := s.settings.GetSettings(ctx, false)
	switch {
	case err == nil:
		closing = settings.EffectiveClosingDate()
	case apperrors.CodeOf(err) == apperrors.ErrUnauthenticated.Code,
		apperrors.CodeOf(err) == apperrors.ErrSessionRefreshFailed.Code:
		return period.Period{}, err
	default:
		s.l.log.Warnw("settings unavailable, using default closing date", "closing_date", closing, "error", err)
	}

	p := period.Resolve(s.l.opts.Now().In(s.l.opts.Location), closing)
	return s.Select(ctx, p), nil
}
