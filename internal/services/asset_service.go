package services

import (
	"context"

	apperrors "kaskita/internal/errors"
	"kaskita/internal/models"
	"kaskita/internal/snapshot"
	"kaskita/internal/validator"
)

type assetService struct {
	l *Ledger
}

// NewAssetService creates a new AssetServicer.
func NewAssetService(l *Ledger) AssetServicer {
	return &assetService{l: l}
}

func loadAssets(ctx context.Context, l *Ledger, refresh bool) ([]models.Asset, error) {
	return fetch(ctx, l, snapshot.KeyAssets, snapshot.ScopeGlobal, refresh, apperrors.ErrFetchAssets, l.backend.ListAssets)
}

func (s *assetService) ListAssets(ctx context.Context, refresh bool) ([]models.Asset, error) {
	return loadAssets(ctx, s.l, refresh)
}

func (s *assetService) CreateAsset(ctx context.Context, in models.AssetInput) (*models.Asset, error) {
	if err := validateAsset(in); err != nil {
		return nil, err
	}
	asset, err := s.l.backend.CreateAsset(ctx, in)
	if err != nil {
		return nil, s.l.backendError(apperrors.ErrSaveAsset, err)
	}
	s.l.store.Invalidate(ctx, snapshot.KeyAssets)
	return asset, nil
}

func (s *assetService) UpdateAsset(ctx context.Context, id models.ID, in models.AssetInput) (*models.Asset, error) {
	if id.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrMissingField, "id is required")
	}
	if err := validateAsset(in); err != nil {
		return nil, err
	}
	in.ID = id
	asset, err := s.l.backend.UpdateAsset(ctx, id, in)
	if err != nil {
		return nil, s.l.backendError(apperrors.ErrSaveAsset, err)
	}
	s.l.store.Invalidate(ctx, snapshot.KeyAssets)
	return asset, nil
}

func (s *assetService) DeleteAsset(ctx context.Context, id models.ID) error {
	if err := s.l.backend.DeleteAsset(ctx, id); err != nil {
		return s.l.backendError(apperrors.ErrDeleteAsset, err)
	}
	s.l.store.Invalidate(ctx, snapshot.KeyAssets)
	return nil
}

func (s *assetService) ListAssetCategories(ctx context.Context, refresh bool) ([]models.AssetCategory, error) {
	return fetch(ctx, s.l, snapshot.KeyAssetCategories, snapshot.ScopeGlobal, refresh, apperrors.ErrFetchAssets, s.l.backend.ListAssetCategories)
}

func validateAsset(in models.AssetInput) error {
	if err := validator.Struct(in); err != nil {
		return apperrors.WithMessage(apperrors.ErrMissingField, err.Error())
	}
	return nil
}
