package inventory

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lcalzada-xor/vulnmap/internal/core/domain"
	"github.com/lcalzada-xor/vulnmap/internal/core/ports"
)

// AssetService implements ports.AssetService.
type AssetService struct {
	assets ports.AssetRepository
	audit  ports.AuditService
}

// NewAssetService creates a new asset service. audit may be nil.
func NewAssetService(assets ports.AssetRepository, audit ports.AuditService) *AssetService {
	return &AssetService{assets: assets, audit: audit}
}

var _ ports.AssetService = (*AssetService)(nil)

// Create validates a draft and persists a new asset.
func (s *AssetService) Create(ctx context.Context, draft domain.AssetDraft) (*domain.Asset, error) {
	asset, err := domain.NewAsset(draft)
	if err != nil {
		return nil, err
	}
	if err := s.assets.CreateAsset(ctx, *asset); err != nil {
		return nil, err
	}
	return asset, nil
}

// Get retrieves an asset by id.
func (s *AssetService) Get(ctx context.Context, id string) (*domain.Asset, error) {
	asset, err := s.assets.GetAsset(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("asset %s: %w", id, err)
	}
	return asset, nil
}

// Update applies a partial update; only supplied fields change.
func (s *AssetService) Update(ctx context.Context, id string, patch domain.AssetPatch) (*domain.Asset, error) {
	asset, err := s.assets.GetAsset(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("asset %s: %w", id, err)
	}
	if err := asset.Apply(patch); err != nil {
		return nil, err
	}
	if err := s.assets.UpdateAsset(ctx, *asset); err != nil {
		return nil, err
	}
	return asset, nil
}

// Delete removes an asset; its links are cascade-deleted by the store.
func (s *AssetService) Delete(ctx context.Context, id string) error {
	if err := s.assets.DeleteAsset(ctx, id); err != nil {
		return fmt.Errorf("asset %s: %w", id, err)
	}
	if s.audit != nil {
		if err := s.audit.Log(ctx, domain.ActionAssetDelete, id, ""); err != nil {
			slog.Warn("audit log failed", "action", domain.ActionAssetDelete, "error", err)
		}
	}
	return nil
}

// List returns all assets, newest first.
func (s *AssetService) List(ctx context.Context) ([]domain.Asset, error) {
	assets, err := s.assets.ListAssets(ctx)
	if err != nil {
		return nil, err
	}
	if assets == nil {
		assets = []domain.Asset{}
	}
	return assets, nil
}
