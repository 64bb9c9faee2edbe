package storage

import (
	"context"

	"github.com/lcalzada-xor/vulnmap/internal/core/domain"
	"github.com/lcalzada-xor/vulnmap/internal/core/ports"
	"gorm.io/gorm"
)

// Ensure interface compliance
var _ ports.AssetRepository = (*SQLiteAdapter)(nil)

// CreateAsset persists a new asset.
func (a *SQLiteAdapter) CreateAsset(ctx context.Context, asset domain.Asset) error {
	model := toAssetModel(asset)
	return translateError(a.db.WithContext(ctx).Create(&model).Error)
}

// GetAsset retrieves an asset by id.
func (a *SQLiteAdapter) GetAsset(ctx context.Context, id string) (*domain.Asset, error) {
	var model AssetModel
	if err := a.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	asset := toAssetDomain(model)
	return &asset, nil
}

// UpdateAsset persists the full state of an existing asset.
func (a *SQLiteAdapter) UpdateAsset(ctx context.Context, asset domain.Asset) error {
	model := toAssetModel(asset)
	res := a.db.WithContext(ctx).Model(&AssetModel{}).Where("id = ?", model.ID).
		Select("*").Omit("id", "created_at").Updates(&model)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteAsset removes an asset. Dependent links are deleted in the same
// transaction so cascade holds even without FK enforcement.
func (a *SQLiteAdapter) DeleteAsset(ctx context.Context, id string) error {
	return a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("asset_id = ?", id).Delete(&LinkModel{}).Error; err != nil {
			return translateError(err)
		}
		res := tx.Delete(&AssetModel{}, "id = ?", id)
		if res.Error != nil {
			return translateError(res.Error)
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

// ListAssets returns all assets, newest first.
func (a *SQLiteAdapter) ListAssets(ctx context.Context) ([]domain.Asset, error) {
	var models []AssetModel
	if err := a.db.WithContext(ctx).Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, translateError(err)
	}
	assets := make([]domain.Asset, len(models))
	for i, m := range models {
		assets[i] = toAssetDomain(m)
	}
	return assets, nil
}

// RecentAssets returns at most limit assets by creation time descending.
func (a *SQLiteAdapter) RecentAssets(ctx context.Context, limit int) ([]domain.Asset, error) {
	var models []AssetModel
	if err := a.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&models).Error; err != nil {
		return nil, translateError(err)
	}
	assets := make([]domain.Asset, len(models))
	for i, m := range models {
		assets[i] = toAssetDomain(m)
	}
	return assets, nil
}

// CountAssets returns the total number of assets.
func (a *SQLiteAdapter) CountAssets(ctx context.Context) (int64, error) {
	var count int64
	err := a.db.WithContext(ctx).Model(&AssetModel{}).Count(&count).Error
	return count, translateError(err)
}
