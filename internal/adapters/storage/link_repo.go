package storage

import (
	"context"

	"github.com/lcalzada-xor/vulnmap/internal/core/domain"
	"github.com/lcalzada-xor/vulnmap/internal/core/ports"
)

// Ensure interface compliance
var _ ports.LinkRepository = (*SQLiteAdapter)(nil)

// CreateLink persists a new link. The composite unique index on
// (asset_id, vulnerability_id) turns a lost check-then-insert race into
// domain.ErrConflict here rather than a raw driver error.
func (a *SQLiteAdapter) CreateLink(ctx context.Context, link domain.Link) error {
	model := toLinkModel(link)
	return translateError(a.db.WithContext(ctx).Create(&model).Error)
}

// GetLink retrieves a link by id scoped to its asset. A link id owned by a
// different asset reads as not-found.
func (a *SQLiteAdapter) GetLink(ctx context.Context, assetID, linkID string) (*domain.Link, error) {
	var model LinkModel
	err := a.db.WithContext(ctx).
		Where("id = ? AND asset_id = ?", linkID, assetID).
		First(&model).Error
	if err != nil {
		return nil, translateError(err)
	}
	link := toLinkDomain(model)
	return &link, nil
}

// GetLinkByPair retrieves the link for an (asset, vulnerability) pair.
func (a *SQLiteAdapter) GetLinkByPair(ctx context.Context, assetID, vulnerabilityID string) (*domain.Link, error) {
	var model LinkModel
	err := a.db.WithContext(ctx).
		Where("asset_id = ? AND vulnerability_id = ?", assetID, vulnerabilityID).
		First(&model).Error
	if err != nil {
		return nil, translateError(err)
	}
	link := toLinkDomain(model)
	return &link, nil
}

// UpdateLink persists the full state of an existing link.
func (a *SQLiteAdapter) UpdateLink(ctx context.Context, link domain.Link) error {
	model := toLinkModel(link)
	res := a.db.WithContext(ctx).Model(&LinkModel{}).
		Where("id = ? AND asset_id = ?", model.ID, model.AssetID).
		Select("*").Omit("id", "asset_id", "vulnerability_id", "created_at").
		Updates(&model)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteLink removes a link scoped to its asset.
func (a *SQLiteAdapter) DeleteLink(ctx context.Context, assetID, linkID string) error {
	res := a.db.WithContext(ctx).
		Where("id = ? AND asset_id = ?", linkID, assetID).
		Delete(&LinkModel{})
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListLinksForAsset returns an asset's links joined with vulnerability
// detail, most recently seen first.
func (a *SQLiteAdapter) ListLinksForAsset(ctx context.Context, assetID string) ([]domain.LinkWithVulnerability, error) {
	var models []LinkModel
	err := a.db.WithContext(ctx).
		Preload("Vulnerability").
		Where("asset_id = ?", assetID).
		Order("last_seen_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, translateError(err)
	}

	links := make([]domain.LinkWithVulnerability, len(models))
	for i, m := range models {
		links[i] = domain.LinkWithVulnerability{
			Link:          toLinkDomain(m),
			Vulnerability: toVulnerabilityDomain(m.Vulnerability),
		}
	}
	return links, nil
}

// CountOpenLinks returns the number of links in status open.
func (a *SQLiteAdapter) CountOpenLinks(ctx context.Context) (int64, error) {
	var count int64
	err := a.db.WithContext(ctx).Model(&LinkModel{}).
		Where("status = ?", string(domain.StatusOpen)).
		Count(&count).Error
	return count, translateError(err)
}

// OpenLinkCountsBySeverity groups open links by the joined vulnerability
// severity. Absent severities mean zero; the dashboard service fills them.
func (a *SQLiteAdapter) OpenLinkCountsBySeverity(ctx context.Context) (map[domain.Severity]int64, error) {
	var rows []struct {
		Severity string
		Count    int64
	}
	err := a.db.WithContext(ctx).Model(&LinkModel{}).
		Select("vulnerability_models.severity AS severity, COUNT(*) AS count").
		Joins("JOIN vulnerability_models ON vulnerability_models.id = link_models.vulnerability_id").
		Where("link_models.status = ?", string(domain.StatusOpen)).
		Group("vulnerability_models.severity").
		Scan(&rows).Error
	if err != nil {
		return nil, translateError(err)
	}

	counts := make(map[domain.Severity]int64, len(rows))
	for _, row := range rows {
		counts[domain.Severity(row.Severity)] = row.Count
	}
	return counts, nil
}

// RecentOpenLinks returns at most limit open links by update time
// descending, joined with parent detail. The inner joins drop any link whose
// parent cannot be resolved instead of surfacing null fields.
func (a *SQLiteAdapter) RecentOpenLinks(ctx context.Context, limit int) ([]domain.ActiveVulnerability, error) {
	var rows []struct {
		LinkID            string
		Status            string
		LastSeenAt        string
		UpdatedAt         string
		VulnerabilityID   string
		VulnerabilityName string
		Severity          string
		AssetID           string
		AssetName         string
		AssetIPAddress    string
	}
	err := a.db.WithContext(ctx).Model(&LinkModel{}).
		Select(`link_models.id AS link_id,
			link_models.status,
			link_models.last_seen_at,
			link_models.updated_at,
			vulnerability_models.id AS vulnerability_id,
			vulnerability_models.name AS vulnerability_name,
			vulnerability_models.severity,
			asset_models.id AS asset_id,
			asset_models.name AS asset_name,
			asset_models.ip_address AS asset_ip_address`).
		Joins("JOIN vulnerability_models ON vulnerability_models.id = link_models.vulnerability_id").
		Joins("JOIN asset_models ON asset_models.id = link_models.asset_id").
		Where("link_models.status = ?", string(domain.StatusOpen)).
		Order("link_models.updated_at DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, translateError(err)
	}

	out := make([]domain.ActiveVulnerability, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.ActiveVulnerability{
			LinkID:            row.LinkID,
			Status:            domain.LinkStatus(row.Status),
			LastSeenAt:        parseStoredTime(row.LastSeenAt),
			UpdatedAt:         parseStoredTime(row.UpdatedAt),
			VulnerabilityID:   row.VulnerabilityID,
			VulnerabilityName: row.VulnerabilityName,
			Severity:          domain.Severity(row.Severity),
			AssetID:           row.AssetID,
			AssetName:         row.AssetName,
			AssetIPAddress:    row.AssetIPAddress,
		})
	}
	return out, nil
}
