package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/lcalzada-xor/vulnmap/internal/core/domain"
	"github.com/lcalzada-xor/vulnmap/internal/core/ports"
	"gorm.io/gorm"
)

// Ensure interface compliance
var _ ports.VulnerabilityRepository = (*SQLiteAdapter)(nil)

// severityOrder ranks severities for catalog listings, critical first,
// derived from the domain ranking so the two can never disagree.
var severityOrder = buildSeverityOrder()

func buildSeverityOrder() string {
	var b strings.Builder
	b.WriteString("CASE severity")
	for _, s := range domain.Severities {
		fmt.Fprintf(&b, " WHEN '%s' THEN %d", s, len(domain.Severities)-s.Rank())
	}
	fmt.Fprintf(&b, " ELSE %d END, created_at DESC", len(domain.Severities))
	return b.String()
}

// CreateVulnerability persists a new catalog entry. A duplicate name is
// reported as domain.ErrConflict via the unique index.
func (a *SQLiteAdapter) CreateVulnerability(ctx context.Context, vuln domain.Vulnerability) error {
	model := toVulnerabilityModel(vuln)
	return translateError(a.db.WithContext(ctx).Create(&model).Error)
}

// GetVulnerability retrieves a catalog entry by id.
func (a *SQLiteAdapter) GetVulnerability(ctx context.Context, id string) (*domain.Vulnerability, error) {
	var model VulnerabilityModel
	if err := a.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	vuln := toVulnerabilityDomain(model)
	return &vuln, nil
}

// UpdateVulnerability persists the full state of an existing entry.
func (a *SQLiteAdapter) UpdateVulnerability(ctx context.Context, vuln domain.Vulnerability) error {
	model := toVulnerabilityModel(vuln)
	res := a.db.WithContext(ctx).Model(&VulnerabilityModel{}).Where("id = ?", model.ID).
		Select("*").Omit("id", "created_at").Updates(&model)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteVulnerability removes a catalog entry and its dependent links.
func (a *SQLiteAdapter) DeleteVulnerability(ctx context.Context, id string) error {
	return a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("vulnerability_id = ?", id).Delete(&LinkModel{}).Error; err != nil {
			return translateError(err)
		}
		res := tx.Delete(&VulnerabilityModel{}, "id = ?", id)
		if res.Error != nil {
			return translateError(res.Error)
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

// ListVulnerabilities returns the catalog ordered by severity rank then
// creation time descending.
func (a *SQLiteAdapter) ListVulnerabilities(ctx context.Context) ([]domain.Vulnerability, error) {
	var models []VulnerabilityModel
	if err := a.db.WithContext(ctx).Order(severityOrder).Find(&models).Error; err != nil {
		return nil, translateError(err)
	}
	vulns := make([]domain.Vulnerability, len(models))
	for i, m := range models {
		vulns[i] = toVulnerabilityDomain(m)
	}
	return vulns, nil
}

// RecentVulnerabilities returns at most limit entries by creation time
// descending. The default scan candidate source reads from here.
func (a *SQLiteAdapter) RecentVulnerabilities(ctx context.Context, limit int) ([]domain.Vulnerability, error) {
	var models []VulnerabilityModel
	if err := a.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&models).Error; err != nil {
		return nil, translateError(err)
	}
	vulns := make([]domain.Vulnerability, len(models))
	for i, m := range models {
		vulns[i] = toVulnerabilityDomain(m)
	}
	return vulns, nil
}

// CountVulnerabilities returns the catalog size.
func (a *SQLiteAdapter) CountVulnerabilities(ctx context.Context) (int64, error) {
	var count int64
	err := a.db.WithContext(ctx).Model(&VulnerabilityModel{}).Count(&count).Error
	return count, translateError(err)
}
