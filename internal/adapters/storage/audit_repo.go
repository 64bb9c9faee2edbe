package storage

import (
	"context"
	"time"

	"github.com/lcalzada-xor/vulnmap/internal/core/domain"
	"github.com/lcalzada-xor/vulnmap/internal/core/ports"
)

// Ensure interface compliance
var _ ports.AuditRepository = (*SQLiteAdapter)(nil)

// AuditLogModel is the GORM model for audit entries.
type AuditLogModel struct {
	ID        uint `gorm:"primaryKey"`
	UserID    string
	Username  string
	Action    string
	Target    string
	Details   string
	Timestamp time.Time `gorm:"index"`
}

// SaveAuditLog persists a single audit entry.
func (a *SQLiteAdapter) SaveAuditLog(ctx context.Context, entry domain.AuditLog) error {
	model := AuditLogModel{
		UserID:    entry.UserID,
		Username:  entry.Username,
		Action:    string(entry.Action),
		Target:    entry.Target,
		Details:   entry.Details,
		Timestamp: entry.Timestamp,
	}
	return translateError(a.db.WithContext(ctx).Create(&model).Error)
}

// ListAuditLogs retrieves audit entries, newest first.
func (a *SQLiteAdapter) ListAuditLogs(ctx context.Context, limit int) ([]domain.AuditLog, error) {
	var models []AuditLogModel
	if err := a.db.WithContext(ctx).Order("timestamp DESC").Limit(limit).Find(&models).Error; err != nil {
		return nil, translateError(err)
	}
	logs := make([]domain.AuditLog, len(models))
	for i, m := range models {
		logs[i] = domain.AuditLog{
			ID:        m.ID,
			UserID:    m.UserID,
			Username:  m.Username,
			Action:    domain.AuditAction(m.Action),
			Target:    m.Target,
			Details:   m.Details,
			Timestamp: m.Timestamp,
		}
	}
	return logs, nil
}
