package audit

import (
	"context"

	"github.com/lcalzada-xor/vulnmap/internal/core/domain"
	"github.com/lcalzada-xor/vulnmap/internal/core/ports"
)

// AuditService records security-sensitive actions. The acting user is read
// from the context, where the auth middleware placed it.
type AuditService struct {
	repo ports.AuditRepository
}

func NewAuditService(repo ports.AuditRepository) *AuditService {
	return &AuditService{repo: repo}
}

var _ ports.AuditService = (*AuditService)(nil)

func (s *AuditService) Log(ctx context.Context, action domain.AuditAction, target, details string) error {
	userID := "system"
	username := "system"
	if u := domain.UserFromContext(ctx); u != nil {
		userID = u.ID
		username = u.Username
	}

	// Use the domain factory to enforce business rules
	entry, err := domain.NewAuditLog(userID, username, action, target, details)
	if err != nil {
		return err
	}

	return s.repo.SaveAuditLog(ctx, *entry)
}

func (s *AuditService) GetLogs(ctx context.Context, limit int) ([]domain.AuditLog, error) {
	return s.repo.ListAuditLogs(ctx, limit)
}
