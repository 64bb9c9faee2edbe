package inventory

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lcalzada-xor/vulnmap/internal/core/domain"
	"github.com/lcalzada-xor/vulnmap/internal/core/ports"
)

// VulnerabilityService implements ports.VulnerabilityService.
type VulnerabilityService struct {
	vulns ports.VulnerabilityRepository
	audit ports.AuditService
}

// NewVulnerabilityService creates a new catalog service. audit may be nil.
func NewVulnerabilityService(vulns ports.VulnerabilityRepository, audit ports.AuditService) *VulnerabilityService {
	return &VulnerabilityService{vulns: vulns, audit: audit}
}

var _ ports.VulnerabilityService = (*VulnerabilityService)(nil)

// Create validates a draft and persists a new catalog entry. A duplicate
// name surfaces as a conflict.
func (s *VulnerabilityService) Create(ctx context.Context, draft domain.VulnerabilityDraft) (*domain.Vulnerability, error) {
	vuln, err := domain.NewVulnerability(draft)
	if err != nil {
		return nil, err
	}
	if err := s.vulns.CreateVulnerability(ctx, *vuln); err != nil {
		return nil, fmt.Errorf("vulnerability %q: %w", draft.Name, err)
	}
	return vuln, nil
}

// Get retrieves a catalog entry by id.
func (s *VulnerabilityService) Get(ctx context.Context, id string) (*domain.Vulnerability, error) {
	vuln, err := s.vulns.GetVulnerability(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("vulnerability %s: %w", id, err)
	}
	return vuln, nil
}

// Update applies a partial update; only supplied fields change.
func (s *VulnerabilityService) Update(ctx context.Context, id string, patch domain.VulnerabilityPatch) (*domain.Vulnerability, error) {
	vuln, err := s.vulns.GetVulnerability(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("vulnerability %s: %w", id, err)
	}
	if err := vuln.Apply(patch); err != nil {
		return nil, err
	}
	if err := s.vulns.UpdateVulnerability(ctx, *vuln); err != nil {
		return nil, fmt.Errorf("vulnerability %s: %w", id, err)
	}
	return vuln, nil
}

// Delete removes a catalog entry; its links are cascade-deleted.
func (s *VulnerabilityService) Delete(ctx context.Context, id string) error {
	if err := s.vulns.DeleteVulnerability(ctx, id); err != nil {
		return fmt.Errorf("vulnerability %s: %w", id, err)
	}
	if s.audit != nil {
		if err := s.audit.Log(ctx, domain.ActionVulnDelete, id, ""); err != nil {
			slog.Warn("audit log failed", "action", domain.ActionVulnDelete, "error", err)
		}
	}
	return nil
}

// List returns the catalog ordered by severity then recency.
func (s *VulnerabilityService) List(ctx context.Context) ([]domain.Vulnerability, error) {
	vulns, err := s.vulns.ListVulnerabilities(ctx)
	if err != nil {
		return nil, err
	}
	if vulns == nil {
		vulns = []domain.Vulnerability{}
	}
	return vulns, nil
}
