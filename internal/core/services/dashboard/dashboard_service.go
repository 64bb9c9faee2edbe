package dashboard

import (
	"context"

	"github.com/lcalzada-xor/vulnmap/internal/core/domain"
	"github.com/lcalzada-xor/vulnmap/internal/core/ports"
)

// DefaultLimit is the recency-listing size when the caller supplies none.
const DefaultLimit = 5

// DashboardService implements ports.DashboardService. Read-only; it never
// mutates the store.
type DashboardService struct {
	assets ports.AssetRepository
	vulns  ports.VulnerabilityRepository
	links  ports.LinkRepository
}

// NewDashboardService creates a new dashboard aggregator.
func NewDashboardService(assets ports.AssetRepository, vulns ports.VulnerabilityRepository, links ports.LinkRepository) *DashboardService {
	return &DashboardService{assets: assets, vulns: vulns, links: links}
}

var _ ports.DashboardService = (*DashboardService)(nil)

// Statistics returns inventory totals plus a per-severity breakdown of open
// links. The breakdown always covers the full severity set; severities with
// no open links report zero.
func (s *DashboardService) Statistics(ctx context.Context) (*domain.DashboardStats, error) {
	assetCount, err := s.assets.CountAssets(ctx)
	if err != nil {
		return nil, err
	}
	vulnCount, err := s.vulns.CountVulnerabilities(ctx)
	if err != nil {
		return nil, err
	}
	openCount, err := s.links.CountOpenLinks(ctx)
	if err != nil {
		return nil, err
	}
	bySeverity, err := s.links.OpenLinkCountsBySeverity(ctx)
	if err != nil {
		return nil, err
	}

	breakdown := make(map[domain.Severity]int64, len(domain.Severities))
	for _, sev := range domain.Severities {
		breakdown[sev] = bySeverity[sev]
	}

	return &domain.DashboardStats{
		TotalAssets:          assetCount,
		TotalVulnerabilities: vulnCount,
		OpenLinks:            openCount,
		OpenBySeverity:       breakdown,
	}, nil
}

// RecentAssets returns the most recently created assets projected to their
// dashboard summary shape.
func (s *DashboardService) RecentAssets(ctx context.Context, limit int) ([]domain.AssetSummary, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	assets, err := s.assets.RecentAssets(ctx, limit)
	if err != nil {
		return nil, err
	}
	summaries := make([]domain.AssetSummary, len(assets))
	for i, a := range assets {
		summaries[i] = a.Summary()
	}
	return summaries, nil
}

// RecentActiveVulnerabilities returns the most recently updated open links
// joined with parent detail. Links with unresolvable parents are excluded by
// the repository rather than surfaced with null fields.
func (s *DashboardService) RecentActiveVulnerabilities(ctx context.Context, limit int) ([]domain.ActiveVulnerability, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	active, err := s.links.RecentOpenLinks(ctx, limit)
	if err != nil {
		return nil, err
	}
	if active == nil {
		active = []domain.ActiveVulnerability{}
	}
	return active, nil
}
