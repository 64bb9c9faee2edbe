package scan

import (
	"context"

	"github.com/lcalzada-xor/vulnmap/internal/core/domain"
	"github.com/lcalzada-xor/vulnmap/internal/core/ports"
)

// LatestVulnerabilitySource is the default candidate source: the most
// recently created catalog entries, regardless of asset. It stands in for a
// real scanner; swap the port implementation to integrate one.
type LatestVulnerabilitySource struct {
	vulns ports.VulnerabilityRepository
}

// NewLatestVulnerabilitySource creates the default candidate source.
func NewLatestVulnerabilitySource(vulns ports.VulnerabilityRepository) *LatestVulnerabilitySource {
	return &LatestVulnerabilitySource{vulns: vulns}
}

var _ ports.CandidateSource = (*LatestVulnerabilitySource)(nil)

// Candidates returns at most limit vulnerabilities, newest first.
func (s *LatestVulnerabilitySource) Candidates(ctx context.Context, _ string, limit int) ([]domain.Vulnerability, error) {
	return s.vulns.RecentVulnerabilities(ctx, limit)
}
