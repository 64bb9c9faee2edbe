package ports

import (
	"context"

	"github.com/lcalzada-xor/vulnmap/internal/core/domain"
)

// CandidateSource supplies the bounded batch of vulnerabilities a scan
// considers linking to an asset. The default implementation returns the most
// recently created catalog entries; a real scanner integration would plug in
// here.
type CandidateSource interface {
	Candidates(ctx context.Context, assetID string, limit int) ([]domain.Vulnerability, error)
}
