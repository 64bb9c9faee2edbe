package ports

import (
	"context"

	"github.com/lcalzada-xor/vulnmap/internal/core/domain"
)

// AssetService owns asset CRUD semantics.
type AssetService interface {
	Create(ctx context.Context, draft domain.AssetDraft) (*domain.Asset, error)
	Get(ctx context.Context, id string) (*domain.Asset, error)
	Update(ctx context.Context, id string, patch domain.AssetPatch) (*domain.Asset, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.Asset, error)
}

// VulnerabilityService owns vulnerability catalog CRUD semantics.
type VulnerabilityService interface {
	Create(ctx context.Context, draft domain.VulnerabilityDraft) (*domain.Vulnerability, error)
	Get(ctx context.Context, id string) (*domain.Vulnerability, error)
	Update(ctx context.Context, id string, patch domain.VulnerabilityPatch) (*domain.Vulnerability, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.Vulnerability, error)
}

// LinkService owns the asset-vulnerability link lifecycle: one link per
// pair, asset-scoped lookups, permissive status moves within the closed set.
type LinkService interface {
	Create(ctx context.Context, assetID string, draft domain.LinkDraft) (*domain.Link, error)
	ListForAsset(ctx context.Context, assetID string) ([]domain.LinkWithVulnerability, error)
	Update(ctx context.Context, assetID, linkID string, patch domain.LinkPatch) (*domain.Link, error)
	Delete(ctx context.Context, assetID, linkID string) error
}

// ScanService merges a simulated scan's candidate batch into an asset's
// link set.
type ScanService interface {
	Scan(ctx context.Context, assetID string) (*domain.ScanResult, error)
}

// DashboardService produces read-only summaries over the inventory.
type DashboardService interface {
	Statistics(ctx context.Context) (*domain.DashboardStats, error)
	RecentAssets(ctx context.Context, limit int) ([]domain.AssetSummary, error)
	RecentActiveVulnerabilities(ctx context.Context, limit int) ([]domain.ActiveVulnerability, error)
}
