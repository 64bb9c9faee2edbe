package ports

import (
	"context"

	"github.com/lcalzada-xor/vulnmap/internal/core/domain"
)

// AssetRepository defines the persistence layer for assets.
type AssetRepository interface {
	// CreateAsset persists a new asset.
	CreateAsset(ctx context.Context, asset domain.Asset) error
	// GetAsset retrieves an asset by id, domain.ErrNotFound if absent.
	GetAsset(ctx context.Context, id string) (*domain.Asset, error)
	// UpdateAsset persists the full state of an existing asset.
	UpdateAsset(ctx context.Context, asset domain.Asset) error
	// DeleteAsset removes an asset and cascades deletion of its links.
	DeleteAsset(ctx context.Context, id string) error
	// ListAssets returns all assets, newest first.
	ListAssets(ctx context.Context) ([]domain.Asset, error)
	// RecentAssets returns at most limit assets by creation time descending.
	RecentAssets(ctx context.Context, limit int) ([]domain.Asset, error)
	// CountAssets returns the total number of assets.
	CountAssets(ctx context.Context) (int64, error)
}

// VulnerabilityRepository defines the persistence layer for the
// vulnerability catalog.
type VulnerabilityRepository interface {
	// CreateVulnerability persists a new vulnerability. A duplicate name
	// surfaces as domain.ErrConflict.
	CreateVulnerability(ctx context.Context, vuln domain.Vulnerability) error
	// GetVulnerability retrieves a vulnerability by id.
	GetVulnerability(ctx context.Context, id string) (*domain.Vulnerability, error)
	// UpdateVulnerability persists the full state of an existing record.
	UpdateVulnerability(ctx context.Context, vuln domain.Vulnerability) error
	// DeleteVulnerability removes a vulnerability and cascades its links.
	DeleteVulnerability(ctx context.Context, id string) error
	// ListVulnerabilities returns the catalog ordered by severity rank then
	// creation time descending.
	ListVulnerabilities(ctx context.Context) ([]domain.Vulnerability, error)
	// RecentVulnerabilities returns at most limit records by creation time
	// descending.
	RecentVulnerabilities(ctx context.Context, limit int) ([]domain.Vulnerability, error)
	// CountVulnerabilities returns the catalog size.
	CountVulnerabilities(ctx context.Context) (int64, error)
}

// LinkRepository defines the persistence layer for asset-vulnerability
// links. The (assetID, vulnerabilityID) pair is unique; a duplicate insert
// surfaces as domain.ErrConflict regardless of which caller lost the race.
type LinkRepository interface {
	// CreateLink persists a new link.
	CreateLink(ctx context.Context, link domain.Link) error
	// GetLink retrieves a link by id scoped to its asset. A link id that
	// exists under a different asset reads as domain.ErrNotFound.
	GetLink(ctx context.Context, assetID, linkID string) (*domain.Link, error)
	// GetLinkByPair retrieves the link for an (asset, vulnerability) pair.
	GetLinkByPair(ctx context.Context, assetID, vulnerabilityID string) (*domain.Link, error)
	// UpdateLink persists the full state of an existing link.
	UpdateLink(ctx context.Context, link domain.Link) error
	// DeleteLink removes a link scoped to its asset.
	DeleteLink(ctx context.Context, assetID, linkID string) error
	// ListLinksForAsset returns an asset's links joined with vulnerability
	// detail, ordered by last seen time descending.
	ListLinksForAsset(ctx context.Context, assetID string) ([]domain.LinkWithVulnerability, error)
	// CountOpenLinks returns the number of links in status open.
	CountOpenLinks(ctx context.Context) (int64, error)
	// OpenLinkCountsBySeverity returns open-link counts grouped by the
	// joined vulnerability severity. Severities with no open links may be
	// absent; callers fill zeros.
	OpenLinkCountsBySeverity(ctx context.Context) (map[domain.Severity]int64, error)
	// RecentOpenLinks returns at most limit open links by update time
	// descending, joined with vulnerability and asset detail. Links whose
	// parents cannot be resolved are excluded.
	RecentOpenLinks(ctx context.Context, limit int) ([]domain.ActiveVulnerability, error)
}
