package linking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lcalzada-xor/vulnmap/internal/core/domain"
	"github.com/lcalzada-xor/vulnmap/internal/core/ports"
	"github.com/lcalzada-xor/vulnmap/internal/telemetry"
)

// LinkService implements ports.LinkService. It owns the one-link-per-pair
// invariant: an explicit existence pre-check catches most duplicates early,
// and the store's unique index backstops the race between check and insert.
type LinkService struct {
	assets ports.AssetRepository
	vulns  ports.VulnerabilityRepository
	links  ports.LinkRepository
	audit  ports.AuditService
	events ports.EventSink
}

// NewLinkService creates a new link service. audit and events may be nil.
func NewLinkService(assets ports.AssetRepository, vulns ports.VulnerabilityRepository, links ports.LinkRepository, audit ports.AuditService, events ports.EventSink) *LinkService {
	return &LinkService{
		assets: assets,
		vulns:  vulns,
		links:  links,
		audit:  audit,
		events: events,
	}
}

var _ ports.LinkService = (*LinkService)(nil)

// Create links a vulnerability to an asset. Both parents must resolve, and
// at most one link may exist per pair.
func (s *LinkService) Create(ctx context.Context, assetID string, draft domain.LinkDraft) (*domain.Link, error) {
	link, err := domain.NewLink(assetID, draft)
	if err != nil {
		return nil, err
	}

	if _, err := s.assets.GetAsset(ctx, assetID); err != nil {
		return nil, fmt.Errorf("asset %s: %w", assetID, err)
	}
	if _, err := s.vulns.GetVulnerability(ctx, draft.VulnerabilityID); err != nil {
		return nil, fmt.Errorf("vulnerability %s: %w", draft.VulnerabilityID, err)
	}

	// Early duplicate check; the unique index still backstops the race.
	if _, err := s.links.GetLinkByPair(ctx, assetID, draft.VulnerabilityID); err == nil {
		return nil, fmt.Errorf("link for asset %s and vulnerability %s: %w", assetID, draft.VulnerabilityID, domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	if err := s.links.CreateLink(ctx, *link); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, fmt.Errorf("link for asset %s and vulnerability %s: %w", assetID, draft.VulnerabilityID, domain.ErrConflict)
		}
		return nil, err
	}

	telemetry.LinksCreated.WithLabelValues("api").Inc()
	s.auditLog(ctx, domain.ActionLinkCreate, link.ID, fmt.Sprintf("asset=%s vulnerability=%s", assetID, draft.VulnerabilityID))
	s.publish(domain.EventLinkCreated, link)

	return link, nil
}

// ListForAsset returns an asset's links joined with vulnerability detail,
// most recently seen first. The asset must exist.
func (s *LinkService) ListForAsset(ctx context.Context, assetID string) ([]domain.LinkWithVulnerability, error) {
	if _, err := s.assets.GetAsset(ctx, assetID); err != nil {
		return nil, fmt.Errorf("asset %s: %w", assetID, err)
	}
	links, err := s.links.ListLinksForAsset(ctx, assetID)
	if err != nil {
		return nil, err
	}
	if links == nil {
		links = []domain.LinkWithVulnerability{}
	}
	return links, nil
}

// Update applies a partial update to a link. The lookup is asset-scoped: a
// link id owned by a different asset reads as not-found.
func (s *LinkService) Update(ctx context.Context, assetID, linkID string, patch domain.LinkPatch) (*domain.Link, error) {
	link, err := s.links.GetLink(ctx, assetID, linkID)
	if err != nil {
		return nil, fmt.Errorf("link %s under asset %s: %w", linkID, assetID, err)
	}

	statusBefore := link.Status
	if err := link.Apply(patch); err != nil {
		return nil, err
	}
	if err := s.links.UpdateLink(ctx, *link); err != nil {
		return nil, err
	}

	s.auditLog(ctx, domain.ActionLinkUpdate, link.ID, fmt.Sprintf("status=%s", link.Status))
	if link.Status != statusBefore {
		s.publish(domain.EventLinkStatusChanged, link)
	}

	return link, nil
}

// Delete removes a link under the same scoping rule as Update.
func (s *LinkService) Delete(ctx context.Context, assetID, linkID string) error {
	if err := s.links.DeleteLink(ctx, assetID, linkID); err != nil {
		return fmt.Errorf("link %s under asset %s: %w", linkID, assetID, err)
	}

	s.auditLog(ctx, domain.ActionLinkDelete, linkID, "asset="+assetID)
	s.publish(domain.EventLinkDeleted, map[string]string{"id": linkID, "assetId": assetID})

	return nil
}

// auditLog records the action without ever failing the operation.
func (s *LinkService) auditLog(ctx context.Context, action domain.AuditAction, target, details string) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Log(ctx, action, target, details); err != nil {
		slog.Warn("audit log failed", "action", action, "error", err)
	}
}

func (s *LinkService) publish(t domain.EventType, payload any) {
	if s.events == nil {
		return
	}
	s.events.Publish(domain.NewEvent(t, payload))
}
