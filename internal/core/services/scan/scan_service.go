package scan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lcalzada-xor/vulnmap/internal/core/domain"
	"github.com/lcalzada-xor/vulnmap/internal/core/ports"
	"github.com/lcalzada-xor/vulnmap/internal/telemetry"
)

// DefaultBatchSize bounds the candidate batch a single scan considers.
const DefaultBatchSize = 5

// ScanService implements ports.ScanService: it merges a candidate batch of
// vulnerabilities into an asset's link set. Each candidate commits
// independently; there is no rollback, and the returned counters are the
// source of truth for what happened.
type ScanService struct {
	assets    ports.AssetRepository
	links     ports.LinkRepository
	source    ports.CandidateSource
	audit     ports.AuditService
	events    ports.EventSink
	batchSize int
}

// NewScanService creates a new scan service. audit and events may be nil; a
// batchSize <= 0 falls back to DefaultBatchSize.
func NewScanService(assets ports.AssetRepository, links ports.LinkRepository, source ports.CandidateSource, audit ports.AuditService, events ports.EventSink, batchSize int) *ScanService {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &ScanService{
		assets:    assets,
		links:     links,
		source:    source,
		audit:     audit,
		events:    events,
		batchSize: batchSize,
	}
}

var _ ports.ScanService = (*ScanService)(nil)

// Scan runs a simulated scan against one asset. Per candidate: no existing
// link means insert with status open; an existing link is refreshed, and a
// non-open one reopens. A candidate whose store operation fails is skipped
// and excluded from the counters.
func (s *ScanService) Scan(ctx context.Context, assetID string) (*domain.ScanResult, error) {
	asset, err := s.assets.GetAsset(ctx, assetID)
	if err != nil {
		return nil, fmt.Errorf("asset %s: %w", assetID, err)
	}

	candidates, err := s.source.Candidates(ctx, assetID, s.batchSize)
	if err != nil {
		return nil, fmt.Errorf("candidate selection: %w", err)
	}

	if len(candidates) == 0 {
		telemetry.ScansTotal.WithLabelValues("empty").Inc()
		return &domain.ScanResult{
			AssetID: assetID,
			Message: "no vulnerabilities available to scan against",
		}, nil
	}

	now := time.Now().UTC()
	result := &domain.ScanResult{
		AssetID:                  assetID,
		Message:                  "scan completed",
		VulnerabilitiesProcessed: len(candidates),
	}

	for _, candidate := range candidates {
		created, err := s.mergeCandidate(ctx, assetID, candidate.ID, now)
		if err != nil {
			telemetry.ScanCandidateFailures.Inc()
			slog.Warn("scan candidate skipped",
				"asset", assetID, "vulnerability", candidate.ID, "error", err)
			continue
		}
		if created {
			result.NewlyLinked++
		} else {
			result.UpdatedLinks++
		}
	}

	asset.MarkScanned(now)
	if err := s.assets.UpdateAsset(ctx, *asset); err != nil {
		slog.Warn("failed to stamp lastScannedAt", "asset", assetID, "error", err)
	}

	telemetry.ScansTotal.WithLabelValues("completed").Inc()
	telemetry.LinksCreated.WithLabelValues("scan").Add(float64(result.NewlyLinked))
	telemetry.LinksUpdated.WithLabelValues("scan").Add(float64(result.UpdatedLinks))

	s.auditLog(ctx, assetID, fmt.Sprintf("new=%d updated=%d processed=%d",
		result.NewlyLinked, result.UpdatedLinks, result.VulnerabilitiesProcessed))
	s.publish(domain.EventScanCompleted, result)

	return result, nil
}

// mergeCandidate decides insert-vs-refresh for one candidate. Returns true
// when a new link was created. A duplicate-key failure on the insert path
// means a concurrent scan won the race; the merge recovers by falling
// through to the refresh path instead of failing.
func (s *ScanService) mergeCandidate(ctx context.Context, assetID, vulnerabilityID string, now time.Time) (bool, error) {
	existing, err := s.links.GetLinkByPair(ctx, assetID, vulnerabilityID)
	if errors.Is(err, domain.ErrNotFound) {
		link, err := domain.NewLink(assetID, domain.LinkDraft{
			VulnerabilityID: vulnerabilityID,
			Status:          domain.StatusOpen,
			LastSeenAt:      &now,
		})
		if err != nil {
			return false, err
		}
		err = s.links.CreateLink(ctx, *link)
		if err == nil {
			return true, nil
		}
		if !errors.Is(err, domain.ErrConflict) {
			return false, err
		}
		// Lost the insert race; treat as an existing link.
		existing, err = s.links.GetLinkByPair(ctx, assetID, vulnerabilityID)
		if err != nil {
			return false, err
		}
	} else if err != nil {
		return false, err
	}

	reopened := existing.Reobserve(now)
	if err := s.links.UpdateLink(ctx, *existing); err != nil {
		return false, err
	}
	if reopened {
		s.publish(domain.EventLinkStatusChanged, existing)
	}
	return false, nil
}

func (s *ScanService) auditLog(ctx context.Context, target, details string) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Log(ctx, domain.ActionScan, target, details); err != nil {
		slog.Warn("audit log failed", "action", domain.ActionScan, "error", err)
	}
}

func (s *ScanService) publish(t domain.EventType, payload any) {
	if s.events == nil {
		return
	}
	s.events.Publish(domain.NewEvent(t, payload))
}
