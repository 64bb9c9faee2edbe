package scan

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/lcalzada-xor/vulnmap/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockAssetRepository implements ports.AssetRepository for testing.
type MockAssetRepository struct {
	mock.Mock
}

func (m *MockAssetRepository) CreateAsset(ctx context.Context, asset domain.Asset) error {
	return m.Called(ctx, asset).Error(0)
}

func (m *MockAssetRepository) GetAsset(ctx context.Context, id string) (*domain.Asset, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Asset), args.Error(1)
}

func (m *MockAssetRepository) UpdateAsset(ctx context.Context, asset domain.Asset) error {
	return m.Called(ctx, asset).Error(0)
}

func (m *MockAssetRepository) DeleteAsset(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockAssetRepository) ListAssets(ctx context.Context) ([]domain.Asset, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Asset), args.Error(1)
}

func (m *MockAssetRepository) RecentAssets(ctx context.Context, limit int) ([]domain.Asset, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Asset), args.Error(1)
}

func (m *MockAssetRepository) CountAssets(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockLinkRepository implements ports.LinkRepository for testing.
type MockLinkRepository struct {
	mock.Mock
}

func (m *MockLinkRepository) CreateLink(ctx context.Context, link domain.Link) error {
	return m.Called(ctx, link).Error(0)
}

func (m *MockLinkRepository) GetLink(ctx context.Context, assetID, linkID string) (*domain.Link, error) {
	args := m.Called(ctx, assetID, linkID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Link), args.Error(1)
}

func (m *MockLinkRepository) GetLinkByPair(ctx context.Context, assetID, vulnerabilityID string) (*domain.Link, error) {
	args := m.Called(ctx, assetID, vulnerabilityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Link), args.Error(1)
}

func (m *MockLinkRepository) UpdateLink(ctx context.Context, link domain.Link) error {
	return m.Called(ctx, link).Error(0)
}

func (m *MockLinkRepository) DeleteLink(ctx context.Context, assetID, linkID string) error {
	return m.Called(ctx, assetID, linkID).Error(0)
}

func (m *MockLinkRepository) ListLinksForAsset(ctx context.Context, assetID string) ([]domain.LinkWithVulnerability, error) {
	args := m.Called(ctx, assetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LinkWithVulnerability), args.Error(1)
}

func (m *MockLinkRepository) CountOpenLinks(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLinkRepository) OpenLinkCountsBySeverity(ctx context.Context) (map[domain.Severity]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.Severity]int64), args.Error(1)
}

func (m *MockLinkRepository) RecentOpenLinks(ctx context.Context, limit int) ([]domain.ActiveVulnerability, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ActiveVulnerability), args.Error(1)
}

// MockCandidateSource implements ports.CandidateSource.
type MockCandidateSource struct {
	mock.Mock
}

func (m *MockCandidateSource) Candidates(ctx context.Context, assetID string, limit int) ([]domain.Vulnerability, error) {
	args := m.Called(ctx, assetID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Vulnerability), args.Error(1)
}

// recordingSink captures published events for assertions.
type recordingSink struct {
	mu     sync.Mutex
	events []domain.Event
}

func (r *recordingSink) Publish(e domain.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingSink) types() []domain.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ts []domain.EventType
	for _, e := range r.events {
		ts = append(ts, e.Type)
	}
	return ts
}

func TestScanService_UnknownAsset(t *testing.T) {
	assets := new(MockAssetRepository)
	links := new(MockLinkRepository)
	source := new(MockCandidateSource)
	svc := NewScanService(assets, links, source, nil, nil, 0)
	ctx := context.Background()

	assets.On("GetAsset", ctx, "ghost").Return(nil, domain.ErrNotFound)

	_, err := svc.Scan(ctx, "ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	source.AssertNotCalled(t, "Candidates", mock.Anything, mock.Anything, mock.Anything)
}

func TestScanService_EmptyCatalog(t *testing.T) {
	assets := new(MockAssetRepository)
	links := new(MockLinkRepository)
	source := new(MockCandidateSource)
	svc := NewScanService(assets, links, source, nil, nil, 0)
	ctx := context.Background()

	assets.On("GetAsset", ctx, "a-1").Return(&domain.Asset{ID: "a-1"}, nil)
	source.On("Candidates", ctx, "a-1", DefaultBatchSize).Return([]domain.Vulnerability{}, nil)

	result, err := svc.Scan(ctx, "a-1")
	require.NoError(t, err)
	assert.Equal(t, 0, result.VulnerabilitiesProcessed)
	assert.Equal(t, 0, result.NewlyLinked)
	assert.Equal(t, 0, result.UpdatedLinks)
	assert.NotEmpty(t, result.Message)

	// No links were touched and no lastScannedAt stamp was written
	links.AssertNotCalled(t, "CreateLink", mock.Anything, mock.Anything)
	assets.AssertNotCalled(t, "UpdateAsset", mock.Anything, mock.Anything)
}

func TestScanService_InsertsAndRefreshes(t *testing.T) {
	assets := new(MockAssetRepository)
	links := new(MockLinkRepository)
	source := new(MockCandidateSource)
	sink := &recordingSink{}
	svc := NewScanService(assets, links, source, nil, sink, 0)
	ctx := context.Background()

	assets.On("GetAsset", ctx, "a-1").Return(&domain.Asset{ID: "a-1"}, nil)
	assets.On("UpdateAsset", ctx, mock.MatchedBy(func(a domain.Asset) bool {
		return a.LastScannedAt != nil
	})).Return(nil)

	source.On("Candidates", ctx, "a-1", DefaultBatchSize).Return([]domain.Vulnerability{
		{ID: "v-new"},
		{ID: "v-open"},
		{ID: "v-remediated"},
	}, nil)

	// v-new has no link yet: insert path
	links.On("GetLinkByPair", ctx, "a-1", "v-new").Return(nil, domain.ErrNotFound)
	links.On("CreateLink", ctx, mock.MatchedBy(func(l domain.Link) bool {
		return l.VulnerabilityID == "v-new" && l.Status == domain.StatusOpen
	})).Return(nil)

	// v-open already linked and open: refresh only, status untouched
	links.On("GetLinkByPair", ctx, "a-1", "v-open").
		Return(&domain.Link{ID: "l-open", AssetID: "a-1", VulnerabilityID: "v-open", Status: domain.StatusOpen}, nil)

	// v-remediated was closed: the scan reopens it
	links.On("GetLinkByPair", ctx, "a-1", "v-remediated").
		Return(&domain.Link{ID: "l-rem", AssetID: "a-1", VulnerabilityID: "v-remediated", Status: domain.StatusRemediated}, nil)

	links.On("UpdateLink", ctx, mock.MatchedBy(func(l domain.Link) bool {
		return l.Status == domain.StatusOpen && !l.LastSeenAt.IsZero()
	})).Return(nil)

	result, err := svc.Scan(ctx, "a-1")
	require.NoError(t, err)
	assert.Equal(t, 3, result.VulnerabilitiesProcessed)
	assert.Equal(t, 1, result.NewlyLinked)
	assert.Equal(t, 2, result.UpdatedLinks)

	// One reopen event plus the final scan_completed
	assert.Contains(t, sink.types(), domain.EventLinkStatusChanged)
	assert.Contains(t, sink.types(), domain.EventScanCompleted)
	links.AssertExpectations(t)
}

func TestScanService_RecoversFromInsertRace(t *testing.T) {
	assets := new(MockAssetRepository)
	links := new(MockLinkRepository)
	source := new(MockCandidateSource)
	svc := NewScanService(assets, links, source, nil, nil, 0)
	ctx := context.Background()

	assets.On("GetAsset", ctx, "a-1").Return(&domain.Asset{ID: "a-1"}, nil)
	assets.On("UpdateAsset", ctx, mock.Anything).Return(nil)
	source.On("Candidates", ctx, "a-1", DefaultBatchSize).Return([]domain.Vulnerability{{ID: "v-1"}}, nil)

	// First pair lookup misses, the insert loses the race, the retry finds
	// the winner's row and the candidate lands on the refresh path.
	links.On("GetLinkByPair", ctx, "a-1", "v-1").Return(nil, domain.ErrNotFound).Once()
	links.On("CreateLink", ctx, mock.Anything).Return(domain.ErrConflict)
	links.On("GetLinkByPair", ctx, "a-1", "v-1").
		Return(&domain.Link{ID: "l-1", AssetID: "a-1", VulnerabilityID: "v-1", Status: domain.StatusOpen}, nil)
	links.On("UpdateLink", ctx, mock.Anything).Return(nil)

	result, err := svc.Scan(ctx, "a-1")
	require.NoError(t, err)
	assert.Equal(t, 0, result.NewlyLinked)
	assert.Equal(t, 1, result.UpdatedLinks)
	links.AssertExpectations(t)
}

func TestScanService_SkipsFailedCandidate(t *testing.T) {
	assets := new(MockAssetRepository)
	links := new(MockLinkRepository)
	source := new(MockCandidateSource)
	svc := NewScanService(assets, links, source, nil, nil, 0)
	ctx := context.Background()

	assets.On("GetAsset", ctx, "a-1").Return(&domain.Asset{ID: "a-1"}, nil)
	assets.On("UpdateAsset", ctx, mock.Anything).Return(nil)
	source.On("Candidates", ctx, "a-1", DefaultBatchSize).Return([]domain.Vulnerability{
		{ID: "v-bad"},
		{ID: "v-good"},
	}, nil)

	// First candidate fails at the store; the scan moves on
	links.On("GetLinkByPair", ctx, "a-1", "v-bad").Return(nil, errors.New("disk I/O error"))
	links.On("GetLinkByPair", ctx, "a-1", "v-good").Return(nil, domain.ErrNotFound)
	links.On("CreateLink", ctx, mock.MatchedBy(func(l domain.Link) bool {
		return l.VulnerabilityID == "v-good"
	})).Return(nil)

	result, err := svc.Scan(ctx, "a-1")
	require.NoError(t, err)
	assert.Equal(t, 2, result.VulnerabilitiesProcessed)
	assert.Equal(t, 1, result.NewlyLinked)
	assert.Equal(t, 0, result.UpdatedLinks)
}

func TestScanService_CandidateSourceError(t *testing.T) {
	assets := new(MockAssetRepository)
	links := new(MockLinkRepository)
	source := new(MockCandidateSource)
	svc := NewScanService(assets, links, source, nil, nil, 3)
	ctx := context.Background()

	assets.On("GetAsset", ctx, "a-1").Return(&domain.Asset{ID: "a-1"}, nil)
	source.On("Candidates", ctx, "a-1", 3).Return(nil, errors.New("catalog unavailable"))

	_, err := svc.Scan(ctx, "a-1")
	assert.Error(t, err)
}

func TestLatestVulnerabilitySource(t *testing.T) {
	vulns := new(mockVulnRepo)
	source := NewLatestVulnerabilitySource(vulns)
	ctx := context.Background()

	expected := []domain.Vulnerability{{ID: "v-2"}, {ID: "v-1"}}
	vulns.On("RecentVulnerabilities", ctx, 5).Return(expected, nil)

	got, err := source.Candidates(ctx, "a-1", 5)
	require.NoError(t, err)
	assert.Equal(t, expected, got)
}

// mockVulnRepo implements ports.VulnerabilityRepository for the candidate
// source test.
type mockVulnRepo struct {
	mock.Mock
}

func (m *mockVulnRepo) CreateVulnerability(ctx context.Context, vuln domain.Vulnerability) error {
	return m.Called(ctx, vuln).Error(0)
}

func (m *mockVulnRepo) GetVulnerability(ctx context.Context, id string) (*domain.Vulnerability, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vulnerability), args.Error(1)
}

func (m *mockVulnRepo) UpdateVulnerability(ctx context.Context, vuln domain.Vulnerability) error {
	return m.Called(ctx, vuln).Error(0)
}

func (m *mockVulnRepo) DeleteVulnerability(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockVulnRepo) ListVulnerabilities(ctx context.Context) ([]domain.Vulnerability, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Vulnerability), args.Error(1)
}

func (m *mockVulnRepo) RecentVulnerabilities(ctx context.Context, limit int) ([]domain.Vulnerability, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Vulnerability), args.Error(1)
}

func (m *mockVulnRepo) CountVulnerabilities(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
