package inventory

import (
	"context"
	"testing"

	"github.com/lcalzada-xor/vulnmap/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockVulnerabilityRepository implements ports.VulnerabilityRepository.
type MockVulnerabilityRepository struct {
	mock.Mock
}

func (m *MockVulnerabilityRepository) CreateVulnerability(ctx context.Context, vuln domain.Vulnerability) error {
	return m.Called(ctx, vuln).Error(0)
}

func (m *MockVulnerabilityRepository) GetVulnerability(ctx context.Context, id string) (*domain.Vulnerability, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vulnerability), args.Error(1)
}

func (m *MockVulnerabilityRepository) UpdateVulnerability(ctx context.Context, vuln domain.Vulnerability) error {
	return m.Called(ctx, vuln).Error(0)
}

func (m *MockVulnerabilityRepository) DeleteVulnerability(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockVulnerabilityRepository) ListVulnerabilities(ctx context.Context) ([]domain.Vulnerability, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Vulnerability), args.Error(1)
}

func (m *MockVulnerabilityRepository) RecentVulnerabilities(ctx context.Context, limit int) ([]domain.Vulnerability, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Vulnerability), args.Error(1)
}

func (m *MockVulnerabilityRepository) CountVulnerabilities(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func TestVulnerabilityService_Create(t *testing.T) {
	repo := new(MockVulnerabilityRepository)
	svc := NewVulnerabilityService(repo, nil)
	ctx := context.Background()

	repo.On("CreateVulnerability", ctx, mock.MatchedBy(func(v domain.Vulnerability) bool {
		return v.Name == "CVE-2024-3094" && v.Severity == domain.SeverityCritical
	})).Return(nil)

	vuln, err := svc.Create(ctx, domain.VulnerabilityDraft{
		Name:     "CVE-2024-3094",
		Severity: domain.SeverityCritical,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, vuln.ID)
}

func TestVulnerabilityService_Create_DuplicateName(t *testing.T) {
	repo := new(MockVulnerabilityRepository)
	svc := NewVulnerabilityService(repo, nil)
	ctx := context.Background()

	repo.On("CreateVulnerability", ctx, mock.Anything).Return(domain.ErrConflict)

	_, err := svc.Create(ctx, domain.VulnerabilityDraft{
		Name:     "CVE-2024-3094",
		Severity: domain.SeverityCritical,
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestVulnerabilityService_Create_Validation(t *testing.T) {
	repo := new(MockVulnerabilityRepository)
	svc := NewVulnerabilityService(repo, nil)
	ctx := context.Background()

	outOfRange := 11.0
	cases := []struct {
		name  string
		draft domain.VulnerabilityDraft
	}{
		{"missing name", domain.VulnerabilityDraft{Severity: domain.SeverityHigh}},
		{"unknown severity", domain.VulnerabilityDraft{Name: "x", Severity: "catastrophic"}},
		{"score out of range", domain.VulnerabilityDraft{Name: "x", Severity: domain.SeverityHigh, CVSSScore: &outOfRange}},
		{"malformed vector", domain.VulnerabilityDraft{Name: "x", Severity: domain.SeverityHigh, CVSSVector: "CVSS:3.1/bogus"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tc.draft)
			assert.True(t, domain.IsValidation(err), "expected validation error, got %v", err)
		})
	}

	repo.AssertNotCalled(t, "CreateVulnerability", mock.Anything, mock.Anything)
}

func TestVulnerabilityService_Create_ScoreFromVector(t *testing.T) {
	repo := new(MockVulnerabilityRepository)
	svc := NewVulnerabilityService(repo, nil)
	ctx := context.Background()

	repo.On("CreateVulnerability", ctx, mock.Anything).Return(nil)

	// Log4Shell base vector scores 10.0
	vuln, err := svc.Create(ctx, domain.VulnerabilityDraft{
		Name:       "CVE-2021-44228",
		Severity:   domain.SeverityCritical,
		CVSSVector: "CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:C/C:H/I:H/A:H",
	})
	require.NoError(t, err)
	require.NotNil(t, vuln.CVSSScore)
	assert.InDelta(t, 10.0, *vuln.CVSSScore, 0.01)
}

func TestVulnerabilityService_Update_Partial(t *testing.T) {
	repo := new(MockVulnerabilityRepository)
	svc := NewVulnerabilityService(repo, nil)
	ctx := context.Background()

	existing := &domain.Vulnerability{ID: "v-1", Name: "CVE-2023-0001", Severity: domain.SeverityMedium}
	repo.On("GetVulnerability", ctx, "v-1").Return(existing, nil)
	repo.On("UpdateVulnerability", ctx, mock.MatchedBy(func(v domain.Vulnerability) bool {
		return v.Severity == domain.SeverityHigh && v.Name == "CVE-2023-0001"
	})).Return(nil)

	sev := domain.SeverityHigh
	updated, err := svc.Update(ctx, "v-1", domain.VulnerabilityPatch{Severity: &sev})
	require.NoError(t, err)
	assert.Equal(t, domain.SeverityHigh, updated.Severity)
}

func TestVulnerabilityService_Get_NotFound(t *testing.T) {
	repo := new(MockVulnerabilityRepository)
	svc := NewVulnerabilityService(repo, nil)
	ctx := context.Background()

	repo.On("GetVulnerability", ctx, "ghost").Return(nil, domain.ErrNotFound)

	_, err := svc.Get(ctx, "ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
