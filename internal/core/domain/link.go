package domain

import (
	"time"

	"github.com/google/uuid"
)

// LinkStatus is the remediation state of an asset-vulnerability link. Any
// status may move to any other on explicit request; the only rule is
// membership in the closed set.
type LinkStatus string

const (
	StatusOpen                LinkStatus = "open"
	StatusRemediated          LinkStatus = "remediated"
	StatusIgnored             LinkStatus = "ignored"
	StatusPendingVerification LinkStatus = "pending_verification"
	StatusArchived            LinkStatus = "archived"
)

// IsValid checks if the status is a recognized value.
func (s LinkStatus) IsValid() bool {
	switch s {
	case StatusOpen, StatusRemediated, StatusIgnored, StatusPendingVerification, StatusArchived:
		return true
	}
	return false
}

// Link associates one asset with one vulnerability. At most one link may
// exist per (AssetID, VulnerabilityID) pair at any time; the storage layer
// enforces this with a unique index and the linking service pre-checks it.
type Link struct {
	ID               string     `json:"id"`
	AssetID          string     `json:"assetId"`
	VulnerabilityID  string     `json:"vulnerabilityId"`
	Status           LinkStatus `json:"status"`
	Details          string     `json:"details,omitempty"`
	RemediationNotes string     `json:"remediationNotes,omitempty"`
	LastSeenAt       time.Time  `json:"lastSeenAt"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// LinkDraft carries caller-supplied fields for link creation. Status
// defaults to open and LastSeenAt to the current time when omitted.
type LinkDraft struct {
	VulnerabilityID  string     `json:"vulnerabilityId"`
	Status           LinkStatus `json:"status"`
	Details          string     `json:"details"`
	RemediationNotes string     `json:"remediationNotes"`
	LastSeenAt       *time.Time `json:"lastSeenAt"`
}

// NewLink validates a draft against its parent asset and returns a stamped
// link entity. Parent existence is the caller's concern.
func NewLink(assetID string, draft LinkDraft) (*Link, error) {
	if draft.VulnerabilityID == "" {
		return nil, NewValidationError("vulnerabilityId is required")
	}
	status := draft.Status
	if status == "" {
		status = StatusOpen
	}
	if !status.IsValid() {
		return nil, NewValidationError("invalid link status %q", draft.Status)
	}

	now := time.Now().UTC()
	lastSeen := now
	if draft.LastSeenAt != nil {
		lastSeen = draft.LastSeenAt.UTC()
	}

	return &Link{
		ID:               uuid.New().String(),
		AssetID:          assetID,
		VulnerabilityID:  draft.VulnerabilityID,
		Status:           status,
		Details:          draft.Details,
		RemediationNotes: draft.RemediationNotes,
		LastSeenAt:       lastSeen,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// LinkPatch describes a partial update; nil fields are untouched.
type LinkPatch struct {
	Status           *LinkStatus `json:"status"`
	Details          *string     `json:"details"`
	RemediationNotes *string     `json:"remediationNotes"`
	LastSeenAt       *time.Time  `json:"lastSeenAt"`
}

// IsEmpty reports whether the patch supplies no fields at all. An empty
// patch is a validation failure, not a no-op success.
func (p LinkPatch) IsEmpty() bool {
	return p.Status == nil && p.Details == nil && p.RemediationNotes == nil && p.LastSeenAt == nil
}

// Apply validates and merges the supplied fields. UpdatedAt always advances
// on success, including status-only changes.
func (l *Link) Apply(patch LinkPatch) error {
	if patch.IsEmpty() {
		return NewValidationError("no fields supplied for update")
	}
	if patch.Status != nil {
		if !patch.Status.IsValid() {
			return NewValidationError("invalid link status %q", *patch.Status)
		}
		l.Status = *patch.Status
	}
	if patch.Details != nil {
		l.Details = *patch.Details
	}
	if patch.RemediationNotes != nil {
		l.RemediationNotes = *patch.RemediationNotes
	}
	if patch.LastSeenAt != nil {
		l.LastSeenAt = patch.LastSeenAt.UTC()
	}

	l.UpdatedAt = time.Now().UTC()
	return nil
}

// Reobserve records that the underlying weakness was seen again: LastSeenAt
// advances and a non-open link reopens. Returns true if the status changed.
func (l *Link) Reobserve(at time.Time) bool {
	l.LastSeenAt = at
	l.UpdatedAt = at
	if l.Status != StatusOpen {
		l.Status = StatusOpen
		return true
	}
	return false
}

// LinkWithVulnerability is a link joined with its vulnerability detail, the
// shape returned when listing an asset's links.
type LinkWithVulnerability struct {
	Link
	Vulnerability Vulnerability `json:"vulnerability"`
}
