package domain

import (
	"time"

	"github.com/google/uuid"
	gocvss31 "github.com/pandatix/go-cvss/31"
)

// Severity is the ordered closed set of vulnerability severities.
type Severity string

const (
	SeverityCritical      Severity = "critical"
	SeverityHigh          Severity = "high"
	SeverityMedium        Severity = "medium"
	SeverityLow           Severity = "low"
	SeverityInformational Severity = "informational"
)

// Severities lists the closed set in descending order. Dashboard breakdowns
// iterate this so the output shape is always complete.
var Severities = []Severity{
	SeverityCritical,
	SeverityHigh,
	SeverityMedium,
	SeverityLow,
	SeverityInformational,
}

// IsValid checks if the severity is a recognized value.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow, SeverityInformational:
		return true
	}
	return false
}

// Rank maps severity to a sortable weight, critical highest.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 5
	case SeverityHigh:
		return 4
	case SeverityMedium:
		return 3
	case SeverityLow:
		return 2
	case SeverityInformational:
		return 1
	}
	return 0
}

// Vulnerability is a named weakness tracked in the catalog. Names are
// globally unique.
type Vulnerability struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Severity    Severity  `json:"severity"`
	CVSSScore   *float64  `json:"cvssScore,omitempty"`
	CVSSVector  string    `json:"cvssVector,omitempty"`
	Source      string    `json:"source,omitempty"`
	References  []string  `json:"references,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// VulnerabilityDraft carries caller-supplied fields for creation.
type VulnerabilityDraft struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
	CVSSScore   *float64 `json:"cvssScore"`
	CVSSVector  string   `json:"cvssVector"`
	Source      string   `json:"source"`
	References  []string `json:"references"`
}

// NewVulnerability validates a draft and returns a stamped entity. When a
// CVSS v3.1 vector is supplied without an explicit score, the base score is
// derived from the vector.
func NewVulnerability(draft VulnerabilityDraft) (*Vulnerability, error) {
	if draft.Name == "" {
		return nil, NewValidationError("vulnerability name is required")
	}
	if !draft.Severity.IsValid() {
		return nil, NewValidationError("invalid severity %q", draft.Severity)
	}
	score := draft.CVSSScore
	if score != nil && (*score < 0.0 || *score > 10.0) {
		return nil, NewValidationError("cvssScore %.1f outside range [0.0, 10.0]", *score)
	}
	if draft.CVSSVector != "" {
		vec, err := gocvss31.ParseVector(draft.CVSSVector)
		if err != nil {
			return nil, NewValidationError("invalid CVSS vector %q", draft.CVSSVector)
		}
		if score == nil {
			base := vec.BaseScore()
			score = &base
		}
	}

	now := time.Now().UTC()
	return &Vulnerability{
		ID:          uuid.New().String(),
		Name:        draft.Name,
		Description: draft.Description,
		Severity:    draft.Severity,
		CVSSScore:   score,
		CVSSVector:  draft.CVSSVector,
		Source:      draft.Source,
		References:  draft.References,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// VulnerabilityPatch describes a partial update; nil fields are untouched.
type VulnerabilityPatch struct {
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	Severity    *Severity `json:"severity"`
	CVSSScore   *float64  `json:"cvssScore"`
	CVSSVector  *string   `json:"cvssVector"`
	Source      *string   `json:"source"`
	References  *[]string `json:"references"`
}

// Apply validates and merges the supplied fields, advancing UpdatedAt.
func (v *Vulnerability) Apply(patch VulnerabilityPatch) error {
	if patch.Name != nil {
		if *patch.Name == "" {
			return NewValidationError("vulnerability name cannot be empty")
		}
		v.Name = *patch.Name
	}
	if patch.Severity != nil {
		if !patch.Severity.IsValid() {
			return NewValidationError("invalid severity %q", *patch.Severity)
		}
		v.Severity = *patch.Severity
	}
	if patch.CVSSScore != nil {
		if *patch.CVSSScore < 0.0 || *patch.CVSSScore > 10.0 {
			return NewValidationError("cvssScore %.1f outside range [0.0, 10.0]", *patch.CVSSScore)
		}
		v.CVSSScore = patch.CVSSScore
	}
	if patch.CVSSVector != nil {
		if *patch.CVSSVector != "" {
			vec, err := gocvss31.ParseVector(*patch.CVSSVector)
			if err != nil {
				return NewValidationError("invalid CVSS vector %q", *patch.CVSSVector)
			}
			if patch.CVSSScore == nil {
				base := vec.BaseScore()
				v.CVSSScore = &base
			}
		}
		v.CVSSVector = *patch.CVSSVector
	}
	if patch.Description != nil {
		v.Description = *patch.Description
	}
	if patch.Source != nil {
		v.Source = *patch.Source
	}
	if patch.References != nil {
		v.References = *patch.References
	}

	v.UpdatedAt = time.Now().UTC()
	return nil
}
