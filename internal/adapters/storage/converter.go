package storage

import (
	"encoding/json"
	"time"

	"github.com/lcalzada-xor/vulnmap/internal/core/domain"
)

// parseStoredTime decodes a timestamp column selected through a raw alias,
// where the driver loses the declared type and hands back a string. SQLite
// stores either the go-sqlite3 default layout or RFC3339.
func parseStoredTime(s string) time.Time {
	for _, layout := range []string{
		"2006-01-02 15:04:05.999999999-07:00",
		time.RFC3339Nano,
		"2006-01-02 15:04:05",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func toAssetModel(a domain.Asset) AssetModel {
	return AssetModel{
		ID:              a.ID,
		Name:            a.Name,
		Type:            string(a.Type),
		IPAddress:       a.IPAddress,
		MACAddress:      a.MACAddress,
		OperatingSystem: a.OperatingSystem,
		Description:     a.Description,
		LastScannedAt:   a.LastScannedAt,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

func toAssetDomain(m AssetModel) domain.Asset {
	return domain.Asset{
		ID:              m.ID,
		Name:            m.Name,
		Type:            domain.AssetType(m.Type),
		IPAddress:       m.IPAddress,
		MACAddress:      m.MACAddress,
		OperatingSystem: m.OperatingSystem,
		Description:     m.Description,
		LastScannedAt:   m.LastScannedAt,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func toVulnerabilityModel(v domain.Vulnerability) VulnerabilityModel {
	refs := ""
	if len(v.References) > 0 {
		if encoded, err := json.Marshal(v.References); err == nil {
			refs = string(encoded)
		}
	}
	return VulnerabilityModel{
		ID:          v.ID,
		Name:        v.Name,
		Description: v.Description,
		Severity:    string(v.Severity),
		CVSSScore:   v.CVSSScore,
		CVSSVector:  v.CVSSVector,
		Source:      v.Source,
		References:  refs,
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
	}
}

func toVulnerabilityDomain(m VulnerabilityModel) domain.Vulnerability {
	var refs []string
	if m.References != "" {
		json.Unmarshal([]byte(m.References), &refs)
	}
	return domain.Vulnerability{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Severity:    domain.Severity(m.Severity),
		CVSSScore:   m.CVSSScore,
		CVSSVector:  m.CVSSVector,
		Source:      m.Source,
		References:  refs,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toLinkModel(l domain.Link) LinkModel {
	return LinkModel{
		ID:               l.ID,
		AssetID:          l.AssetID,
		VulnerabilityID:  l.VulnerabilityID,
		Status:           string(l.Status),
		Details:          l.Details,
		RemediationNotes: l.RemediationNotes,
		LastSeenAt:       l.LastSeenAt,
		CreatedAt:        l.CreatedAt,
		UpdatedAt:        l.UpdatedAt,
	}
}

func toLinkDomain(m LinkModel) domain.Link {
	return domain.Link{
		ID:               m.ID,
		AssetID:          m.AssetID,
		VulnerabilityID:  m.VulnerabilityID,
		Status:           domain.LinkStatus(m.Status),
		Details:          m.Details,
		RemediationNotes: m.RemediationNotes,
		LastSeenAt:       m.LastSeenAt,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}
