package domain

import (
	"time"

	"github.com/google/uuid"
)

// AssetType classifies an inventoried asset. The set is closed; anything
// outside it is rejected at the boundary.
type AssetType string

const (
	AssetServer        AssetType = "server"
	AssetWorkstation   AssetType = "workstation"
	AssetNetworkDevice AssetType = "network_device"
	AssetIoTDevice     AssetType = "iot_device"
	AssetOther         AssetType = "other"
)

// IsValid checks if the type is a recognized asset type.
func (t AssetType) IsValid() bool {
	switch t {
	case AssetServer, AssetWorkstation, AssetNetworkDevice, AssetIoTDevice, AssetOther:
		return true
	}
	return false
}

// Asset represents a tracked piece of infrastructure: a server, workstation
// or network device. Pure domain entity, no persistence tags.
type Asset struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Type            AssetType  `json:"type"`
	IPAddress       string     `json:"ipAddress"`
	MACAddress      string     `json:"macAddress,omitempty"`
	OperatingSystem string     `json:"operatingSystem,omitempty"`
	Description     string     `json:"description,omitempty"`
	LastScannedAt   *time.Time `json:"lastScannedAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// AssetDraft carries the fields a caller supplies when creating an asset.
type AssetDraft struct {
	Name            string    `json:"name"`
	Type            AssetType `json:"type"`
	IPAddress       string    `json:"ipAddress"`
	MACAddress      string    `json:"macAddress"`
	OperatingSystem string    `json:"operatingSystem"`
	Description     string    `json:"description"`
}

// NewAsset validates a draft and returns a fully-stamped asset entity.
func NewAsset(draft AssetDraft) (*Asset, error) {
	if draft.Name == "" {
		return nil, NewValidationError("asset name is required")
	}
	if draft.IPAddress == "" {
		return nil, NewValidationError("asset ipAddress is required")
	}
	if !draft.Type.IsValid() {
		return nil, NewValidationError("invalid asset type %q", draft.Type)
	}
	if draft.MACAddress != "" && !IsValidMAC(draft.MACAddress) {
		return nil, NewValidationError("invalid MAC address %q", draft.MACAddress)
	}

	now := time.Now().UTC()
	return &Asset{
		ID:              uuid.New().String(),
		Name:            draft.Name,
		Type:            draft.Type,
		IPAddress:       draft.IPAddress,
		MACAddress:      draft.MACAddress,
		OperatingSystem: draft.OperatingSystem,
		Description:     draft.Description,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// AssetPatch describes a partial update; nil fields are left untouched.
type AssetPatch struct {
	Name            *string    `json:"name"`
	Type            *AssetType `json:"type"`
	IPAddress       *string    `json:"ipAddress"`
	MACAddress      *string    `json:"macAddress"`
	OperatingSystem *string    `json:"operatingSystem"`
	Description     *string    `json:"description"`
}

// Apply validates the supplied fields and merges them into the asset,
// advancing UpdatedAt.
func (a *Asset) Apply(patch AssetPatch) error {
	if patch.Name != nil {
		if *patch.Name == "" {
			return NewValidationError("asset name cannot be empty")
		}
		a.Name = *patch.Name
	}
	if patch.Type != nil {
		if !patch.Type.IsValid() {
			return NewValidationError("invalid asset type %q", *patch.Type)
		}
		a.Type = *patch.Type
	}
	if patch.IPAddress != nil {
		if *patch.IPAddress == "" {
			return NewValidationError("asset ipAddress cannot be empty")
		}
		a.IPAddress = *patch.IPAddress
	}
	if patch.MACAddress != nil {
		if *patch.MACAddress != "" && !IsValidMAC(*patch.MACAddress) {
			return NewValidationError("invalid MAC address %q", *patch.MACAddress)
		}
		a.MACAddress = *patch.MACAddress
	}
	if patch.OperatingSystem != nil {
		a.OperatingSystem = *patch.OperatingSystem
	}
	if patch.Description != nil {
		a.Description = *patch.Description
	}

	a.UpdatedAt = time.Now().UTC()
	return nil
}

// MarkScanned records that the asset was just scanned.
func (a *Asset) MarkScanned(at time.Time) {
	a.LastScannedAt = &at
	a.UpdatedAt = at
}

// AssetSummary is the narrow projection the dashboard returns for recency
// listings.
type AssetSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      AssetType `json:"type"`
	IPAddress string    `json:"ipAddress"`
	CreatedAt time.Time `json:"createdAt"`
}

// Summary projects the asset down to its dashboard shape.
func (a *Asset) Summary() AssetSummary {
	return AssetSummary{
		ID:        a.ID,
		Name:      a.Name,
		Type:      a.Type,
		IPAddress: a.IPAddress,
		CreatedAt: a.CreatedAt,
	}
}
