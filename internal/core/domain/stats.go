package domain

import "time"

// DashboardStats is the summary block served to the dashboard. OpenBySeverity
// always carries an entry for every severity in the closed set, zeros
// included.
type DashboardStats struct {
	TotalAssets          int64              `json:"totalAssets"`
	TotalVulnerabilities int64              `json:"totalVulnerabilities"`
	OpenLinks            int64              `json:"openLinks"`
	OpenBySeverity       map[Severity]int64 `json:"openBySeverity"`
}

// ActiveVulnerability is an open link joined with its vulnerability and asset
// detail for the dashboard recency listing.
type ActiveVulnerability struct {
	LinkID            string     `json:"linkId"`
	Status            LinkStatus `json:"status"`
	LastSeenAt        time.Time  `json:"lastSeenAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
	VulnerabilityID   string     `json:"vulnerabilityId"`
	VulnerabilityName string     `json:"vulnerabilityName"`
	Severity          Severity   `json:"severity"`
	AssetID           string     `json:"assetId"`
	AssetName         string     `json:"assetName"`
	AssetIPAddress    string     `json:"assetIpAddress"`
}

// ScanResult reports what a simulated scan did to an asset's link set.
// Each candidate commits independently, so the counters are the source of
// truth for what happened; there is no all-or-nothing guarantee.
type ScanResult struct {
	AssetID                  string `json:"assetId"`
	Message                  string `json:"message"`
	VulnerabilitiesProcessed int    `json:"vulnerabilitiesProcessed"`
	NewlyLinked              int    `json:"newlyLinked"`
	UpdatedLinks             int    `json:"updatedLinks"`
}
