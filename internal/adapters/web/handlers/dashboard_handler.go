package handlers

import (
	"net/http"
	"strconv"

	"github.com/lcalzada-xor/vulnmap/internal/core/ports"
)

// DashboardHandler serves read-only summary queries
type DashboardHandler struct {
	Service ports.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(service ports.DashboardService) *DashboardHandler {
	return &DashboardHandler{Service: service}
}

// limitParam parses an optional ?limit= query value.
func limitParam(r *http.Request) int {
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			return n
		}
	}
	return 0
}

// HandleStatistics returns inventory totals and the per-severity breakdown
// of open links.
func (h *DashboardHandler) HandleStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.Statistics(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// HandleRecentAssets returns the most recently created assets
func (h *DashboardHandler) HandleRecentAssets(w http.ResponseWriter, r *http.Request) {
	assets, err := h.Service.RecentAssets(r.Context(), limitParam(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, assets)
}

// HandleRecentVulnerabilities returns the most recently updated open links
func (h *DashboardHandler) HandleRecentVulnerabilities(w http.ResponseWriter, r *http.Request) {
	active, err := h.Service.RecentActiveVulnerabilities(r.Context(), limitParam(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, active)
}
