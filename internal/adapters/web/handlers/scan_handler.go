package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/lcalzada-xor/vulnmap/internal/core/ports"
)

// ScanHandler triggers simulated scans
type ScanHandler struct {
	Service ports.ScanService
}

// NewScanHandler creates a new ScanHandler
func NewScanHandler(service ports.ScanService) *ScanHandler {
	return &ScanHandler{Service: service}
}

// HandleScan runs a simulated scan against one asset and returns the merge
// counters.
func (h *ScanHandler) HandleScan(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	result, err := h.Service.Scan(r.Context(), vars["assetId"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
