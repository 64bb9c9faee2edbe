package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/lcalzada-xor/vulnmap/internal/core/domain"
	"github.com/lcalzada-xor/vulnmap/internal/core/ports"
)

// VulnerabilityHandler handles vulnerability catalog CRUD
type VulnerabilityHandler struct {
	Service ports.VulnerabilityService
}

// NewVulnerabilityHandler creates a new VulnerabilityHandler
func NewVulnerabilityHandler(service ports.VulnerabilityService) *VulnerabilityHandler {
	return &VulnerabilityHandler{Service: service}
}

// HandleCreate creates a new vulnerability catalog entry
func (h *VulnerabilityHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var draft domain.VulnerabilityDraft
	if err := decodeBody(r, &draft); err != nil {
		writeError(w, r, err)
		return
	}

	vuln, err := h.Service.Create(r.Context(), draft)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, vuln)
}

// HandleList returns the catalog ordered by severity then recency
func (h *VulnerabilityHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	vulns, err := h.Service.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, vulns)
}

// HandleGet returns a single catalog entry by id
func (h *VulnerabilityHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	vuln, err := h.Service.Get(r.Context(), vars["vulnId"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, vuln)
}

// HandleUpdate applies a partial update to a catalog entry
func (h *VulnerabilityHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var patch domain.VulnerabilityPatch
	if err := decodeBody(r, &patch); err != nil {
		writeError(w, r, err)
		return
	}

	vuln, err := h.Service.Update(r.Context(), vars["vulnId"], patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, vuln)
}

// HandleDelete removes a catalog entry and its links
func (h *VulnerabilityHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["vulnId"]

	if err := h.Service.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id})
}
