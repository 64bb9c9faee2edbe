package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/lcalzada-xor/vulnmap/internal/core/domain"
	"github.com/lcalzada-xor/vulnmap/internal/core/ports"
)

// AssetHandler handles asset CRUD operations
type AssetHandler struct {
	Service ports.AssetService
}

// NewAssetHandler creates a new AssetHandler
func NewAssetHandler(service ports.AssetService) *AssetHandler {
	return &AssetHandler{Service: service}
}

// HandleCreate creates a new asset
func (h *AssetHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var draft domain.AssetDraft
	if err := decodeBody(r, &draft); err != nil {
		writeError(w, r, err)
		return
	}

	asset, err := h.Service.Create(r.Context(), draft)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, asset)
}

// HandleList returns all assets, newest first
func (h *AssetHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	assets, err := h.Service.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, assets)
}

// HandleGet returns a single asset by id
func (h *AssetHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	asset, err := h.Service.Get(r.Context(), vars["assetId"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, asset)
}

// HandleUpdate applies a partial update to an asset
func (h *AssetHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var patch domain.AssetPatch
	if err := decodeBody(r, &patch); err != nil {
		writeError(w, r, err)
		return
	}

	asset, err := h.Service.Update(r.Context(), vars["assetId"], patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, asset)
}

// HandleDelete removes an asset and its links
func (h *AssetHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["assetId"]

	if err := h.Service.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id})
}
