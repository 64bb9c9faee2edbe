package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/lcalzada-xor/vulnmap/internal/core/domain"
	"github.com/lcalzada-xor/vulnmap/internal/core/ports"
)

// LinkHandler handles the asset-vulnerability link lifecycle
type LinkHandler struct {
	Service ports.LinkService
}

// NewLinkHandler creates a new LinkHandler
func NewLinkHandler(service ports.LinkService) *LinkHandler {
	return &LinkHandler{Service: service}
}

// HandleCreate links a vulnerability to an asset. 409 if the pair is
// already linked.
func (h *LinkHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var draft domain.LinkDraft
	if err := decodeBody(r, &draft); err != nil {
		writeError(w, r, err)
		return
	}

	link, err := h.Service.Create(r.Context(), vars["assetId"], draft)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, link)
}

// HandleList returns an asset's links joined with vulnerability detail
func (h *LinkHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	links, err := h.Service.ListForAsset(r.Context(), vars["assetId"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, links)
}

// HandleUpdate applies a partial update to a link. The link id must belong
// to the asset in the path; otherwise 404.
func (h *LinkHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var patch domain.LinkPatch
	if err := decodeBody(r, &patch); err != nil {
		writeError(w, r, err)
		return
	}

	link, err := h.Service.Update(r.Context(), vars["assetId"], vars["linkId"], patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, link)
}

// HandleDelete removes a link under the same asset scoping as update
func (h *LinkHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	linkID := vars["linkId"]

	if err := h.Service.Delete(r.Context(), vars["assetId"], linkID); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": linkID})
}
