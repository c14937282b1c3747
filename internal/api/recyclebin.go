package api

import (
	"net/http"

	"github.com/erazemk/zaloga/internal/inventory"
	"github.com/erazemk/zaloga/internal/model"
)

// RecycleBinHandler lists and restores deleted units.
type RecycleBinHandler struct {
	Service *inventory.Service
}

// List handles GET /api/recycle-bin.
func (h *RecycleBinHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Service.ListRecycleBin(r.Context())
	if err != nil {
		serviceError(w, "failed to list recycle bin", err)
		return
	}
	if entries == nil {
		entries = []model.RecycleBinEntry{}
	}
	jsonResponse(w, http.StatusOK, entries)
}

// Restore handles POST /api/recycle-bin/{id}/restore.
func (h *RecycleBinHandler) Restore(w http.ResponseWriter, r *http.Request) {
	u, err := h.Service.RestoreUnit(r.Context(), inventory.RestoreRequest{
		EntryID: r.PathValue("id"),
		Actor:   actor(r),
	})
	if err != nil {
		serviceError(w, "failed to restore unit", err)
		return
	}
	jsonResponse(w, http.StatusOK, u)
}
