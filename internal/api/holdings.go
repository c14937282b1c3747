package api

import (
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"

	"github.com/erazemk/zaloga/internal/model"
	"github.com/erazemk/zaloga/internal/store"
)

// HoldingsHandler records who holds which units. The request/return workflow
// that decides this lives elsewhere; these endpoints only store its outcome.
type HoldingsHandler struct {
	DB *sqlx.DB
}

type createHolderRequest struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type setHoldingRequest struct {
	UnitID        string `json:"unit_id"`
	HolderID      int64  `json:"holder_id"`
	Quantity      int    `json:"quantity"`
	PendingReturn bool   `json:"pending_return"`
}

// ListHolders handles GET /api/holders.
func (h *HoldingsHandler) ListHolders(w http.ResponseWriter, r *http.Request) {
	holders, err := store.ListHolders(r.Context(), h.DB, r.URL.Query().Get("type"))
	if err != nil {
		slog.Error("failed to list holders", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list holders")
		return
	}
	if holders == nil {
		holders = []model.Holder{}
	}
	jsonResponse(w, http.StatusOK, holders)
}

// CreateHolder handles POST /api/holders.
func (h *HoldingsHandler) CreateHolder(w http.ResponseWriter, r *http.Request) {
	var req createHolderRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" || req.Type == "" {
		jsonError(w, http.StatusBadRequest, "name and type required")
		return
	}
	if req.Type != model.HolderTypePerson && req.Type != model.HolderTypeLocation {
		jsonError(w, http.StatusBadRequest, "type must be 'person' or 'location'")
		return
	}

	holder, err := store.CreateHolder(r.Context(), h.DB, req.Name, req.Type)
	if err != nil {
		slog.Error("failed to create holder", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to create holder")
		return
	}

	slog.Info("holder created", "user", actor(r), "holder", holder.Name, "type", holder.Type)
	jsonResponse(w, http.StatusCreated, holder)
}

// SetHolding handles POST /api/holdings. A quantity of zero clears the
// holding.
func (h *HoldingsHandler) SetHolding(w http.ResponseWriter, r *http.Request) {
	var req setHoldingRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.UnitID == "" || req.HolderID <= 0 || req.Quantity < 0 {
		jsonError(w, http.StatusBadRequest, "unit_id, holder_id and a non-negative quantity required")
		return
	}

	holder, err := store.GetHolder(r.Context(), h.DB, req.HolderID)
	if err != nil {
		slog.Error("failed to get holder", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get holder")
		return
	}
	if holder == nil {
		jsonError(w, http.StatusNotFound, "holder not found")
		return
	}

	if err := store.SetHolding(r.Context(), h.DB, req.UnitID, req.HolderID, req.Quantity, req.PendingReturn); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	slog.Info("holding set", "user", actor(r), "unit", req.UnitID, "holder", holder.Name, "quantity", req.Quantity)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "holding updated"})
}
