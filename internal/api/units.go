package api

import (
	"net/http"

	"github.com/erazemk/zaloga/internal/inventory"
)

// UnitsHandler handles creating, editing and deleting unit records.
type UnitsHandler struct {
	Service *inventory.Service
}

type deleteUnitRequest struct {
	Reason string `json:"reason"`
}

// Create handles POST /api/units.
func (h *UnitsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req inventory.CreateUnitRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Actor = actor(r)

	u, err := h.Service.CreateUnit(r.Context(), req)
	if err != nil {
		serviceError(w, "failed to create unit", err)
		return
	}
	jsonResponse(w, http.StatusCreated, u)
}

// Update handles PUT /api/units/{id}.
func (h *UnitsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req inventory.EditUnitRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.UnitID = r.PathValue("id")
	req.Actor = actor(r)

	u, err := h.Service.EditUnit(r.Context(), req)
	if err != nil {
		serviceError(w, "failed to update unit", err)
		return
	}
	jsonResponse(w, http.StatusOK, u)
}

// Delete handles DELETE /api/units/{id}. The reason comes from the body or
// the reason query parameter.
func (h *UnitsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var body deleteUnitRequest
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &body); err != nil {
			jsonError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}
	if body.Reason == "" {
		body.Reason = r.URL.Query().Get("reason")
	}

	res, err := h.Service.DeleteUnit(r.Context(), inventory.DeleteUnitRequest{
		UnitID: r.PathValue("id"),
		Reason: body.Reason,
		Actor:  actor(r),
	})
	if err != nil {
		serviceError(w, "failed to delete unit", err)
		return
	}
	jsonResponse(w, http.StatusOK, res)
}
