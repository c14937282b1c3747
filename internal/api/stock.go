package api

import (
	"net/http"

	"github.com/erazemk/zaloga/internal/inventory"
)

// StockHandler handles bulk stock changes.
type StockHandler struct {
	Service *inventory.Service
}

// Adjust handles POST /api/stock/adjust.
func (h *StockHandler) Adjust(w http.ResponseWriter, r *http.Request) {
	var req inventory.AdjustRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Actor = actor(r)

	res, err := h.Service.AdjustBulkStock(r.Context(), req)
	if err != nil {
		serviceError(w, "failed to adjust stock", err)
		return
	}
	jsonResponse(w, http.StatusOK, res)
}

// Transfer handles POST /api/stock/transfer.
func (h *StockHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req inventory.TransferRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Actor = actor(r)

	res, err := h.Service.Transfer(r.Context(), req)
	if err != nil {
		serviceError(w, "failed to transfer stock", err)
		return
	}
	jsonResponse(w, http.StatusOK, res)
}

// Operation handles POST /api/stock/operations, which accepts any of the
// stock-changing operations in one envelope.
func (h *StockHandler) Operation(w http.ResponseWriter, r *http.Request) {
	var env operationEnvelope
	if err := decodeJSON(r, &env); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	op, err := DecodeOperation(env.Op, env.Payload)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.Service.Apply(r.Context(), withActor(op, actor(r)))
	if err != nil {
		serviceError(w, "failed to apply operation", err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]any{"op": op.Kind(), "result": res})
}
