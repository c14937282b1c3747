package api

import (
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"

	"github.com/erazemk/zaloga/internal/model"
	"github.com/erazemk/zaloga/internal/store"
)

// LabelsHandler serves the configured categories, statuses and conditions.
type LabelsHandler struct {
	DB *sqlx.DB
}

type labelsResponse struct {
	Categories []model.Category `json:"categories"`
	Statuses   []model.Label    `json:"statuses"`
	Conditions []model.Label    `json:"conditions"`
}

// List handles GET /api/labels.
func (h *LabelsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	categories, err := store.ListCategories(ctx, h.DB)
	if err != nil {
		slog.Error("failed to list categories", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list labels")
		return
	}
	statuses, err := store.ListLabels(ctx, h.DB, model.DimensionStatus)
	if err != nil {
		slog.Error("failed to list statuses", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list labels")
		return
	}
	conditions, err := store.ListLabels(ctx, h.DB, model.DimensionCondition)
	if err != nil {
		slog.Error("failed to list conditions", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list labels")
		return
	}

	resp := labelsResponse{Categories: categories, Statuses: statuses, Conditions: conditions}
	jsonResponse(w, http.StatusOK, resp)
}
