package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/jmoiron/sqlx"

	"github.com/erazemk/zaloga/internal/model"
	"github.com/erazemk/zaloga/internal/store"
)

// EventsHandler serves the stock audit log.
type EventsHandler struct {
	DB *sqlx.DB
}

// List handles GET /api/events, optionally filtered by item_name and
// category_id.
func (h *EventsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	key := model.GroupKey{ItemName: q.Get("item_name")}
	if v := q.Get("category_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "invalid category_id")
			return
		}
		key.CategoryID = id
	}

	events, err := store.ListEvents(r.Context(), h.DB, key)
	if err != nil {
		slog.Error("failed to list events", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list events")
		return
	}
	if events == nil {
		events = []model.StockEvent{}
	}
	jsonResponse(w, http.StatusOK, events)
}
