package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/erazemk/zaloga/internal/inventory"
	"github.com/erazemk/zaloga/internal/model"
)

// GroupsHandler serves the inventory list and per-group views.
type GroupsHandler struct {
	Service *inventory.Service
}

// List handles GET /api/groups.
func (h *GroupsHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := parseGroupFilter(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	rows, err := h.Service.ListGroups(r.Context(), filter)
	if err != nil {
		serviceError(w, "failed to list groups", err)
		return
	}
	if rows == nil {
		rows = []model.GroupRow{}
	}
	jsonResponse(w, http.StatusOK, rows)
}

// Breakdown handles GET /api/groups/breakdown?item_name=...&category_id=...
func (h *GroupsHandler) Breakdown(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	name := q.Get("item_name")
	categoryID, err := strconv.ParseInt(q.Get("category_id"), 10, 64)
	if name == "" || err != nil || categoryID <= 0 {
		jsonError(w, http.StatusBadRequest, "item_name and category_id required")
		return
	}

	b, err := h.Service.GetBreakdown(r.Context(), name, categoryID)
	if err != nil {
		serviceError(w, "failed to get breakdown", err)
		return
	}
	jsonResponse(w, http.StatusOK, b)
}

// Delete handles POST /api/groups/delete.
func (h *GroupsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req inventory.DeleteGroupRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Actor = actor(r)

	entries, err := h.Service.DeleteGroup(r.Context(), req)
	if err != nil {
		serviceError(w, "failed to delete group", err)
		return
	}
	jsonResponse(w, http.StatusOK, entries)
}

func parseGroupFilter(r *http.Request) (model.GroupFilter, error) {
	q := r.URL.Query()
	f := model.GroupFilter{
		Search: q.Get("search"),
		Type:   q.Get("type"),
	}

	ids := []struct {
		name string
		dst  *int64
	}{
		{"category_id", &f.CategoryID},
		{"status_id", &f.StatusID},
		{"condition_id", &f.ConditionID},
	}
	for _, id := range ids {
		v := q.Get(id.name)
		if v == "" {
			continue
		}
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return f, fmt.Errorf("invalid %s", id.name)
		}
		*id.dst = n
	}

	if v := q.Get("has_serial"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return f, fmt.Errorf("invalid has_serial")
		}
		f.HasSerial = &b
	}
	if v := q.Get("low_stock"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return f, fmt.Errorf("invalid low_stock")
		}
		f.LowStock = b
	}
	if v := q.Get("threshold"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return f, fmt.Errorf("invalid threshold")
		}
		f.Threshold = &n
	}

	return f, nil
}
