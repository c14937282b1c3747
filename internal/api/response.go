package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/erazemk/zaloga/internal/inventory"
)

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode response", "error", err)
		}
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, errorBody{Error: message})
}

type errorBody struct {
	Error   string `json:"error"`
	Kind    string `json:"kind,omitempty"`
	Details any    `json:"details,omitempty"`
}

// engineErrors maps engine error kinds to a status code and a stable name
// clients can branch on.
var engineErrors = []struct {
	err    error
	status int
	kind   string
}{
	{inventory.ErrInvalidQuantity, http.StatusBadRequest, "invalid_quantity"},
	{inventory.ErrInvalidRequest, http.StatusBadRequest, "invalid_request"},
	{inventory.ErrReasonRequired, http.StatusBadRequest, "reason_required"},
	{inventory.ErrNoChangeRequested, http.StatusBadRequest, "no_change_requested"},
	{inventory.ErrUnknownLabel, http.StatusBadRequest, "unknown_label"},
	{inventory.ErrNotTrackedUnit, http.StatusBadRequest, "not_tracked_unit"},
	{inventory.ErrUnitNotFound, http.StatusNotFound, "unit_not_found"},
	{inventory.ErrGroupNotFound, http.StatusNotFound, "group_not_found"},
	{inventory.ErrEntryNotFound, http.StatusNotFound, "entry_not_found"},
	{inventory.ErrDuplicateTrackingKey, http.StatusConflict, "duplicate_tracking_key"},
	{inventory.ErrEntryExpired, http.StatusGone, "entry_expired"},
	{inventory.ErrCannotReduceBelowTrackedUnits, http.StatusUnprocessableEntity, "cannot_reduce_below_tracked_units"},
	{inventory.ErrInsufficientQuantityInSource, http.StatusUnprocessableEntity, "insufficient_quantity_in_source"},
}

// serviceError writes err from the inventory engine. Unknown errors are
// logged and reported as internal errors.
func serviceError(w http.ResponseWriter, msg string, err error) {
	for _, e := range engineErrors {
		if !errors.Is(err, e.err) {
			continue
		}
		body := errorBody{Error: err.Error(), Kind: e.kind}

		var below *inventory.BelowTrackedError
		var insufficient *inventory.InsufficientQuantityError
		var dup *inventory.DuplicateKeyError
		switch {
		case errors.As(err, &below):
			body.Details = map[string]int{
				"items_to_remove":  below.ItemsToRemove,
				"items_without_sn": below.ItemsWithoutSN,
				"items_with_sn":    below.ItemsWithSN,
				"remainder":        below.Remainder(),
			}
		case errors.As(err, &insufficient):
			body.Details = insufficient
		case errors.As(err, &dup):
			body.Details = dup
		}

		jsonResponse(w, e.status, body)
		return
	}

	slog.Error(msg, "error", err)
	jsonError(w, http.StatusInternalServerError, msg)
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}
