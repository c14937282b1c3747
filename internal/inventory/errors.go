package inventory

import (
	"errors"
	"fmt"
)

// Error kinds returned by the engine. Typed errors below match their kind
// with errors.Is.
var (
	ErrInvalidQuantity               = errors.New("invalid quantity")
	ErrCannotReduceBelowTrackedUnits = errors.New("cannot reduce below tracked units")
	ErrInsufficientQuantityInSource  = errors.New("insufficient quantity in source")
	ErrNoChangeRequested             = errors.New("no change requested")
	ErrDuplicateTrackingKey          = errors.New("duplicate tracking key")
	ErrReasonRequired                = errors.New("reason required")
	ErrUnitNotFound                  = errors.New("unit not found")
	ErrGroupNotFound                 = errors.New("group not found")
	ErrNotTrackedUnit                = errors.New("unit has no serial or phone number")
	ErrUnknownLabel                  = errors.New("unknown label")
	ErrEntryNotFound                 = errors.New("recycle bin entry not found")
	ErrEntryExpired                  = errors.New("recycle bin entry expired")
	ErrInvalidRequest                = errors.New("invalid request")
)

// BelowTrackedError reports a total-quantity reduction that untracked units
// cannot absorb. The remainder has to be deleted unit by unit.
type BelowTrackedError struct {
	ItemsToRemove  int `json:"items_to_remove"`
	ItemsWithoutSN int `json:"items_without_sn"`
	ItemsWithSN    int `json:"items_with_sn"`
}

func (e *BelowTrackedError) Error() string {
	return fmt.Sprintf("cannot reduce below tracked units: %d to remove, %d without serial number, %d must be deleted individually from %d tracked",
		e.ItemsToRemove, e.ItemsWithoutSN, e.Remainder(), e.ItemsWithSN)
}

func (e *BelowTrackedError) Is(target error) bool {
	return target == ErrCannotReduceBelowTrackedUnits
}

// Remainder is how many tracked units must be deleted individually.
func (e *BelowTrackedError) Remainder() int {
	return e.ItemsToRemove - e.ItemsWithoutSN
}

// InsufficientQuantityError reports a transfer larger than the bulk units in
// the source bucket.
type InsufficientQuantityError struct {
	Dimension string `json:"dimension"`
	SourceID  int64  `json:"source_id"`
	Available int    `json:"available"`
	Requested int    `json:"requested"`
}

func (e *InsufficientQuantityError) Error() string {
	return fmt.Sprintf("insufficient quantity in source %s %d: have %d, need %d",
		e.Dimension, e.SourceID, e.Available, e.Requested)
}

func (e *InsufficientQuantityError) Is(target error) bool {
	return target == ErrInsufficientQuantityInSource
}

// DuplicateKeyError reports a serial or phone number already used in the group.
type DuplicateKeyError struct {
	Field  string `json:"field"`
	Value  string `json:"value"`
	UnitID string `json:"unit_id"`
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate tracking key: %s %q already used by unit %s", e.Field, e.Value, e.UnitID)
}

func (e *DuplicateKeyError) Is(target error) bool {
	return target == ErrDuplicateTrackingKey
}

func invalidRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, fmt.Sprintf(format, args...))
}
