package inventory

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/erazemk/zaloga/internal/model"
	"github.com/erazemk/zaloga/internal/store"
)

// CreateUnitRequest adds stock: one tracked unit when a serial or phone
// number is given, otherwise Quantity bulk units.
type CreateUnitRequest struct {
	ItemName     string `json:"item_name" validate:"required,max=200"`
	CategoryID   int64  `json:"category_id" validate:"gt=0"`
	SerialNumber string `json:"serial_number,omitempty" validate:"max=100"`
	NumberPhone  string `json:"number_phone,omitempty" validate:"max=32"`
	Quantity     int    `json:"quantity,omitempty"`
	// Zero selects the default label.
	StatusID    int64  `json:"status_id,omitempty" validate:"gte=0"`
	ConditionID int64  `json:"condition_id,omitempty" validate:"gte=0"`
	Actor       string `json:"-"`
}

// CreateUnit adds a tracked unit or bulk stock to a group. Bulk stock is
// merged into the record with the same status and condition.
func (s *Service) CreateUnit(ctx context.Context, req CreateUnitRequest) (*model.Unit, error) {
	req.ItemName = strings.TrimSpace(req.ItemName)
	req.SerialNumber = strings.TrimSpace(req.SerialNumber)
	req.NumberPhone = strings.TrimSpace(req.NumberPhone)
	if err := s.check(req); err != nil {
		return nil, err
	}
	if req.SerialNumber != "" && req.NumberPhone != "" {
		return nil, invalidRequest("a unit has either a serial number or a phone number")
	}
	tracked := req.SerialNumber != "" || req.NumberPhone != ""
	if !tracked && req.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity %d must be positive", ErrInvalidQuantity, req.Quantity)
	}

	key := groupKey(req.ItemName, req.CategoryID)
	var created *model.Unit

	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		category, err := store.GetCategory(ctx, tx, req.CategoryID)
		if err != nil {
			return err
		}
		if category == nil {
			return fmt.Errorf("%w: category %d", ErrUnknownLabel, req.CategoryID)
		}
		if category.IsPhone && req.SerialNumber != "" {
			return invalidRequest("units in %s are identified by phone number", category.Name)
		}
		if !category.IsPhone && req.NumberPhone != "" {
			return invalidRequest("units in %s are identified by serial number", category.Name)
		}

		statusID, err := labelOrDefault(ctx, tx, model.DimensionStatus, req.StatusID)
		if err != nil {
			return err
		}
		conditionID, err := labelOrDefault(ctx, tx, model.DimensionCondition, req.ConditionID)
		if err != nil {
			return err
		}

		now := s.Now()
		var reason string

		if tracked {
			u := &model.Unit{
				ID:            s.NewID(),
				ItemName:      key.ItemName,
				CategoryID:    key.CategoryID,
				Quantity:      1,
				TotalQuantity: 1,
				StatusID:      statusID,
				ConditionID:   conditionID,
				DateAdded:     now,
				UpdatedAt:     now,
			}
			field, value := model.TrackingSerial, req.SerialNumber
			if req.NumberPhone != "" {
				field, value = model.TrackingPhone, normalizePhone(req.NumberPhone, s.cfg.PhoneRegion)
				u.NumberPhone = &value
			} else {
				u.SerialNumber = &value
			}
			if err := s.checkDuplicate(ctx, tx, key, field, value, ""); err != nil {
				return err
			}
			if err := store.InsertUnit(ctx, tx, u); err != nil {
				return err
			}
			created = u
			reason = fmt.Sprintf("added %s with %s number %s", key.ItemName, field, value)
		} else {
			id, err := s.addBulk(ctx, tx, key, statusID, conditionID, req.Quantity, now)
			if err != nil {
				return err
			}
			created, err = store.GetUnit(ctx, tx, id)
			if err != nil {
				return err
			}
			reason = fmt.Sprintf("added %d of %s", req.Quantity, key.ItemName)
		}

		return s.record(ctx, tx, key, created.ID, model.ActionCreate, reason, actorOrSystem(req.Actor))
	})
	if err != nil {
		return nil, err
	}

	slog.Info("unit created", "user", actorOrSystem(req.Actor), "item", key.ItemName,
		"category", key.CategoryID, "unit", created.ID)
	return created, nil
}

// EditUnitRequest changes a tracked unit. Nil fields are left as they are.
type EditUnitRequest struct {
	UnitID      string  `json:"unit_id" validate:"required"`
	TrackingKey *string `json:"tracking_key,omitempty" validate:"omitempty,max=100"`
	StatusID    *int64  `json:"status_id,omitempty" validate:"omitempty,gt=0"`
	ConditionID *int64  `json:"condition_id,omitempty" validate:"omitempty,gt=0"`
	Reason      string  `json:"reason,omitempty"`
	Actor       string  `json:"-"`
}

// EditUnit changes the tracking key, status or condition of one tracked unit.
func (s *Service) EditUnit(ctx context.Context, req EditUnitRequest) (*model.Unit, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}

	var unit *model.Unit
	var reason string

	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		u, err := store.GetUnit(ctx, tx, req.UnitID)
		if err != nil {
			return err
		}
		if u == nil {
			return fmt.Errorf("%w: %s", ErrUnitNotFound, req.UnitID)
		}
		if !u.IsTracked() {
			return fmt.Errorf("%w: %s", ErrNotTrackedUnit, u.ID)
		}

		var changes []string

		if req.TrackingKey != nil {
			field := u.TrackingType()
			value := strings.TrimSpace(*req.TrackingKey)
			if field == model.TrackingPhone {
				value = normalizePhone(value, s.cfg.PhoneRegion)
			}
			if value == "" {
				return invalidRequest("%s number must not be empty", field)
			}
			if old := u.TrackingKey(); value != old {
				if err := s.checkDuplicate(ctx, tx, u.Key(), field, value, u.ID); err != nil {
					return err
				}
				if field == model.TrackingPhone {
					u.NumberPhone = &value
				} else {
					u.SerialNumber = &value
				}
				changes = append(changes, fmt.Sprintf("%s number %s to %s", field, old, value))
			}
		}

		if req.StatusID != nil && *req.StatusID != u.StatusID {
			if _, err := requireLabel(ctx, tx, model.DimensionStatus, *req.StatusID); err != nil {
				return err
			}
			changes = append(changes, fmt.Sprintf("status %s to %s",
				labelName(ctx, tx, model.DimensionStatus, u.StatusID),
				labelName(ctx, tx, model.DimensionStatus, *req.StatusID)))
			u.StatusID = *req.StatusID
		}

		if req.ConditionID != nil && *req.ConditionID != u.ConditionID {
			if _, err := requireLabel(ctx, tx, model.DimensionCondition, *req.ConditionID); err != nil {
				return err
			}
			changes = append(changes, fmt.Sprintf("condition %s to %s",
				labelName(ctx, tx, model.DimensionCondition, u.ConditionID),
				labelName(ctx, tx, model.DimensionCondition, *req.ConditionID)))
			u.ConditionID = *req.ConditionID
		}

		if len(changes) == 0 {
			return ErrNoChangeRequested
		}

		u.UpdatedAt = s.Now()
		if err := store.UpdateUnit(ctx, tx, u); err != nil {
			return err
		}

		unit = u
		reason = withOperatorReason(
			fmt.Sprintf("changed %s of %s", strings.Join(changes, ", "), u.ItemName), req.Reason)
		return s.record(ctx, tx, u.Key(), u.ID, model.ActionEdit, reason, actorOrSystem(req.Actor))
	})
	if err != nil {
		return nil, err
	}

	slog.Info("unit edited", "user", actorOrSystem(req.Actor), "unit", unit.ID, "reason", reason)
	return unit, nil
}

// DeleteUnitRequest removes one tracked unit.
type DeleteUnitRequest struct {
	UnitID string `json:"unit_id" validate:"required"`
	Reason string `json:"reason"`
	Actor  string `json:"-"`
}

// DeleteResult identifies a deleted unit and its recycle bin entry. EntryID
// is empty when the snapshot could not be stored.
type DeleteResult struct {
	UnitID  string `json:"unit_id"`
	EntryID string `json:"entry_id,omitempty"`
}

// DeleteUnit removes a tracked unit after snapshotting it to the recycle bin.
// A failed snapshot is logged and does not stop the deletion. Bulk counts are
// not touched.
func (s *Service) DeleteUnit(ctx context.Context, req DeleteUnitRequest) (*DeleteResult, error) {
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return nil, ErrReasonRequired
	}
	if err := s.check(req); err != nil {
		return nil, err
	}

	u, err := store.GetUnit(ctx, s.db, req.UnitID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnitNotFound, req.UnitID)
	}
	if !u.IsTracked() {
		return nil, fmt.Errorf("%w: %s", ErrNotTrackedUnit, u.ID)
	}

	actor := actorOrSystem(req.Actor)
	result := &DeleteResult{UnitID: u.ID}

	entry := model.NewRecycleBinEntry(s.NewID(), u, reason, actor, s.Now())
	if err := s.bin.Put(ctx, entry); err != nil {
		slog.Warn("failed to snapshot unit to recycle bin", "unit", u.ID, "error", err)
	} else {
		result.EntryID = entry.ID
	}

	err = s.withTx(ctx, func(tx *sqlx.Tx) error {
		removed, err := store.DeleteUnit(ctx, tx, u.ID)
		if err != nil {
			return err
		}
		if !removed {
			return fmt.Errorf("%w: %s", ErrUnitNotFound, u.ID)
		}
		return s.record(ctx, tx, u.Key(), u.ID, model.ActionDelete,
			fmt.Sprintf("deleted %s %s: %s", u.ItemName, u.TrackingKey(), reason), actor)
	})
	if err != nil {
		if result.EntryID != "" {
			if rmErr := s.bin.Remove(ctx, result.EntryID); rmErr != nil {
				slog.Warn("failed to withdraw recycle bin snapshot", "unit", u.ID, "entry", result.EntryID, "error", rmErr)
			}
		}
		return nil, err
	}

	slog.Info("unit deleted", "user", actor, "unit", u.ID, "item", u.ItemName, "reason", reason)
	return result, nil
}

// DeleteGroupRequest removes every record of a group.
type DeleteGroupRequest struct {
	ItemName   string `json:"item_name" validate:"required"`
	CategoryID int64  `json:"category_id" validate:"gt=0"`
	Reason     string `json:"reason"`
	Actor      string `json:"-"`
}

// DeleteGroup moves every record of a group to the recycle bin in one
// transaction and returns the new entries.
func (s *Service) DeleteGroup(ctx context.Context, req DeleteGroupRequest) ([]model.RecycleBinEntry, error) {
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return nil, ErrReasonRequired
	}
	if err := s.check(req); err != nil {
		return nil, err
	}

	key := groupKey(req.ItemName, req.CategoryID)
	actor := actorOrSystem(req.Actor)
	var entries []model.RecycleBinEntry

	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		units, err := store.ListGroupUnits(ctx, tx, key)
		if err != nil {
			return err
		}
		if len(units) == 0 {
			return fmt.Errorf("%w: %s", ErrGroupNotFound, key.ItemName)
		}

		now := s.Now()
		for i := range units {
			e := model.NewRecycleBinEntry(s.NewID(), &units[i], reason, actor, now)
			if err := store.InsertRecycleBinEntry(ctx, tx, e); err != nil {
				return err
			}
			if _, err := store.DeleteUnit(ctx, tx, units[i].ID); err != nil {
				return err
			}
			entries = append(entries, *e)
		}

		return s.record(ctx, tx, key, "", model.ActionDeleteGroup,
			fmt.Sprintf("deleted %s (%d records): %s", key.ItemName, len(units), reason), actor)
	})
	if err != nil {
		return nil, err
	}

	slog.Info("group deleted", "user", actor, "item", key.ItemName, "category", key.CategoryID, "records", len(entries))
	return entries, nil
}

func (s *Service) checkDuplicate(ctx context.Context, tx *sqlx.Tx, key model.GroupKey, field, value, excludeID string) error {
	other, err := store.FindTrackingKey(ctx, tx, key, field, value, excludeID)
	if err != nil {
		return err
	}
	if other != nil {
		return &DuplicateKeyError{Field: field, Value: value, UnitID: other.ID}
	}
	return nil
}

func labelOrDefault(ctx context.Context, q sqlx.ExtContext, dimension string, id int64) (int64, error) {
	if id != 0 {
		l, err := requireLabel(ctx, q, dimension, id)
		if err != nil {
			return 0, err
		}
		return l.ID, nil
	}

	l, err := store.DefaultLabel(ctx, q, dimension)
	if err != nil {
		return 0, err
	}
	if l == nil {
		return 0, fmt.Errorf("no default %s configured", dimension)
	}
	return l.ID, nil
}
