package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/erazemk/zaloga/internal/model"
)

const unitColumns = `id, item_name, category_id, serial_number, number_phone, quantity,
	total_quantity, status_id, condition_id, date_added, updated_at`

// InsertUnit stores a new unit record. The caller assigns the id.
func InsertUnit(ctx context.Context, q sqlx.ExtContext, u *model.Unit) error {
	_, err := q.ExecContext(ctx,
		`INSERT INTO units (`+unitColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.ItemName, u.CategoryID, u.SerialNumber, u.NumberPhone, u.Quantity,
		u.TotalQuantity, u.StatusID, u.ConditionID, u.DateAdded, u.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting unit: %w", err)
	}
	return nil
}

// GetUnit returns a unit by ID.
func GetUnit(ctx context.Context, q sqlx.ExtContext, id string) (*model.Unit, error) {
	u := &model.Unit{}
	err := sqlx.GetContext(ctx, q, u, `SELECT `+unitColumns+` FROM units WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting unit: %w", err)
	}
	return u, nil
}

// ListUnits returns every unit record.
func ListUnits(ctx context.Context, q sqlx.ExtContext) ([]model.Unit, error) {
	var units []model.Unit
	err := sqlx.SelectContext(ctx, q, &units,
		`SELECT `+unitColumns+` FROM units ORDER BY item_name, category_id, date_added, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing units: %w", err)
	}
	return units, nil
}

// ListGroupUnits returns the records of one group, oldest first.
func ListGroupUnits(ctx context.Context, q sqlx.ExtContext, key model.GroupKey) ([]model.Unit, error) {
	var units []model.Unit
	err := sqlx.SelectContext(ctx, q, &units,
		`SELECT `+unitColumns+` FROM units
		 WHERE item_name = ? AND category_id = ?
		 ORDER BY date_added, id`,
		key.ItemName, key.CategoryID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing group units: %w", err)
	}
	return units, nil
}

// FindBulkUnit returns the bulk record of a group carrying the given status
// and condition pair.
func FindBulkUnit(ctx context.Context, q sqlx.ExtContext, key model.GroupKey, statusID, conditionID int64) (*model.Unit, error) {
	u := &model.Unit{}
	err := sqlx.GetContext(ctx, q, u,
		`SELECT `+unitColumns+` FROM units
		 WHERE item_name = ? AND category_id = ? AND status_id = ? AND condition_id = ?
		   AND serial_number IS NULL AND number_phone IS NULL
		 ORDER BY date_added, id LIMIT 1`,
		key.ItemName, key.CategoryID, statusID, conditionID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding bulk unit: %w", err)
	}
	return u, nil
}

// FindTrackingKey returns the record in the group that already uses value as
// its serial number (field "serial") or phone number (field "phone"), ignoring
// the record excludeID.
func FindTrackingKey(ctx context.Context, q sqlx.ExtContext, key model.GroupKey, field, value, excludeID string) (*model.Unit, error) {
	var query string
	switch field {
	case model.TrackingSerial:
		query = `SELECT ` + unitColumns + ` FROM units
		 WHERE item_name = ? AND category_id = ? AND serial_number = ? AND id != ? LIMIT 1`
	case model.TrackingPhone:
		query = `SELECT ` + unitColumns + ` FROM units
		 WHERE item_name = ? AND category_id = ? AND number_phone = ? AND id != ? LIMIT 1`
	default:
		return nil, fmt.Errorf("unknown tracking field %q", field)
	}

	u := &model.Unit{}
	err := sqlx.GetContext(ctx, q, u, query, key.ItemName, key.CategoryID, value, excludeID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("checking tracking key: %w", err)
	}
	return u, nil
}

// SetUnitQuantity sets a bulk record's count.
func SetUnitQuantity(ctx context.Context, q sqlx.ExtContext, id string, quantity int, now time.Time) error {
	if quantity < 0 {
		return fmt.Errorf("quantity must not be negative")
	}
	_, err := q.ExecContext(ctx,
		`UPDATE units SET quantity = ?, total_quantity = ?, updated_at = ? WHERE id = ?`,
		quantity, quantity, now, id,
	)
	if err != nil {
		return fmt.Errorf("setting unit quantity: %w", err)
	}
	return nil
}

// UpdateUnit writes a unit's tracking key, status and condition.
func UpdateUnit(ctx context.Context, q sqlx.ExtContext, u *model.Unit) error {
	_, err := q.ExecContext(ctx,
		`UPDATE units SET serial_number = ?, number_phone = ?, status_id = ?, condition_id = ?, updated_at = ?
		 WHERE id = ?`,
		u.SerialNumber, u.NumberPhone, u.StatusID, u.ConditionID, u.UpdatedAt, u.ID,
	)
	if err != nil {
		return fmt.Errorf("updating unit: %w", err)
	}
	return nil
}

// DeleteUnit removes a unit record. It reports whether a row was removed.
func DeleteUnit(ctx context.Context, q sqlx.ExtContext, id string) (bool, error) {
	result, err := q.ExecContext(ctx, `DELETE FROM units WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("deleting unit: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("deleting unit: %w", err)
	}
	return n > 0, nil
}
