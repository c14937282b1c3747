package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/erazemk/zaloga/internal/model"
)

// Holdings are written by the request/return workflow. This service only
// reads them when computing ownership statistics.

// CreateHolder creates a new holder (person or location).
func CreateHolder(ctx context.Context, db *sqlx.DB, name, holderType string) (*model.Holder, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO holders (name, type) VALUES (?, ?)`,
		name, holderType,
	)
	if err != nil {
		return nil, fmt.Errorf("creating holder: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting holder id: %w", err)
	}

	return GetHolder(ctx, db, id)
}

// GetHolder returns a holder by ID.
func GetHolder(ctx context.Context, db *sqlx.DB, id int64) (*model.Holder, error) {
	h := &model.Holder{}
	err := db.GetContext(ctx, h, `SELECT id, name, type, created_at FROM holders WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting holder: %w", err)
	}
	return h, nil
}

// ListHolders returns all holders, optionally filtered by type.
func ListHolders(ctx context.Context, db *sqlx.DB, holderType string) ([]model.Holder, error) {
	query := `SELECT id, name, type, created_at FROM holders`
	var args []any
	if holderType != "" {
		query += ` WHERE type = ?`
		args = append(args, holderType)
	}
	query += ` ORDER BY name`

	var holders []model.Holder
	if err := db.SelectContext(ctx, &holders, query, args...); err != nil {
		return nil, fmt.Errorf("listing holders: %w", err)
	}
	return holders, nil
}

// SetHolding records that a holder has quantity units of a record. A quantity
// of zero removes the holding.
func SetHolding(ctx context.Context, db *sqlx.DB, unitID string, holderID int64, quantity int, pendingReturn bool) error {
	if quantity < 0 {
		return fmt.Errorf("quantity must not be negative")
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	// The holding may not exceed what the record stands for.
	var count int
	err = tx.QueryRowContext(ctx,
		`SELECT CASE WHEN serial_number IS NULL AND number_phone IS NULL THEN total_quantity ELSE 1 END
		 FROM units WHERE id = ?`, unitID,
	).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("unit not found")
	}
	if err != nil {
		return fmt.Errorf("checking unit: %w", err)
	}

	var heldElsewhere int
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(quantity), 0) FROM holdings WHERE unit_id = ? AND holder_id != ?`,
		unitID, holderID,
	).Scan(&heldElsewhere)
	if err != nil {
		return fmt.Errorf("checking holdings: %w", err)
	}
	if heldElsewhere+quantity > count {
		return fmt.Errorf("holding would exceed unit quantity: %d held elsewhere, %d requested, %d available",
			heldElsewhere, quantity, count)
	}

	if quantity == 0 {
		_, err = tx.ExecContext(ctx,
			`DELETE FROM holdings WHERE unit_id = ? AND holder_id = ?`,
			unitID, holderID,
		)
	} else {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO holdings (unit_id, holder_id, quantity, pending_return) VALUES (?, ?, ?, ?)
			 ON CONFLICT (unit_id, holder_id) DO UPDATE SET quantity = excluded.quantity, pending_return = excluded.pending_return`,
			unitID, holderID, quantity, pendingReturn,
		)
	}
	if err != nil {
		return fmt.Errorf("setting holding: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing holding: %w", err)
	}
	return nil
}

// ListGroupHoldings returns every holding of the group's records.
func ListGroupHoldings(ctx context.Context, q sqlx.ExtContext, key model.GroupKey) ([]model.Holding, error) {
	var holdings []model.Holding
	err := sqlx.SelectContext(ctx, q, &holdings,
		`SELECT h.unit_id, h.holder_id, h.quantity, h.pending_return, o.name AS holder_name
		 FROM holdings h
		 JOIN units u ON u.id = h.unit_id
		 JOIN holders o ON o.id = h.holder_id
		 WHERE u.item_name = ? AND u.category_id = ?
		 ORDER BY o.name`,
		key.ItemName, key.CategoryID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing group holdings: %w", err)
	}
	return holdings, nil
}

// HeldByUnit sums the holdings of the group's records by unit ID.
func HeldByUnit(ctx context.Context, q sqlx.ExtContext, key model.GroupKey) (map[string]int, error) {
	holdings, err := ListGroupHoldings(ctx, q, key)
	if err != nil {
		return nil, err
	}
	held := make(map[string]int, len(holdings))
	for _, h := range holdings {
		held[h.UnitID] += h.Quantity
	}
	return held, nil
}

// ListUnitHoldings returns the holdings of one record, ordered by holder.
func ListUnitHoldings(ctx context.Context, q sqlx.ExtContext, unitID string) ([]model.Holding, error) {
	var holdings []model.Holding
	err := sqlx.SelectContext(ctx, q, &holdings,
		`SELECT unit_id, holder_id, quantity, pending_return FROM holdings
		 WHERE unit_id = ? ORDER BY holder_id`,
		unitID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing unit holdings: %w", err)
	}
	return holdings, nil
}

// ShiftHolding moves n held units of h to the record toUnit, merging with a
// holding the holder already has there.
func ShiftHolding(ctx context.Context, q sqlx.ExtContext, h model.Holding, toUnit string, n int) error {
	if n <= 0 || n > h.Quantity {
		return fmt.Errorf("shifting holding: %d of %d held units", n, h.Quantity)
	}

	var err error
	if n == h.Quantity {
		_, err = q.ExecContext(ctx,
			`DELETE FROM holdings WHERE unit_id = ? AND holder_id = ?`,
			h.UnitID, h.HolderID,
		)
	} else {
		_, err = q.ExecContext(ctx,
			`UPDATE holdings SET quantity = quantity - ? WHERE unit_id = ? AND holder_id = ?`,
			n, h.UnitID, h.HolderID,
		)
	}
	if err != nil {
		return fmt.Errorf("releasing holding: %w", err)
	}

	_, err = q.ExecContext(ctx,
		`INSERT INTO holdings (unit_id, holder_id, quantity, pending_return) VALUES (?, ?, ?, ?)
		 ON CONFLICT (unit_id, holder_id) DO UPDATE SET
		   quantity = holdings.quantity + excluded.quantity,
		   pending_return = MAX(holdings.pending_return, excluded.pending_return)`,
		toUnit, h.HolderID, n, h.PendingReturn,
	)
	if err != nil {
		return fmt.Errorf("moving holding: %w", err)
	}
	return nil
}
