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

const recycleBinColumns = `id, unit_id, item_name, category_id, serial_number, number_phone,
	quantity, total_quantity, status_id, condition_id, date_added, unit_updated_at,
	delete_reason, deleted_by, deleted_at, permanent_delete_at`

// InsertRecycleBinEntry stores a snapshot of a deleted unit.
func InsertRecycleBinEntry(ctx context.Context, q sqlx.ExtContext, e *model.RecycleBinEntry) error {
	_, err := sqlx.NamedExecContext(ctx, q,
		`INSERT INTO recycle_bin (`+recycleBinColumns+`) VALUES (
		    :id, :unit_id, :item_name, :category_id, :serial_number, :number_phone,
		    :quantity, :total_quantity, :status_id, :condition_id, :date_added, :unit_updated_at,
		    :delete_reason, :deleted_by, :deleted_at, :permanent_delete_at)`,
		e,
	)
	if err != nil {
		return fmt.Errorf("inserting recycle bin entry: %w", err)
	}
	return nil
}

// GetRecycleBinEntry returns an entry by ID.
func GetRecycleBinEntry(ctx context.Context, q sqlx.ExtContext, id string) (*model.RecycleBinEntry, error) {
	e := &model.RecycleBinEntry{}
	err := sqlx.GetContext(ctx, q, e, `SELECT `+recycleBinColumns+` FROM recycle_bin WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting recycle bin entry: %w", err)
	}
	return e, nil
}

// ListRecycleBin returns all entries, most recently deleted first.
func ListRecycleBin(ctx context.Context, q sqlx.ExtContext) ([]model.RecycleBinEntry, error) {
	var entries []model.RecycleBinEntry
	err := sqlx.SelectContext(ctx, q, &entries,
		`SELECT `+recycleBinColumns+` FROM recycle_bin ORDER BY deleted_at DESC, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing recycle bin: %w", err)
	}
	return entries, nil
}

// DeleteRecycleBinEntry removes an entry. It reports whether a row was removed.
func DeleteRecycleBinEntry(ctx context.Context, q sqlx.ExtContext, id string) (bool, error) {
	result, err := q.ExecContext(ctx, `DELETE FROM recycle_bin WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("deleting recycle bin entry: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("deleting recycle bin entry: %w", err)
	}
	return n > 0, nil
}

// PurgeRecycleBin permanently removes entries whose retention has ended and
// returns how many were removed. Expiry is compared in Go because stored
// timestamps are not guaranteed to sort lexically.
func PurgeRecycleBin(ctx context.Context, db *sqlx.DB, now time.Time) (int, error) {
	entries, err := ListRecycleBin(ctx, db)
	if err != nil {
		return 0, err
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	purged := 0
	for i := range entries {
		if !entries[i].Expired(now) {
			continue
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM recycle_bin WHERE id = ?`, entries[i].ID); err != nil {
			return 0, fmt.Errorf("purging recycle bin entry: %w", err)
		}
		purged++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing purge: %w", err)
	}
	return purged, nil
}
