package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/erazemk/zaloga/internal/model"
)

// RecordEvent appends an audit event. Pass the operation's transaction so the
// event commits together with the change it describes.
func RecordEvent(ctx context.Context, q sqlx.ExtContext, e *model.StockEvent) error {
	result, err := q.ExecContext(ctx,
		`INSERT INTO stock_events (item_name, category_id, unit_id, action, reason, performed_by, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ItemName, e.CategoryID, e.UnitID, e.Action, e.Reason, e.PerformedBy, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("recording stock event: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting stock event id: %w", err)
	}
	e.ID = id
	return nil
}

// ListEvents returns audit events, newest first, optionally filtered by group.
// An empty item name lists every group.
func ListEvents(ctx context.Context, q sqlx.ExtContext, key model.GroupKey) ([]model.StockEvent, error) {
	query := `SELECT id, item_name, category_id, unit_id, action, reason, performed_by, created_at
	          FROM stock_events
	          WHERE 1=1`
	var args []any

	if key.ItemName != "" {
		query += ` AND item_name = ?`
		args = append(args, key.ItemName)
	}
	if key.CategoryID > 0 {
		query += ` AND category_id = ?`
		args = append(args, key.CategoryID)
	}

	query += ` ORDER BY id DESC`

	var events []model.StockEvent
	if err := sqlx.SelectContext(ctx, q, &events, query, args...); err != nil {
		return nil, fmt.Errorf("listing stock events: %w", err)
	}
	return events, nil
}
