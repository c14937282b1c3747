package model

import "time"

// StockEvent is an audit record of one write to a group.
type StockEvent struct {
	ID          int64     `db:"id" json:"id"`
	ItemName    string    `db:"item_name" json:"item_name"`
	CategoryID  int64     `db:"category_id" json:"category_id"`
	UnitID      *string   `db:"unit_id" json:"unit_id,omitempty"`
	Action      string    `db:"action" json:"action"`
	Reason      string    `db:"reason" json:"reason"`
	PerformedBy string    `db:"performed_by" json:"performed_by"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Stock event actions.
const (
	ActionCreate      = "create"
	ActionAdjust      = "adjust"
	ActionTransfer    = "transfer"
	ActionEdit        = "edit"
	ActionDelete      = "delete"
	ActionDeleteGroup = "delete_group"
	ActionRestore     = "restore"
)
