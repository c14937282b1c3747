package model

import "time"

// RetentionPeriod is how long a deleted record stays restorable.
const RetentionPeriod = 30 * 24 * time.Hour

// RecycleBinEntry is a snapshot of a deleted unit record.
type RecycleBinEntry struct {
	ID                string    `db:"id" json:"id"`
	UnitID            string    `db:"unit_id" json:"unit_id"`
	ItemName          string    `db:"item_name" json:"item_name"`
	CategoryID        int64     `db:"category_id" json:"category_id"`
	SerialNumber      *string   `db:"serial_number" json:"serial_number,omitempty"`
	NumberPhone       *string   `db:"number_phone" json:"number_phone,omitempty"`
	Quantity          int       `db:"quantity" json:"quantity"`
	TotalQuantity     int       `db:"total_quantity" json:"total_quantity"`
	StatusID          int64     `db:"status_id" json:"status_id"`
	ConditionID       int64     `db:"condition_id" json:"condition_id"`
	DateAdded         time.Time `db:"date_added" json:"date_added"`
	UnitUpdatedAt     time.Time `db:"unit_updated_at" json:"unit_updated_at"`
	DeleteReason      string    `db:"delete_reason" json:"delete_reason"`
	DeletedBy         string    `db:"deleted_by" json:"deleted_by"`
	DeletedAt         time.Time `db:"deleted_at" json:"deleted_at"`
	PermanentDeleteAt time.Time `db:"permanent_delete_at" json:"permanent_delete_at"`
}

// NewRecycleBinEntry snapshots u as deleted at the given time.
func NewRecycleBinEntry(id string, u *Unit, reason, deletedBy string, deletedAt time.Time) *RecycleBinEntry {
	return &RecycleBinEntry{
		ID:                id,
		UnitID:            u.ID,
		ItemName:          u.ItemName,
		CategoryID:        u.CategoryID,
		SerialNumber:      u.SerialNumber,
		NumberPhone:       u.NumberPhone,
		Quantity:          u.Quantity,
		TotalQuantity:     u.TotalQuantity,
		StatusID:          u.StatusID,
		ConditionID:       u.ConditionID,
		DateAdded:         u.DateAdded,
		UnitUpdatedAt:     u.UpdatedAt,
		DeleteReason:      reason,
		DeletedBy:         deletedBy,
		DeletedAt:         deletedAt,
		PermanentDeleteAt: deletedAt.Add(RetentionPeriod),
	}
}

// Unit rebuilds the snapshotted record under a new id.
func (e *RecycleBinEntry) Unit(id string, restoredAt time.Time) *Unit {
	return &Unit{
		ID:            id,
		ItemName:      e.ItemName,
		CategoryID:    e.CategoryID,
		SerialNumber:  e.SerialNumber,
		NumberPhone:   e.NumberPhone,
		Quantity:      e.Quantity,
		TotalQuantity: e.TotalQuantity,
		StatusID:      e.StatusID,
		ConditionID:   e.ConditionID,
		DateAdded:     e.DateAdded,
		UpdatedAt:     restoredAt,
	}
}

// Expired reports whether the entry can no longer be restored.
func (e *RecycleBinEntry) Expired(now time.Time) bool {
	return !now.Before(e.PermanentDeleteAt)
}
