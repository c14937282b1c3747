package model

import "time"

// Holder is a person or location that can hold units.
type Holder struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Type      string    `db:"type" json:"type"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Holder types.
const (
	HolderTypePerson   = "person"
	HolderTypeLocation = "location"
)

// Holding records how many units of a record a holder currently has.
type Holding struct {
	UnitID        string `db:"unit_id" json:"unit_id"`
	HolderID      int64  `db:"holder_id" json:"holder_id"`
	Quantity      int    `db:"quantity" json:"quantity"`
	PendingReturn bool   `db:"pending_return" json:"pending_return"`

	// Joined fields (not always populated).
	HolderName string `db:"holder_name" json:"holder_name,omitempty"`
}
