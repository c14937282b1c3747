package model

import "time"

// GroupRow is one display row of the inventory list: every record sharing an
// item name and category folded together.
type GroupRow struct {
	GroupKey
	Quantity       int       `json:"quantity"`
	TotalQuantity  int       `json:"total_quantity"`
	SerialNumbers  []string  `json:"serial_numbers"`
	PhoneNumbers   []string  `json:"phone_numbers"`
	StatusID       int64     `json:"status_id"`
	HasMixedStatus bool      `json:"has_mixed_status"`
	LowStock       bool      `json:"low_stock"`
	DateAdded      time.Time `json:"date_added"`
	Members        []Unit    `json:"members"`
}

// HasTrackedUnits reports whether any member carries a serial or phone number.
func (r *GroupRow) HasTrackedUnits() bool {
	return len(r.SerialNumbers) > 0 || len(r.PhoneNumbers) > 0
}

// GroupFilter narrows the inventory list. Zero values disable a filter.
type GroupFilter struct {
	Search      string `json:"search,omitempty"`
	CategoryID  int64  `json:"category_id,omitempty"`
	StatusID    int64  `json:"status_id,omitempty"`
	ConditionID int64  `json:"condition_id,omitempty"`
	HasSerial   *bool  `json:"has_serial,omitempty"`
	Type        string `json:"type,omitempty" validate:"omitempty,oneof=bulk serial phone"`
	LowStock    bool   `json:"low_stock,omitempty"`
	Threshold   *int   `json:"threshold,omitempty" validate:"omitempty,gte=0"`
}
