package model

import "time"

// Unit is a single inventory record. A record with a serial number or phone
// number is one tracked unit; a record with neither is a bulk count of
// interchangeable units sharing one status and condition.
type Unit struct {
	ID            string    `db:"id" json:"id"`
	ItemName      string    `db:"item_name" json:"item_name"`
	CategoryID    int64     `db:"category_id" json:"category_id"`
	SerialNumber  *string   `db:"serial_number" json:"serial_number,omitempty"`
	NumberPhone   *string   `db:"number_phone" json:"number_phone,omitempty"`
	Quantity      int       `db:"quantity" json:"quantity"`
	TotalQuantity int       `db:"total_quantity" json:"total_quantity"`
	StatusID      int64     `db:"status_id" json:"status_id"`
	ConditionID   int64     `db:"condition_id" json:"condition_id"`
	DateAdded     time.Time `db:"date_added" json:"date_added"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// Tracking types.
const (
	TrackingBulk   = "bulk"
	TrackingSerial = "serial"
	TrackingPhone  = "phone"
)

// TrackingType reports how the unit is identified.
func (u *Unit) TrackingType() string {
	switch {
	case u.SerialNumber != nil:
		return TrackingSerial
	case u.NumberPhone != nil:
		return TrackingPhone
	default:
		return TrackingBulk
	}
}

// IsTracked reports whether the unit carries a serial or phone number.
func (u *Unit) IsTracked() bool {
	return u.SerialNumber != nil || u.NumberPhone != nil
}

// TrackingKey returns the serial or phone number, or "" for bulk records.
func (u *Unit) TrackingKey() string {
	switch {
	case u.SerialNumber != nil:
		return *u.SerialNumber
	case u.NumberPhone != nil:
		return *u.NumberPhone
	default:
		return ""
	}
}

// Count is the number of physical units the record stands for.
func (u *Unit) Count() int {
	if u.IsTracked() {
		return 1
	}
	return u.TotalQuantity
}

// Key returns the group the unit belongs to.
func (u *Unit) Key() GroupKey {
	return GroupKey{ItemName: u.ItemName, CategoryID: u.CategoryID}
}

// GroupKey identifies a group of records sharing item name and category.
type GroupKey struct {
	ItemName   string `json:"item_name"`
	CategoryID int64  `json:"category_id"`
}
