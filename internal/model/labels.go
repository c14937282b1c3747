package model

// Category groups item types. Units in a phone category are identified by
// phone number rather than serial number.
type Category struct {
	ID      int64  `db:"id" json:"id"`
	Name    string `db:"name" json:"name"`
	IsPhone bool   `db:"is_phone" json:"is_phone"`
}

// Label is a status or condition.
type Label struct {
	ID        int64  `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	IsDefault bool   `db:"is_default" json:"is_default"`
}

// Label dimensions.
const (
	DimensionStatus    = "status"
	DimensionCondition = "condition"
)
