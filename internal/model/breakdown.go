package model

// TrackingCounts splits a group total by how units are identified.
type TrackingCounts struct {
	WithoutSN int `json:"without_sn"`
	WithSN    int `json:"with_sn"`
	WithPhone int `json:"with_phone"`
}

// Total returns the sum of all tracking types.
func (c TrackingCounts) Total() int {
	return c.WithoutSN + c.WithSN + c.WithPhone
}

// CurrentStats summarises ownership of a group.
type CurrentStats struct {
	TotalQuantity         int `json:"total_quantity"`
	AvailableQuantity     int `json:"available_quantity"`
	UserOwnedQuantity     int `json:"user_owned_quantity"`
	PendingReturnQuantity int `json:"pending_return_quantity"`
}

// Breakdown is the per-status, per-condition and per-tracking-type view of
// one group. ByStatus and ByCondition each sum to CurrentStats.TotalQuantity.
type Breakdown struct {
	GroupKey
	ByStatus        map[int64]int  `json:"by_status"`
	ByCondition     map[int64]int  `json:"by_condition"`
	BulkByStatus    map[int64]int  `json:"bulk_by_status"`
	BulkByCondition map[int64]int  `json:"bulk_by_condition"`
	ByTrackingType  TrackingCounts `json:"by_tracking_type"`
	CurrentStats    CurrentStats   `json:"current_stats"`
}

// NewBreakdown returns an empty breakdown for the group.
func NewBreakdown(key GroupKey) *Breakdown {
	return &Breakdown{
		GroupKey:        key,
		ByStatus:        map[int64]int{},
		ByCondition:     map[int64]int{},
		BulkByStatus:    map[int64]int{},
		BulkByCondition: map[int64]int{},
	}
}
