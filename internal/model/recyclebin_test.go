package model

import (
	"testing"
	"time"
)

func TestRecycleBinEntryRetention(t *testing.T) {
	deletedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	sn := "SN-9"
	u := &Unit{ID: "u1", ItemName: "Laptop", CategoryID: 1, SerialNumber: &sn, Quantity: 1, TotalQuantity: 1, StatusID: 2, ConditionID: 1}

	e := NewRecycleBinEntry("e1", u, "broken", "admin", deletedAt)

	want := deletedAt.Add(30 * 24 * time.Hour)
	if !e.PermanentDeleteAt.Equal(want) {
		t.Errorf("expected permanent delete at %v, got %v", want, e.PermanentDeleteAt)
	}
	if e.Expired(want.Add(-time.Second)) {
		t.Error("expected entry to be restorable just before the deadline")
	}
	if !e.Expired(want) {
		t.Error("expected entry to expire at the deadline")
	}

	restored := e.Unit("u2", want)
	if restored.ID != "u2" || restored.ItemName != u.ItemName || *restored.SerialNumber != sn ||
		restored.StatusID != u.StatusID || restored.ConditionID != u.ConditionID {
		t.Errorf("restored unit does not match snapshot: %+v", restored)
	}
}
