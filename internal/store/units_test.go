package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/erazemk/zaloga/internal/db"
	"github.com/erazemk/zaloga/internal/model"
)

var testTime = time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)

func bulkUnit(name string, category int64, qty int, status, condition int64) *model.Unit {
	return &model.Unit{
		ID:            uuid.NewString(),
		ItemName:      name,
		CategoryID:    category,
		Quantity:      qty,
		TotalQuantity: qty,
		StatusID:      status,
		ConditionID:   condition,
		DateAdded:     testTime,
		UpdatedAt:     testTime,
	}
}

func serialUnit(name string, category int64, serial string) *model.Unit {
	u := bulkUnit(name, category, 1, 1, 1)
	u.SerialNumber = &serial
	return u
}

func TestInsertAndGetUnit(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	u := serialUnit("Laptop", 1, "SN-1")
	if err := InsertUnit(ctx, database, u); err != nil {
		t.Fatalf("InsertUnit: %v", err)
	}

	got, err := GetUnit(ctx, database, u.ID)
	if err != nil {
		t.Fatalf("GetUnit: %v", err)
	}
	if got == nil {
		t.Fatal("expected unit, got nil")
	}
	if got.SerialNumber == nil || *got.SerialNumber != "SN-1" {
		t.Errorf("expected serial SN-1, got %v", got.SerialNumber)
	}
	if got.NumberPhone != nil {
		t.Errorf("expected no phone number, got %q", *got.NumberPhone)
	}
	if !got.DateAdded.Equal(testTime) {
		t.Errorf("expected date added %v, got %v", testTime, got.DateAdded)
	}

	missing, err := GetUnit(ctx, database, uuid.NewString())
	if err != nil {
		t.Fatalf("GetUnit: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for missing unit")
	}
}

func TestInsertUnitRejectsSerialAndPhone(t *testing.T) {
	database := db.NewTestDB(t)

	u := serialUnit("SIM", 4, "SN-1")
	phone := "+16502530000"
	u.NumberPhone = &phone

	if err := InsertUnit(context.Background(), database, u); err == nil {
		t.Error("expected error for a record with both serial and phone")
	}
}

func TestInsertUnitDuplicateSerialIndex(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	InsertUnit(ctx, database, serialUnit("Laptop", 1, "SN-1"))

	if err := InsertUnit(ctx, database, serialUnit("Laptop", 1, "SN-1")); err == nil {
		t.Error("expected unique index violation")
	}

	// The same serial in another group is fine.
	if err := InsertUnit(ctx, database, serialUnit("Monitor", 1, "SN-1")); err != nil {
		t.Errorf("expected serial reuse across groups to succeed, got %v", err)
	}
}

func TestListGroupUnits(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	InsertUnit(ctx, database, bulkUnit("Mouse", 2, 5, 1, 1))
	InsertUnit(ctx, database, serialUnit("Mouse", 2, "M-1"))
	InsertUnit(ctx, database, bulkUnit("Mouse", 1, 3, 1, 1))
	InsertUnit(ctx, database, bulkUnit("Keyboard", 2, 3, 1, 1))

	units, err := ListGroupUnits(ctx, database, model.GroupKey{ItemName: "Mouse", CategoryID: 2})
	if err != nil {
		t.Fatalf("ListGroupUnits: %v", err)
	}
	if len(units) != 2 {
		t.Errorf("expected 2 units, got %d", len(units))
	}

	all, _ := ListUnits(ctx, database)
	if len(all) != 4 {
		t.Errorf("expected 4 units, got %d", len(all))
	}
}

func TestFindBulkUnit(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	key := model.GroupKey{ItemName: "Cable", CategoryID: 3}

	InsertUnit(ctx, database, serialUnit("Cable", 3, "C-1"))
	damaged := bulkUnit("Cable", 3, 4, 1, 2)
	InsertUnit(ctx, database, damaged)

	got, err := FindBulkUnit(ctx, database, key, 1, 2)
	if err != nil {
		t.Fatalf("FindBulkUnit: %v", err)
	}
	if got == nil || got.ID != damaged.ID {
		t.Fatalf("expected damaged bulk record, got %+v", got)
	}

	// The serialized unit has status 1 / condition 1 but is not bulk.
	got, _ = FindBulkUnit(ctx, database, key, 1, 1)
	if got != nil {
		t.Errorf("expected no bulk record for pair 1/1, got %+v", got)
	}
}

func TestFindTrackingKey(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	key := model.GroupKey{ItemName: "Laptop", CategoryID: 1}

	u := serialUnit("Laptop", 1, "SN-100")
	InsertUnit(ctx, database, u)

	other, err := FindTrackingKey(ctx, database, key, model.TrackingSerial, "SN-100", "")
	if err != nil {
		t.Fatalf("FindTrackingKey: %v", err)
	}
	if other == nil || other.ID != u.ID {
		t.Fatalf("expected conflict with %s, got %+v", u.ID, other)
	}

	self, _ := FindTrackingKey(ctx, database, key, model.TrackingSerial, "SN-100", u.ID)
	if self != nil {
		t.Error("expected the excluded unit not to conflict with itself")
	}

	phone, _ := FindTrackingKey(ctx, database, key, model.TrackingPhone, "SN-100", "")
	if phone != nil {
		t.Error("expected serial not to match phone field")
	}

	if _, err := FindTrackingKey(ctx, database, key, "imei", "x", ""); err == nil {
		t.Error("expected error for unknown field")
	}
}

func TestSetUnitQuantityAndDelete(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	u := bulkUnit("Chair", 2, 5, 1, 1)
	InsertUnit(ctx, database, u)

	later := testTime.Add(time.Hour)
	if err := SetUnitQuantity(ctx, database, u.ID, 9, later); err != nil {
		t.Fatalf("SetUnitQuantity: %v", err)
	}
	got, _ := GetUnit(ctx, database, u.ID)
	if got.Quantity != 9 || got.TotalQuantity != 9 {
		t.Errorf("expected quantity 9/9, got %d/%d", got.Quantity, got.TotalQuantity)
	}
	if !got.UpdatedAt.Equal(later) {
		t.Errorf("expected updated at %v, got %v", later, got.UpdatedAt)
	}

	if err := SetUnitQuantity(ctx, database, u.ID, -1, later); err == nil {
		t.Error("expected error for negative quantity")
	}

	removed, err := DeleteUnit(ctx, database, u.ID)
	if err != nil || !removed {
		t.Fatalf("DeleteUnit: removed=%v err=%v", removed, err)
	}
	removed, _ = DeleteUnit(ctx, database, u.ID)
	if removed {
		t.Error("expected second delete to remove nothing")
	}
}

func TestUpdateUnit(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	u := serialUnit("Laptop", 1, "SN-1")
	InsertUnit(ctx, database, u)

	sn := "SN-2"
	u.SerialNumber = &sn
	u.StatusID = 2
	u.ConditionID = 2
	if err := UpdateUnit(ctx, database, u); err != nil {
		t.Fatalf("UpdateUnit: %v", err)
	}

	got, _ := GetUnit(ctx, database, u.ID)
	if *got.SerialNumber != "SN-2" || got.StatusID != 2 || got.ConditionID != 2 {
		t.Errorf("unexpected unit after update: %+v", got)
	}
}
