package inventory

import (
	"context"
	"errors"
	"testing"

	"github.com/erazemk/zaloga/internal/model"
)

func TestApply(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	addBulk(t, s, "Chair", 5, statusAvailable, condWorking)
	u := addSerial(t, s, "Chair", "CH-1")

	ops := []Operation{
		AdjustRequest{ItemName: "Chair", CategoryID: catComputers, Target: 6},
		TransferRequest{ItemName: "Chair", CategoryID: catComputers, Moves: []Move{
			{Dimension: model.DimensionStatus, SourceID: statusAvailable, TargetID: statusRetired, Quantity: 1},
		}},
		EditUnitRequest{UnitID: u.ID, StatusID: ptr(statusInUse)},
		DeleteUnitRequest{UnitID: u.ID, Reason: "broken"},
	}

	var entryID string
	for _, op := range ops {
		res, err := s.Apply(ctx, op)
		if err != nil {
			t.Fatalf("Apply(%s): %v", op.Kind(), err)
		}
		if res == nil {
			t.Fatalf("Apply(%s): nil result", op.Kind())
		}
		if d, ok := res.(*DeleteResult); ok {
			entryID = d.EntryID
		}
		checkSums(t, s, "Chair", catComputers)
	}

	res, err := s.Apply(ctx, RestoreRequest{EntryID: entryID})
	if err != nil {
		t.Fatalf("Apply(restore): %v", err)
	}
	restored, ok := res.(*model.Unit)
	if !ok || restored.TrackingKey() != "CH-1" {
		t.Errorf("expected restored CH-1, got %#v", res)
	}

	b := checkSums(t, s, "Chair", catComputers)
	if b.CurrentStats.TotalQuantity != 7 || b.ByStatus[statusRetired] != 1 || b.ByStatus[statusInUse] != 1 {
		t.Errorf("unexpected breakdown: %+v", b)
	}
}

func TestApplyErrors(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	res, err := s.Apply(ctx, AdjustRequest{ItemName: "Chair", CategoryID: catComputers, Target: -1})
	if !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("expected ErrInvalidQuantity, got %v", err)
	}
	if res != nil {
		t.Errorf("expected nil result, got %#v", res)
	}

	if _, err := s.Apply(ctx, nil); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("expected ErrInvalidRequest for nil operation, got %v", err)
	}
}
