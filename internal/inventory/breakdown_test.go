package inventory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/erazemk/zaloga/internal/db"
	"github.com/erazemk/zaloga/internal/model"
	"github.com/erazemk/zaloga/internal/store"
)

func TestGetBreakdownEmptyGroup(t *testing.T) {
	s, _ := newTestService(t)

	b := breakdown(t, s, "Nothing", catComputers)
	if b.CurrentStats.TotalQuantity != 0 || len(b.ByStatus) != 0 || b.ByTrackingType.Total() != 0 {
		t.Errorf("expected empty breakdown, got %+v", b)
	}
}

func TestGetBreakdown(t *testing.T) {
	s, database := newTestService(t)
	ctx := context.Background()

	bulk := addBulk(t, s, "Laptop", 6, statusAvailable, condWorking)
	addBulk(t, s, "Laptop", 2, statusInUse, condDamaged)
	sn1 := addSerial(t, s, "Laptop", "SN-1")
	addSerial(t, s, "Laptop", "SN-2")
	addSerial(t, s, "Monitor", "SN-9")

	holder, err := store.CreateHolder(ctx, database, "Ana", model.HolderTypePerson)
	if err != nil {
		t.Fatalf("CreateHolder: %v", err)
	}
	if err := store.SetHolding(ctx, database, sn1.ID, holder.ID, 1, false); err != nil {
		t.Fatalf("SetHolding: %v", err)
	}
	if err := store.SetHolding(ctx, database, bulk.ID, holder.ID, 2, true); err != nil {
		t.Fatalf("SetHolding: %v", err)
	}

	b := checkSums(t, s, "Laptop", catComputers)

	if b.CurrentStats.TotalQuantity != 10 {
		t.Errorf("expected total 10, got %d", b.CurrentStats.TotalQuantity)
	}
	if b.ByStatus[statusAvailable] != 8 || b.ByStatus[statusInUse] != 2 {
		t.Errorf("unexpected status counts: %v", b.ByStatus)
	}
	if b.BulkByStatus[statusAvailable] != 6 || b.BulkByCondition[condDamaged] != 2 {
		t.Errorf("unexpected bulk counts: %v %v", b.BulkByStatus, b.BulkByCondition)
	}
	want := model.TrackingCounts{WithoutSN: 8, WithSN: 2}
	if b.ByTrackingType != want {
		t.Errorf("expected %+v, got %+v", want, b.ByTrackingType)
	}

	stats := b.CurrentStats
	if stats.UserOwnedQuantity != 3 || stats.PendingReturnQuantity != 2 || stats.AvailableQuantity != 7 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestGetBreakdownPhoneUnits(t *testing.T) {
	s, _ := newTestService(t)

	for _, n := range []string{"+16502530000", "+16502530001"} {
		if _, err := s.CreateUnit(context.Background(), CreateUnitRequest{ItemName: "SIM", CategoryID: catSIM, NumberPhone: n}); err != nil {
			t.Fatalf("CreateUnit: %v", err)
		}
	}

	b := checkSums(t, s, "SIM", catSIM)
	if b.ByTrackingType.WithPhone != 2 {
		t.Errorf("expected 2 phone units, got %+v", b.ByTrackingType)
	}
	if len(b.BulkByStatus) != 0 {
		t.Errorf("expected no bulk counts, got %v", b.BulkByStatus)
	}
}

func TestGetBreakdownConcurrent(t *testing.T) {
	s, _ := newTestService(t)
	addBulk(t, s, "Laptop", 4, statusAvailable, condWorking)
	addSerial(t, s, "Laptop", "SN-1")

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	totals := make(chan int, 20)
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b, err := s.GetBreakdown(context.Background(), "Laptop", catComputers)
			if err != nil {
				errs <- err
				return
			}
			totals <- b.CurrentStats.TotalQuantity
		}()
	}
	wg.Wait()
	close(errs)
	close(totals)

	for err := range errs {
		t.Errorf("GetBreakdown: %v", err)
	}
	for total := range totals {
		if total != 5 {
			t.Errorf("expected total 5, got %d", total)
		}
	}
}

func TestGetBreakdownCancelledCallerDoesNotFailOthers(t *testing.T) {
	s, database := newTestService(t)
	addBulk(t, s, "Desk", 4, statusAvailable, condWorking)

	// Hold the only connection so the shared read has to wait.
	tx, err := database.Beginx()
	if err != nil {
		t.Fatalf("Beginx: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancelled := make(chan error, 1)
	go func() {
		_, err := s.GetBreakdown(ctx, "Desk", catComputers)
		cancelled <- err
	}()

	type result struct {
		b   *model.Breakdown
		err error
	}
	waiting := make(chan result, 1)
	go func() {
		b, err := s.GetBreakdown(context.Background(), "Desk", catComputers)
		waiting <- result{b, err}
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()
	if err := <-cancelled; !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}

	tx.Rollback()
	res := <-waiting
	if res.err != nil {
		t.Fatalf("GetBreakdown: %v", res.err)
	}
	if res.b.CurrentStats.TotalQuantity != 4 {
		t.Errorf("expected total 4, got %d", res.b.CurrentStats.TotalQuantity)
	}
}

func TestNewDefaultsLowStockThreshold(t *testing.T) {
	database := db.NewTestDB(t)

	for _, threshold := range []int{0, -1} {
		s := New(database, Config{LowStockThreshold: threshold})
		if s.cfg.LowStockThreshold != DefaultLowStockThreshold {
			t.Errorf("threshold %d: expected default %d, got %d", threshold, DefaultLowStockThreshold, s.cfg.LowStockThreshold)
		}
	}
	if s := New(database, Config{LowStockThreshold: 5}); s.cfg.LowStockThreshold != 5 {
		t.Errorf("expected explicit threshold 5, got %d", s.cfg.LowStockThreshold)
	}
}
