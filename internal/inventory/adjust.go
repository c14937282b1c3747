package inventory

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/erazemk/zaloga/internal/model"
	"github.com/erazemk/zaloga/internal/store"
)

// Adjustment bases.
const (
	BasisBulk  = "bulk"
	BasisTotal = "total"
)

// AdjustRequest sets the untracked count of a group.
type AdjustRequest struct {
	ItemName   string `json:"item_name" validate:"required"`
	CategoryID int64  `json:"category_id" validate:"gt=0"`
	// Target is the new bulk count, or with Basis "total" the new group total.
	Target int    `json:"target_quantity"`
	Basis  string `json:"basis,omitempty" validate:"omitempty,oneof=bulk total"`
	Reason string `json:"reason,omitempty"`
	Actor  string `json:"-"`
}

// AdjustResult reports the bulk count before and after an adjustment.
type AdjustResult struct {
	Previous int    `json:"previous"`
	New      int    `json:"new"`
	Reason   string `json:"reason"`
	Changed  bool   `json:"changed"`
}

// AdjustBulkStock sets the bulk count of a group. Tracked units are never
// touched; a total below the tracked count is rejected with a
// *BelowTrackedError.
func (s *Service) AdjustBulkStock(ctx context.Context, req AdjustRequest) (*AdjustResult, error) {
	if req.Target < 0 {
		return nil, fmt.Errorf("%w: target %d is negative", ErrInvalidQuantity, req.Target)
	}
	if err := s.check(req); err != nil {
		return nil, err
	}
	key := groupKey(req.ItemName, req.CategoryID)

	var result *AdjustResult
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		units, err := store.ListGroupUnits(ctx, tx, key)
		if err != nil {
			return err
		}
		if len(units) == 0 {
			return fmt.Errorf("%w: %s", ErrGroupNotFound, key.ItemName)
		}

		var bulk []model.Unit
		current, tracked := 0, 0
		for _, u := range units {
			if u.IsTracked() {
				tracked++
				continue
			}
			bulk = append(bulk, u)
			current += u.TotalQuantity
		}

		target := req.Target
		if req.Basis == BasisTotal {
			target = req.Target - tracked
			if target < 0 {
				return &BelowTrackedError{
					ItemsToRemove:  current + tracked - req.Target,
					ItemsWithoutSN: current,
					ItemsWithSN:    tracked,
				}
			}
		}

		result = &AdjustResult{Previous: current, New: target}
		if target == current {
			return nil
		}

		now := s.Now()
		if target > current {
			err = s.increaseBulk(ctx, tx, key, target-current, now)
		} else {
			err = s.decreaseBulk(ctx, tx, key, bulk, current-target, tracked == 0 && target == 0, now)
		}
		if err != nil {
			return err
		}

		result.Changed = true
		result.Reason = withOperatorReason(
			fmt.Sprintf("bulk stock of %s adjusted from %d to %d", key.ItemName, current, target),
			req.Reason)
		return s.record(ctx, tx, key, "", model.ActionAdjust, result.Reason, actorOrSystem(req.Actor))
	})
	if err != nil {
		return nil, err
	}

	if result.Changed {
		slog.Info("stock adjusted", "user", actorOrSystem(req.Actor), "item", key.ItemName,
			"category", key.CategoryID, "previous", result.Previous, "new", result.New)
	}
	return result, nil
}

// increaseBulk adds n units to the bulk record with the default status and
// condition, creating it if needed.
func (s *Service) increaseBulk(ctx context.Context, tx *sqlx.Tx, key model.GroupKey, n int, now time.Time) error {
	status, err := store.DefaultLabel(ctx, tx, model.DimensionStatus)
	if err != nil {
		return err
	}
	condition, err := store.DefaultLabel(ctx, tx, model.DimensionCondition)
	if err != nil {
		return err
	}
	if status == nil || condition == nil {
		return fmt.Errorf("adjusting stock: no default status or condition configured")
	}

	_, err = s.addBulk(ctx, tx, key, status.ID, condition.ID, n, now)
	return err
}

// addBulk adds n units to the bulk record with the given pair and returns
// its ID.
func (s *Service) addBulk(ctx context.Context, tx *sqlx.Tx, key model.GroupKey, statusID, conditionID int64, n int, now time.Time) (string, error) {
	rec, err := store.FindBulkUnit(ctx, tx, key, statusID, conditionID)
	if err != nil {
		return "", err
	}
	if rec != nil {
		return rec.ID, store.SetUnitQuantity(ctx, tx, rec.ID, rec.TotalQuantity+n, now)
	}

	id := s.NewID()
	err = store.InsertUnit(ctx, tx, &model.Unit{
		ID:            id,
		ItemName:      key.ItemName,
		CategoryID:    key.CategoryID,
		Quantity:      n,
		TotalQuantity: n,
		StatusID:      statusID,
		ConditionID:   conditionID,
		DateAdded:     now,
		UpdatedAt:     now,
	})
	return id, err
}

// decreaseBulk removes n unheld units from the bulk records, default status
// first and then oldest first. Held units are never removed. With keepOne the
// first record drained to zero is kept so the group stays listed.
func (s *Service) decreaseBulk(ctx context.Context, tx *sqlx.Tx, key model.GroupKey, bulk []model.Unit, n int, keepOne bool, now time.Time) error {
	held, err := store.HeldByUnit(ctx, tx, key)
	if err != nil {
		return err
	}
	free := 0
	for _, u := range bulk {
		free += u.TotalQuantity - held[u.ID]
	}
	if n > free {
		return fmt.Errorf("%w: %d units are held, only %d of %d can be removed",
			ErrInvalidQuantity, sumHeld(bulk, held), free, n)
	}

	status, err := store.DefaultLabel(ctx, tx, model.DimensionStatus)
	if err != nil {
		return err
	}
	var defaultStatus int64
	if status != nil {
		defaultStatus = status.ID
	}

	sort.SliceStable(bulk, func(i, j int) bool {
		return bulk[i].StatusID == defaultStatus && bulk[j].StatusID != defaultStatus
	})

	kept := false
	for i := range bulk {
		if n == 0 {
			break
		}
		rec := &bulk[i]
		take := min(n, rec.TotalQuantity-held[rec.ID])
		if take == 0 {
			continue
		}
		n -= take

		left := rec.TotalQuantity - take
		if left == 0 && !(keepOne && !kept) {
			if _, err := store.DeleteUnit(ctx, tx, rec.ID); err != nil {
				return err
			}
			continue
		}
		kept = kept || left == 0
		if err := store.SetUnitQuantity(ctx, tx, rec.ID, left, now); err != nil {
			return err
		}
	}

	if n > 0 {
		return fmt.Errorf("adjusting stock: %d units left to remove", n)
	}
	return nil
}

func sumHeld(bulk []model.Unit, held map[string]int) int {
	total := 0
	for _, u := range bulk {
		total += held[u.ID]
	}
	return total
}
