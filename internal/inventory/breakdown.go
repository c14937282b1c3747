package inventory

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/erazemk/zaloga/internal/model"
	"github.com/erazemk/zaloga/internal/store"
)

// GetBreakdown returns the status, condition and tracking-type view of one
// group. Concurrent calls for the same group share one read; the result is
// shared between those callers and must not be modified.
func (s *Service) GetBreakdown(ctx context.Context, itemName string, categoryID int64) (*model.Breakdown, error) {
	key := groupKey(itemName, categoryID)

	// The shared read outlives any one caller; each caller waits on its own ctx.
	shared := context.WithoutCancel(ctx)
	ch := s.reads.DoChan(fmt.Sprintf("%d/%s", key.CategoryID, key.ItemName), func() (any, error) {
		return readBreakdown(shared, s.db, key)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*model.Breakdown), nil
	}
}

func readBreakdown(ctx context.Context, q sqlx.ExtContext, key model.GroupKey) (*model.Breakdown, error) {
	units, err := store.ListGroupUnits(ctx, q, key)
	if err != nil {
		return nil, err
	}
	holdings, err := store.ListGroupHoldings(ctx, q, key)
	if err != nil {
		return nil, err
	}
	return summarize(key, units, holdings), nil
}

func summarize(key model.GroupKey, units []model.Unit, holdings []model.Holding) *model.Breakdown {
	b := model.NewBreakdown(key)

	for i := range units {
		u := &units[i]
		n := u.Count()

		b.ByStatus[u.StatusID] += n
		b.ByCondition[u.ConditionID] += n
		b.CurrentStats.TotalQuantity += n

		switch u.TrackingType() {
		case model.TrackingSerial:
			b.ByTrackingType.WithSN += n
		case model.TrackingPhone:
			b.ByTrackingType.WithPhone += n
		default:
			b.ByTrackingType.WithoutSN += n
			b.BulkByStatus[u.StatusID] += n
			b.BulkByCondition[u.ConditionID] += n
		}
	}

	for _, h := range holdings {
		b.CurrentStats.UserOwnedQuantity += h.Quantity
		if h.PendingReturn {
			b.CurrentStats.PendingReturnQuantity += h.Quantity
		}
	}
	b.CurrentStats.AvailableQuantity = b.CurrentStats.TotalQuantity - b.CurrentStats.UserOwnedQuantity

	return b
}
