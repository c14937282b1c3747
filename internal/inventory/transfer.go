package inventory

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/erazemk/zaloga/internal/model"
	"github.com/erazemk/zaloga/internal/store"
)

// Move relabels bulk units along one dimension.
type Move struct {
	Dimension string `json:"dimension" validate:"oneof=status condition"`
	SourceID  int64  `json:"source_id" validate:"gt=0"`
	TargetID  int64  `json:"target_id" validate:"gt=0"`
	Quantity  int    `json:"quantity"`
}

// TransferRequest moves bulk units between statuses and/or conditions. At
// most one move per dimension; all moves apply together or not at all.
type TransferRequest struct {
	ItemName   string `json:"item_name" validate:"required"`
	CategoryID int64  `json:"category_id" validate:"gt=0"`
	Moves      []Move `json:"moves" validate:"min=1,max=2,dive"`
	Reason     string `json:"reason,omitempty"`
	Actor      string `json:"-"`
}

// TransferResult describes an applied transfer.
type TransferResult struct {
	Moves  []Move `json:"moves"`
	Reason string `json:"reason"`
}

// Transfer moves bulk units of a group between status or condition labels.
// The group total never changes.
func (s *Service) Transfer(ctx context.Context, req TransferRequest) (*TransferResult, error) {
	for _, m := range req.Moves {
		if m.Quantity <= 0 {
			return nil, fmt.Errorf("%w: transfer quantity %d must be positive", ErrInvalidQuantity, m.Quantity)
		}
	}
	if err := s.check(req); err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	for _, m := range req.Moves {
		if seen[m.Dimension] {
			return nil, invalidRequest("more than one %s move", m.Dimension)
		}
		seen[m.Dimension] = true
		if m.SourceID == m.TargetID {
			return nil, invalidRequest("%s source and target are both %d", m.Dimension, m.SourceID)
		}
	}

	key := groupKey(req.ItemName, req.CategoryID)
	var reason string

	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		units, err := store.ListGroupUnits(ctx, tx, key)
		if err != nil {
			return err
		}
		if len(units) == 0 {
			return fmt.Errorf("%w: %s", ErrGroupNotFound, key.ItemName)
		}
		b := summarize(key, units, nil)

		for _, m := range req.Moves {
			if _, err := requireLabel(ctx, tx, m.Dimension, m.SourceID); err != nil {
				return err
			}
			if _, err := requireLabel(ctx, tx, m.Dimension, m.TargetID); err != nil {
				return err
			}

			available := b.BulkByStatus[m.SourceID]
			if m.Dimension == model.DimensionCondition {
				available = b.BulkByCondition[m.SourceID]
			}
			if m.Quantity > available {
				return &InsufficientQuantityError{
					Dimension: m.Dimension,
					SourceID:  m.SourceID,
					Available: available,
					Requested: m.Quantity,
				}
			}
		}

		var parts []string
		for _, m := range req.Moves {
			if err := s.applyMove(ctx, tx, key, m); err != nil {
				return err
			}
			parts = append(parts, fmt.Sprintf("moved %d of %s from %s %s to %s",
				m.Quantity, key.ItemName, m.Dimension,
				labelName(ctx, tx, m.Dimension, m.SourceID),
				labelName(ctx, tx, m.Dimension, m.TargetID)))
		}

		reason = withOperatorReason(strings.Join(parts, "; "), req.Reason)
		return s.record(ctx, tx, key, "", model.ActionTransfer, reason, actorOrSystem(req.Actor))
	})
	if err != nil {
		return nil, err
	}

	slog.Info("stock transferred", "user", actorOrSystem(req.Actor), "item", key.ItemName,
		"category", key.CategoryID, "reason", reason)
	return &TransferResult{Moves: req.Moves, Reason: reason}, nil
}

// applyMove drains bulk records carrying the source label, oldest first, into
// the records with the target label. Unheld units move first; held units that
// have to move take their holdings along.
func (s *Service) applyMove(ctx context.Context, tx *sqlx.Tx, key model.GroupKey, m Move) error {
	units, err := store.ListGroupUnits(ctx, tx, key)
	if err != nil {
		return err
	}
	held, err := store.HeldByUnit(ctx, tx, key)
	if err != nil {
		return err
	}
	now := s.Now()
	left := m.Quantity

	for _, u := range units {
		if left == 0 {
			break
		}
		if u.IsTracked() || u.TotalQuantity == 0 {
			continue
		}

		statusID, conditionID := u.StatusID, u.ConditionID
		switch m.Dimension {
		case model.DimensionStatus:
			if statusID != m.SourceID {
				continue
			}
			statusID = m.TargetID
		case model.DimensionCondition:
			if conditionID != m.SourceID {
				continue
			}
			conditionID = m.TargetID
		}

		chunk := min(left, u.TotalQuantity)
		left -= chunk

		dest, err := s.addBulk(ctx, tx, key, statusID, conditionID, chunk, now)
		if err != nil {
			return err
		}
		if carried := chunk - (u.TotalQuantity - held[u.ID]); carried > 0 {
			if err := carryHoldings(ctx, tx, u.ID, dest, carried); err != nil {
				return err
			}
		}

		if chunk == u.TotalQuantity {
			if _, err := store.DeleteUnit(ctx, tx, u.ID); err != nil {
				return err
			}
		} else if err := store.SetUnitQuantity(ctx, tx, u.ID, u.TotalQuantity-chunk, now); err != nil {
			return err
		}
	}

	if left > 0 {
		return fmt.Errorf("transferring stock: %d units left to move", left)
	}
	return nil
}

// carryHoldings moves n held units of record from to record to, holder by
// holder.
func carryHoldings(ctx context.Context, tx *sqlx.Tx, from, to string, n int) error {
	holdings, err := store.ListUnitHoldings(ctx, tx, from)
	if err != nil {
		return err
	}
	for _, h := range holdings {
		if n == 0 {
			break
		}
		take := min(n, h.Quantity)
		if err := store.ShiftHolding(ctx, tx, h, to, take); err != nil {
			return err
		}
		n -= take
	}
	if n > 0 {
		return fmt.Errorf("transferring stock: %d held units without a holding", n)
	}
	return nil
}
