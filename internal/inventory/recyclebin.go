package inventory

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/erazemk/zaloga/internal/model"
	"github.com/erazemk/zaloga/internal/store"
)

// RestoreRequest brings a deleted unit back from the recycle bin.
type RestoreRequest struct {
	EntryID string `json:"entry_id" validate:"required"`
	Actor   string `json:"-"`
}

// RestoreUnit reinserts a recycle bin snapshot under a new id and removes the
// entry. Expired entries and tracking keys reused since the deletion are
// rejected.
func (s *Service) RestoreUnit(ctx context.Context, req RestoreRequest) (*model.Unit, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}

	var restored *model.Unit
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		e, err := store.GetRecycleBinEntry(ctx, tx, req.EntryID)
		if err != nil {
			return err
		}
		if e == nil {
			return fmt.Errorf("%w: %s", ErrEntryNotFound, req.EntryID)
		}

		now := s.Now()
		if e.Expired(now) {
			return fmt.Errorf("%w: %s expired at %s", ErrEntryExpired, e.ID, e.PermanentDeleteAt.Format("2006-01-02"))
		}

		u := e.Unit(s.NewID(), now)
		if u.IsTracked() {
			if err := s.checkDuplicate(ctx, tx, u.Key(), u.TrackingType(), u.TrackingKey(), ""); err != nil {
				return err
			}
		}

		if err := store.InsertUnit(ctx, tx, u); err != nil {
			return err
		}
		if _, err := store.DeleteRecycleBinEntry(ctx, tx, e.ID); err != nil {
			return err
		}

		restored = u
		reason := fmt.Sprintf("restored %s", u.ItemName)
		if u.IsTracked() {
			reason += " " + u.TrackingKey()
		} else {
			reason += fmt.Sprintf(" (%d units)", u.TotalQuantity)
		}
		return s.record(ctx, tx, u.Key(), u.ID, model.ActionRestore, reason, actorOrSystem(req.Actor))
	})
	if err != nil {
		return nil, err
	}

	slog.Info("unit restored", "user", actorOrSystem(req.Actor), "entry", req.EntryID, "unit", restored.ID)
	return restored, nil
}

// ListRecycleBin returns all recycle bin entries, newest first.
func (s *Service) ListRecycleBin(ctx context.Context) ([]model.RecycleBinEntry, error) {
	return store.ListRecycleBin(ctx, s.db)
}
