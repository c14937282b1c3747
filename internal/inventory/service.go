// Package inventory reconciles bulk counts and individually tracked units of
// the same item. Every write re-reads the group inside its transaction, checks
// bounds and uniqueness, and commits the change together with an audit event.
package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/sync/singleflight"

	"github.com/erazemk/zaloga/internal/model"
	"github.com/erazemk/zaloga/internal/store"
)

// DefaultLowStockThreshold applies when the caller sets no threshold.
const DefaultLowStockThreshold = 2

// RecycleBin receives snapshots of deleted units. Remove withdraws a snapshot
// whose delete did not go through.
type RecycleBin interface {
	Put(ctx context.Context, e *model.RecycleBinEntry) error
	Remove(ctx context.Context, id string) error
}

// StoreBin writes snapshots to the recycle_bin table.
type StoreBin struct {
	DB *sqlx.DB
}

// Put stores the entry.
func (b StoreBin) Put(ctx context.Context, e *model.RecycleBinEntry) error {
	return store.InsertRecycleBinEntry(ctx, b.DB, e)
}

// Remove deletes the entry if it is still there.
func (b StoreBin) Remove(ctx context.Context, id string) error {
	_, err := store.DeleteRecycleBinEntry(ctx, b.DB, id)
	return err
}

// Config holds engine settings.
type Config struct {
	// PhoneRegion is the default region for parsing phone numbers without a
	// leading '+'. Empty accepts only international numbers for normalisation.
	PhoneRegion string
	// LowStockThreshold marks bulk-only groups at or below it as low stock.
	// Zero or less means DefaultLowStockThreshold; a filter can still ask for 0.
	LowStockThreshold int
}

// Service is the reconciliation engine.
type Service struct {
	db       *sqlx.DB
	bin      RecycleBin
	cfg      Config
	validate *validator.Validate
	reads    singleflight.Group

	// Now and NewID are replaceable in tests.
	Now   func() time.Time
	NewID func() string
}

// New creates a service backed by db.
func New(db *sqlx.DB, cfg Config) *Service {
	if cfg.LowStockThreshold <= 0 {
		cfg.LowStockThreshold = DefaultLowStockThreshold
	}
	return &Service{
		db:       db,
		bin:      StoreBin{DB: db},
		cfg:      cfg,
		validate: validator.New(),
		Now:      func() time.Time { return time.Now().UTC() },
		NewID:    uuid.NewString,
	}
}

// WithRecycleBin replaces where deleted unit snapshots go.
func (s *Service) WithRecycleBin(bin RecycleBin) *Service {
	s.bin = bin
	return s
}

// withTx runs fn in a transaction, committing only if fn succeeds.
func (s *Service) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// check runs struct validation and folds failures into ErrInvalidRequest.
func (s *Service) check(req any) error {
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validating request: %w", err)
	}

	fields := make([]string, 0, len(verrs))
	for _, ve := range verrs {
		fields = append(fields, ve.Field()+" "+ve.Tag())
	}
	return invalidRequest("%s", strings.Join(fields, ", "))
}

func (s *Service) record(ctx context.Context, tx *sqlx.Tx, key model.GroupKey, unitID, action, reason, actor string) error {
	e := &model.StockEvent{
		ItemName:    key.ItemName,
		CategoryID:  key.CategoryID,
		Action:      action,
		Reason:      reason,
		PerformedBy: actor,
		CreatedAt:   s.Now(),
	}
	if unitID != "" {
		e.UnitID = &unitID
	}
	return store.RecordEvent(ctx, tx, e)
}

// labelName resolves a label for reason text, falling back to its id.
func labelName(ctx context.Context, q sqlx.ExtContext, dimension string, id int64) string {
	l, err := store.GetLabel(ctx, q, dimension, id)
	if err != nil || l == nil {
		return fmt.Sprintf("#%d", id)
	}
	return l.Name
}

// requireLabel fails with ErrUnknownLabel when id is not configured.
func requireLabel(ctx context.Context, q sqlx.ExtContext, dimension string, id int64) (*model.Label, error) {
	l, err := store.GetLabel(ctx, q, dimension, id)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, fmt.Errorf("%w: %s %d", ErrUnknownLabel, dimension, id)
	}
	return l, nil
}

func withOperatorReason(generated, operator string) string {
	operator = strings.TrimSpace(operator)
	if operator == "" {
		return generated
	}
	return generated + ": " + operator
}

func actorOrSystem(actor string) string {
	if actor == "" {
		return "system"
	}
	return actor
}

func groupKey(itemName string, categoryID int64) model.GroupKey {
	return model.GroupKey{ItemName: strings.TrimSpace(itemName), CategoryID: categoryID}
}
