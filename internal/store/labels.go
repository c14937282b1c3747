package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/erazemk/zaloga/internal/model"
)

// GetCategory returns a category by ID.
func GetCategory(ctx context.Context, q sqlx.ExtContext, id int64) (*model.Category, error) {
	c := &model.Category{}
	err := sqlx.GetContext(ctx, q, c, `SELECT id, name, is_phone FROM categories WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting category: %w", err)
	}
	return c, nil
}

// ListCategories returns all categories.
func ListCategories(ctx context.Context, q sqlx.ExtContext) ([]model.Category, error) {
	var categories []model.Category
	if err := sqlx.SelectContext(ctx, q, &categories, `SELECT id, name, is_phone FROM categories ORDER BY id`); err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	return categories, nil
}

// labelTable maps a dimension to its table. Only these names ever reach SQL.
func labelTable(dimension string) (string, error) {
	switch dimension {
	case model.DimensionStatus:
		return "statuses", nil
	case model.DimensionCondition:
		return "conditions", nil
	default:
		return "", fmt.Errorf("unknown label dimension %q", dimension)
	}
}

// GetLabel returns a status or condition by ID.
func GetLabel(ctx context.Context, q sqlx.ExtContext, dimension string, id int64) (*model.Label, error) {
	table, err := labelTable(dimension)
	if err != nil {
		return nil, err
	}

	l := &model.Label{}
	err = sqlx.GetContext(ctx, q, l, `SELECT id, name, is_default FROM `+table+` WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting %s: %w", dimension, err)
	}
	return l, nil
}

// ListLabels returns all statuses or conditions.
func ListLabels(ctx context.Context, q sqlx.ExtContext, dimension string) ([]model.Label, error) {
	table, err := labelTable(dimension)
	if err != nil {
		return nil, err
	}

	var labels []model.Label
	if err := sqlx.SelectContext(ctx, q, &labels, `SELECT id, name, is_default FROM `+table+` ORDER BY id`); err != nil {
		return nil, fmt.Errorf("listing %s labels: %w", dimension, err)
	}
	return labels, nil
}

// DefaultLabel returns the status or condition flagged as default, falling
// back to the lowest ID.
func DefaultLabel(ctx context.Context, q sqlx.ExtContext, dimension string) (*model.Label, error) {
	table, err := labelTable(dimension)
	if err != nil {
		return nil, err
	}

	l := &model.Label{}
	err = sqlx.GetContext(ctx, q, l,
		`SELECT id, name, is_default FROM `+table+` ORDER BY is_default DESC, id LIMIT 1`,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("no %s labels configured", dimension)
	}
	if err != nil {
		return nil, fmt.Errorf("getting default %s: %w", dimension, err)
	}
	return l, nil
}
