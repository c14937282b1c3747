package store

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// GetSetting returns a setting value and whether it exists.
func GetSetting(ctx context.Context, db *sqlx.DB, key string) (string, bool, error) {
	var values []string
	if err := db.SelectContext(ctx, &values, `SELECT value FROM settings WHERE key = ?`, key); err != nil {
		return "", false, fmt.Errorf("querying setting %s: %w", key, err)
	}
	if len(values) == 0 {
		return "", false, nil
	}
	return values[0], true, nil
}

// ensureSetting stores candidate under key unless a value already exists and
// returns whichever value is stored. INSERT OR IGNORE + re-SELECT avoids a
// TOCTOU race on concurrent startup.
func ensureSetting(ctx context.Context, db *sqlx.DB, key, candidate string) (string, error) {
	_, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO settings (key, value) VALUES (?, ?)`,
		key, candidate,
	)
	if err != nil {
		return "", fmt.Errorf("storing %s: %w", key, err)
	}

	value, ok, err := GetSetting(ctx, db, key)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("setting %s missing after insert", key)
	}
	return value, nil
}

// GetJWTSecret retrieves the JWT secret from the database, generating and
// storing one on first use.
func GetJWTSecret(ctx context.Context, db *sqlx.DB) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating jwt secret: %w", err)
	}
	return ensureSetting(ctx, db, "jwt_secret", hex.EncodeToString(buf))
}
