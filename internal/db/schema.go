package db

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// schema is the full database schema.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            INTEGER PRIMARY KEY,
    username      TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    role          TEXT NOT NULL DEFAULT 'user' CHECK (role IN ('admin', 'manager', 'user')),
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at    DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username_active
    ON users(username) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    expires_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS categories (
    id       INTEGER PRIMARY KEY,
    name     TEXT NOT NULL UNIQUE,
    is_phone INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS statuses (
    id         INTEGER PRIMARY KEY,
    name       TEXT NOT NULL UNIQUE,
    is_default INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS conditions (
    id         INTEGER PRIMARY KEY,
    name       TEXT NOT NULL UNIQUE,
    is_default INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS units (
    id             TEXT PRIMARY KEY,
    item_name      TEXT NOT NULL,
    category_id    INTEGER NOT NULL REFERENCES categories(id),
    serial_number  TEXT,
    number_phone   TEXT,
    quantity       INTEGER NOT NULL DEFAULT 1 CHECK (quantity >= 0),
    total_quantity INTEGER NOT NULL DEFAULT 1 CHECK (total_quantity >= 0),
    status_id      INTEGER NOT NULL REFERENCES statuses(id),
    condition_id   INTEGER NOT NULL REFERENCES conditions(id),
    date_added     DATETIME NOT NULL,
    updated_at     DATETIME NOT NULL,
    CHECK (serial_number IS NULL OR number_phone IS NULL)
);

CREATE INDEX IF NOT EXISTS idx_units_group ON units(item_name, category_id);

CREATE UNIQUE INDEX IF NOT EXISTS idx_units_serial
    ON units(item_name, category_id, serial_number) WHERE serial_number IS NOT NULL;

CREATE UNIQUE INDEX IF NOT EXISTS idx_units_phone
    ON units(item_name, category_id, number_phone) WHERE number_phone IS NOT NULL;

CREATE TABLE IF NOT EXISTS recycle_bin (
    id                  TEXT PRIMARY KEY,
    unit_id             TEXT NOT NULL,
    item_name           TEXT NOT NULL,
    category_id         INTEGER NOT NULL,
    serial_number       TEXT,
    number_phone        TEXT,
    quantity            INTEGER NOT NULL,
    total_quantity      INTEGER NOT NULL,
    status_id           INTEGER NOT NULL,
    condition_id        INTEGER NOT NULL,
    date_added          DATETIME NOT NULL,
    unit_updated_at     DATETIME NOT NULL,
    delete_reason       TEXT NOT NULL,
    deleted_by          TEXT NOT NULL,
    deleted_at          DATETIME NOT NULL,
    permanent_delete_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS holders (
    id         INTEGER PRIMARY KEY,
    name       TEXT NOT NULL,
    type       TEXT NOT NULL CHECK (type IN ('person', 'location')),
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS holdings (
    unit_id        TEXT NOT NULL REFERENCES units(id) ON DELETE CASCADE,
    holder_id      INTEGER NOT NULL REFERENCES holders(id),
    quantity       INTEGER NOT NULL CHECK (quantity > 0),
    pending_return INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (unit_id, holder_id)
);

CREATE TABLE IF NOT EXISTS stock_events (
    id           INTEGER PRIMARY KEY,
    item_name    TEXT NOT NULL,
    category_id  INTEGER NOT NULL,
    unit_id      TEXT,
    action       TEXT NOT NULL,
    reason       TEXT NOT NULL,
    performed_by TEXT NOT NULL,
    created_at   DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_stock_events_group ON stock_events(item_name, category_id);
`

// seed inserts the default labels. Label configuration lives outside this
// service; these rows only make a fresh database usable.
const seed = `
INSERT OR IGNORE INTO categories (id, name, is_phone) VALUES
    (1, 'Computers', 0),
    (2, 'Peripherals', 0),
    (3, 'Networking', 0),
    (4, 'SIM cards', 1);

INSERT OR IGNORE INTO statuses (id, name, is_default) VALUES
    (1, 'available', 1),
    (2, 'in use', 0),
    (3, 'in repair', 0),
    (4, 'retired', 0);

INSERT OR IGNORE INTO conditions (id, name, is_default) VALUES
    (1, 'working', 1),
    (2, 'damaged', 0),
    (3, 'needs inspection', 0);
`

// EnsureSchema creates all tables and indexes if they don't already exist
// and seeds the default labels.
func EnsureSchema(db *sqlx.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	if _, err := db.Exec(seed); err != nil {
		return fmt.Errorf("seeding labels: %w", err)
	}
	return nil
}
