package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            TEXT PRIMARY KEY,
    name          TEXT NOT NULL,
    email         TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS lists (
    id          TEXT PRIMARY KEY,
    user_id     TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    location    TEXT NOT NULL CHECK (length(location) >= 3),
    event_date  DATETIME NOT NULL,
    description TEXT,
    status      TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'archived')),
    created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_lists_user_id ON lists(user_id);

CREATE TABLE IF NOT EXISTS items (
    id                   TEXT PRIMARY KEY,
    list_id              TEXT NOT NULL REFERENCES lists(id) ON DELETE CASCADE,
    name                 TEXT NOT NULL,
    unit                 TEXT NOT NULL,
    quantity_per_portion REAL NOT NULL CHECK (quantity_per_portion > 0),
    total_quantity       REAL NOT NULL CHECK (total_quantity > 0),
    position             INTEGER NOT NULL,
    created_at           DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_items_list_id ON items(list_id);

CREATE TABLE IF NOT EXISTS parcels (
    id          TEXT PRIMARY KEY,
    item_id     TEXT NOT NULL REFERENCES items(id) ON DELETE CASCADE,
    list_id     TEXT NOT NULL REFERENCES lists(id) ON DELETE CASCADE,
    position    INTEGER NOT NULL,
    member_name TEXT,
    member_cpf  TEXT,
    claimed_at  DATETIME,
    created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    CHECK ((member_cpf IS NULL) = (member_name IS NULL))
);

CREATE INDEX IF NOT EXISTS idx_parcels_item_id ON parcels(item_id);
CREATE INDEX IF NOT EXISTS idx_parcels_list_id ON parcels(list_id);

CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    expires_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
