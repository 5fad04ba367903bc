package postgres

import (
	"context"
	"fmt"
)

// usersSchema is the user directory table. Uniqueness is enforced on
// the lowercased username so registration and lookup agree on case
// folding.
const usersSchema = `
CREATE TABLE IF NOT EXISTS users (
	username         TEXT PRIMARY KEY,
	role             TEXT NOT NULL,
	password_hash    TEXT NOT NULL,
	last_login       TIMESTAMPTZ NOT NULL,
	avatar           TEXT NOT NULL DEFAULT '',
	ip               TEXT NOT NULL DEFAULT '',
	location         TEXT NOT NULL DEFAULT '',
	device           TEXT NOT NULL DEFAULT '',
	os               TEXT NOT NULL DEFAULT '',
	browser          TEXT NOT NULL DEFAULT '',
	favorites        TEXT NOT NULL DEFAULT '[]',
	behavior_log     TEXT NOT NULL DEFAULT '[]',
	notifications    TEXT NOT NULL DEFAULT '[]',
	is_banned        BOOLEAN NOT NULL DEFAULT FALSE,
	is_shadow_banned BOOLEAN NOT NULL DEFAULT FALSE,
	is_vip           BOOLEAN NOT NULL DEFAULT FALSE,
	balance          DOUBLE PRECISION NOT NULL DEFAULT 0,
	banned_device    TEXT NOT NULL DEFAULT '',
	created_at       TIMESTAMPTZ NOT NULL,
	updated_at       TIMESTAMPTZ NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username_lower ON users (LOWER(username));
CREATE INDEX IF NOT EXISTS idx_users_created_at ON users (created_at DESC);
`

// Migrate applies the PostgreSQL schema. Statements are idempotent so
// running it repeatedly is safe.
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.Pool.Exec(ctx, usersSchema); err != nil {
		return fmt.Errorf("failed to apply users schema: %w", err)
	}
	db.logger.Info().Msg("PostgreSQL schema up to date")
	return nil
}
