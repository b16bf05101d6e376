// Package sqlite is the durable store for account balances, the append-only
// balloon transaction ledger, and promotion grant records.
package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // pure-Go sqlite driver
)

// DB wraps the sqlite connection.
type DB struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies migrations.
func Open(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One writer at a time; sqlite serializes writes anyway and modernc's
	// driver misbehaves with concurrent write connections.
	conn.SetMaxOpenConns(1)

	db := &DB{db: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

// Close closes the underlying connection.
func (db *DB) Close() error { return db.db.Close() }

// Migrations returns the schema migration statements.
// Each string is a single SQL statement (SQLite executes one at a time).
func Migrations() []string {
	return []string{
		// One balance row per authenticated actor
		`CREATE TABLE IF NOT EXISTS user_balloons (
			actor_id   TEXT PRIMARY KEY,
			balance    INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL DEFAULT (datetime('now')),
			updated_at TEXT NOT NULL DEFAULT (datetime('now'))
		)`,

		// Append-only transaction trail (signed amounts)
		`CREATE TABLE IF NOT EXISTS balloon_transactions (
			id               TEXT PRIMARY KEY,
			actor_id         TEXT NOT NULL,
			amount           INTEGER NOT NULL,
			transaction_type TEXT NOT NULL CHECK (transaction_type IN ('spend', 'earn')),
			description      TEXT NOT NULL DEFAULT '',
			created_at       TEXT NOT NULL DEFAULT (datetime('now'))
		)`,
		`CREATE INDEX IF NOT EXISTS idx_balloon_tx_actor ON balloon_transactions(actor_id, created_at)`,

		// One-shot promotion grants (signup bonus, daily bonus)
		`CREATE TABLE IF NOT EXISTS promo_grants (
			actor_id   TEXT NOT NULL,
			promo      TEXT NOT NULL,
			period     TEXT NOT NULL DEFAULT '',
			granted_at TEXT NOT NULL DEFAULT (datetime('now')),
			PRIMARY KEY (actor_id, promo, period)
		)`,
	}
}

func (db *DB) migrate() error {
	for _, stmt := range Migrations() {
		if _, err := db.db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
