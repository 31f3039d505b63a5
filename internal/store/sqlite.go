// Package store provides SQLite-backed persistence for analyzed matches.
//
// Only the final per-player scalar metrics and era buckets are persisted; the
// raw command stream is not. Reading a match back supports re-running the
// aggregate and derived-metric layers, but not the queue or housing
// simulations, which require re-parsing the replay.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// schemaV1 defines the initial database schema.
const schemaV1 = `
CREATE TABLE IF NOT EXISTS matches (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	file_hash     TEXT UNIQUE,
	file_path     TEXT NOT NULL DEFAULT '',
	played_at     TEXT NOT NULL DEFAULT '',
	duration_secs REAL NOT NULL DEFAULT 0,
	map_name      TEXT NOT NULL DEFAULT '',
	map_id        INTEGER NOT NULL DEFAULT 0,
	game_type     TEXT NOT NULL DEFAULT '',
	diplomacy     TEXT NOT NULL DEFAULT '',
	speed         TEXT NOT NULL DEFAULT '',
	pop_limit     INTEGER NOT NULL DEFAULT 0,
	completed     INTEGER NOT NULL DEFAULT 0,
	version       TEXT NOT NULL DEFAULT '',
	ingested_at   TEXT NOT NULL DEFAULT (datetime('now'))
);
CREATE INDEX IF NOT EXISTS idx_matches_played ON matches(played_at);
CREATE INDEX IF NOT EXISTS idx_matches_hash ON matches(file_hash);

CREATE TABLE IF NOT EXISTS match_players (
	id       INTEGER PRIMARY KEY AUTOINCREMENT,
	match_id INTEGER NOT NULL REFERENCES matches(id),
	name     TEXT NOT NULL,
	number   INTEGER NOT NULL DEFAULT 0,
	civ_id   INTEGER NOT NULL DEFAULT 0,
	civ_name TEXT NOT NULL DEFAULT '',
	color_id INTEGER NOT NULL DEFAULT 0,
	winner   INTEGER NOT NULL DEFAULT 0,
	user_id  INTEGER,
	elo      INTEGER,
	eapm     INTEGER,

	tc_idle_secs     REAL NOT NULL DEFAULT 0,
	tc_idle_dark     REAL NOT NULL DEFAULT 0,
	tc_idle_feudal   REAL NOT NULL DEFAULT 0,
	tc_idle_castle   REAL NOT NULL DEFAULT 0,
	tc_idle_imperial REAL NOT NULL DEFAULT 0,

	housed_lower_secs REAL NOT NULL DEFAULT 0,
	housed_upper_secs REAL NOT NULL DEFAULT 0,
	housed_lower_dark     REAL NOT NULL DEFAULT 0,
	housed_lower_feudal   REAL NOT NULL DEFAULT 0,
	housed_lower_castle   REAL NOT NULL DEFAULT 0,
	housed_lower_imperial REAL NOT NULL DEFAULT 0,
	housed_upper_dark     REAL NOT NULL DEFAULT 0,
	housed_upper_feudal   REAL NOT NULL DEFAULT 0,
	housed_upper_castle   REAL NOT NULL DEFAULT 0,
	housed_upper_imperial REAL NOT NULL DEFAULT 0,

	tc_idle_effective_lower REAL NOT NULL DEFAULT 0,
	tc_idle_effective_upper REAL NOT NULL DEFAULT 0,

	tc_idle_percent       REAL,
	farm_gap_average      REAL,
	military_timing_index REAL,
	resource_efficiency   REAL,
	opening_strategy      TEXT
);
CREATE INDEX IF NOT EXISTS idx_players_match ON match_players(match_id);
CREATE INDEX IF NOT EXISTS idx_players_name ON match_players(name);

CREATE TABLE IF NOT EXISTS age_ups (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	match_id       INTEGER NOT NULL REFERENCES matches(id),
	player         TEXT NOT NULL,
	age            TEXT NOT NULL,
	timestamp_secs REAL NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_age_ups_match ON age_ups(match_id);
`

// NewDB opens the SQLite database at the given path with recommended pragmas
// and runs the V1 schema migration. The parent directory is created if
// missing.
func NewDB(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// WAL allows concurrent reads but only one writer
	db.SetMaxOpenConns(1)

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	return db, nil
}

func migrate(db *sql.DB) error {
	_, err := db.ExecContext(context.Background(), schemaV1)
	return err
}
