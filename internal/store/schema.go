// ABOUTME: Schema management for the home screen store
// ABOUTME: Opens the database, tracks PRAGMA user_version and runs pending migrations

package store

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
)

// migration brings a store up to version. Statements must be idempotent so a
// step can safely re-declare collections that already exist.
type migration struct {
	version int
	name    string
	stmts   []string
}

var migrations = []migration{
	{
		version: 1,
		name:    "pages and dock collections",
		stmts: []string{
			`CREATE TABLE IF NOT EXISTS pages (
				id    INTEGER PRIMARY KEY,
				value TEXT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS dock (
				id    TEXT PRIMARY KEY,
				value TEXT NOT NULL
			)`,
		},
	},
	{
		version: 2,
		name:    "bookmarks collection",
		stmts: []string{
			`CREATE TABLE IF NOT EXISTS bookmarks (
				origin TEXT PRIMARY KEY,
				value  TEXT NOT NULL
			)`,
		},
	},
	{
		version: 3,
		name:    "pages ordering index",
		stmts: []string{
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_pages_by_page ON pages(id)`,
		},
	},
}

// Init opens the store, creating it if absent, and migrates it to
// SchemaVersion. wasUpgraded is true when a migration ran, which is always
// the case for a new store. Calling Init on an open store re-checks the
// schema without reopening.
func (s *SQLiteStore) Init(ctx context.Context) (bool, error) {
	if !slices.Contains(sql.Drivers(), s.driver) {
		return false, fmt.Errorf("%w: driver %q is not registered", ErrFacilityUnavailable, s.driver)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	db := s.db
	if db == nil {
		var err error
		db, err = s.openDB()
		if err != nil {
			return false, newOpenError(s.path, err)
		}
	}

	upgraded, err := s.migrate(ctx, db)
	if err != nil {
		if s.db == nil {
			db.Close()
		}
		return false, newOpenError(s.path, err)
	}

	if s.db == nil {
		s.db = db
		s.logger.Info("SQLite store initialized", "path", s.path, "version", SchemaVersion, "upgraded", upgraded)
	}
	return upgraded, nil
}

// schemaVersion reads the on-disk schema version.
func schemaVersion(ctx context.Context, q interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}) (int, error) {
	var version int
	if err := q.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("reading user_version: %w", err)
	}
	return version, nil
}

// migrate applies every migration newer than the on-disk version in a single
// transaction, then records SchemaVersion.
func (s *SQLiteStore) migrate(ctx context.Context, db *sql.DB) (bool, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("beginning migration: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	version, err := schemaVersion(ctx, tx)
	if err != nil {
		return false, err
	}
	if version > SchemaVersion {
		return false, fmt.Errorf("%w: on disk %d, supported %d", ErrVersionTooNew, version, SchemaVersion)
	}
	if version == SchemaVersion {
		return false, nil
	}

	for _, m := range migrations {
		if m.version <= version {
			continue
		}
		for _, stmt := range m.stmts {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return false, fmt.Errorf("migrating to v%d (%s): %w", m.version, m.name, err)
			}
		}
		s.logger.Info("applied migration", "version", m.version, "name", m.name)
	}

	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", SchemaVersion)); err != nil {
		return false, fmt.Errorf("setting user_version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("committing migration: %w", err)
	}

	s.logger.Info("schema upgraded", "from", version, "to", SchemaVersion)
	return true, nil
}
