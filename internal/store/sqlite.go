// ABOUTME: SQLite implementation of the HomeState interface using modernc.org/sqlite
// ABOUTME: Holds the opened database handle and the pragmas applied on open

package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// DefaultDriver is the pure Go SQLite driver registered by modernc.org/sqlite.
const DefaultDriver = "sqlite"

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// Options configures a SQLiteStore
type Options struct {
	// Path of the database file. Parent directories are created if needed.
	Path string
	// Driver is the database/sql driver name. Defaults to DefaultDriver.
	Driver string
	// BusyTimeout bounds how long a writer waits on a locked database.
	BusyTimeout time.Duration
	Logger      *slog.Logger
}

// SQLiteStore implements the HomeState interface using SQLite.
// It is unusable until Init succeeds.
type SQLiteStore struct {
	path        string
	driver      string
	busyTimeout time.Duration
	logger      *slog.Logger

	mu sync.RWMutex
	db *sql.DB
}

var _ HomeState = (*SQLiteStore)(nil)

// NewSQLiteStore creates a store for the given options. Nothing is opened
// until Init is called.
func NewSQLiteStore(opts Options) *SQLiteStore {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	driver := opts.Driver
	if driver == "" {
		driver = DefaultDriver
	}
	busy := opts.BusyTimeout
	if busy <= 0 {
		busy = 5 * time.Second
	}
	return &SQLiteStore{
		path:        opts.Path,
		driver:      driver,
		busyTimeout: busy,
		logger:      logger.With("component", "store", "store", StoreName),
	}
}

// Path returns the database path.
func (s *SQLiteStore) Path() string { return s.path }

// handle returns the open database or ErrStoreUnavailable.
func (s *SQLiteStore) handle() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return nil, ErrStoreUnavailable
	}
	return s.db, nil
}

// openDB opens the database file and applies pragmas.
func (s *SQLiteStore) openDB() (*sql.DB, error) {
	if s.path != MemoryPath {
		// Ensure parent directory exists
		if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open(s.driver, s.path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite has a single writer. One connection also keeps an in-memory
	// database alive across transactions.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		fmt.Sprintf("PRAGMA busy_timeout=%d", s.busyTimeout.Milliseconds()),
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("executing %q: %w", pragma, err)
		}
	}

	return db, nil
}

// Close closes the database connection. Later operations fail with
// ErrStoreUnavailable until Init is called again.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	s.logger.Debug("closing SQLite store")
	err := s.db.Close()
	s.db = nil
	return err
}
