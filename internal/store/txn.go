// ABOUTME: Transaction runner scoping a unit of work to one collection
// ABOUTME: Provides the get/put/delete/clear/count/cursor primitives used by the accessors

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// Collection names one of the store's independently keyed record groups.
type Collection string

const (
	Pages     Collection = "pages"
	Dock      Collection = "dock"
	Bookmarks Collection = "bookmarks"
)

// keyColumns maps each collection to its key column. Collection names double
// as table names.
var keyColumns = map[Collection]string{
	Pages:     "id",
	Dock:      "id",
	Bookmarks: "origin",
}

// Mode is the access mode of a transaction
type Mode int

const (
	ReadOnly Mode = iota
	ReadWrite
)

func (m Mode) String() string {
	if m == ReadWrite {
		return "readwrite"
	}
	return "readonly"
}

// Handle is the collection view handed to a unit of work. It is only valid
// while the work function runs.
type Handle struct {
	ctx        context.Context
	tx         *sql.Tx
	collection Collection
	key        string
	mode       Mode
}

// Collection returns the collection the handle is scoped to.
func (h *Handle) Collection() Collection { return h.collection }

// Put inserts record under key, replacing any existing record.
func (h *Handle) Put(key any, record any) error {
	if h.mode == ReadOnly {
		return ErrReadOnly
	}
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encoding %s record: %w", h.collection, err)
	}
	query := fmt.Sprintf(
		`INSERT INTO %[1]s (%[2]s, value) VALUES (?, ?)
		 ON CONFLICT(%[2]s) DO UPDATE SET value = excluded.value`,
		h.collection, h.key)
	if _, err := h.tx.ExecContext(h.ctx, query, key, string(data)); err != nil {
		return fmt.Errorf("putting %s record: %w", h.collection, err)
	}
	return nil
}

// Get decodes the record stored under key into dst. It reports false if
// there is no such record.
func (h *Handle) Get(key any, dst any) (bool, error) {
	query := fmt.Sprintf(`SELECT value FROM %s WHERE %s = ?`, h.collection, h.key)
	var value string
	err := h.tx.QueryRowContext(h.ctx, query, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("getting %s record: %w", h.collection, err)
	}
	if err := json.Unmarshal([]byte(value), dst); err != nil {
		return false, fmt.Errorf("decoding %s record: %w", h.collection, err)
	}
	return true, nil
}

// Delete removes the record under key. Deleting a missing key is not an error.
func (h *Handle) Delete(key any) error {
	if h.mode == ReadOnly {
		return ErrReadOnly
	}
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = ?`, h.collection, h.key)
	if _, err := h.tx.ExecContext(h.ctx, query, key); err != nil {
		return fmt.Errorf("deleting %s record: %w", h.collection, err)
	}
	return nil
}

// Clear removes every record in the collection.
func (h *Handle) Clear() error {
	if h.mode == ReadOnly {
		return ErrReadOnly
	}
	if _, err := h.tx.ExecContext(h.ctx, fmt.Sprintf(`DELETE FROM %s`, h.collection)); err != nil {
		return fmt.Errorf("clearing %s: %w", h.collection, err)
	}
	return nil
}

// Count returns the number of records in the collection.
func (h *Handle) Count() (int, error) {
	var n int
	if err := h.tx.QueryRowContext(h.ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %s`, h.collection)).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting %s: %w", h.collection, err)
	}
	return n, nil
}

// Each walks the collection in ascending key order, calling fn with each
// encoded record. Iteration stops at the first error fn returns.
func (h *Handle) Each(fn func(value []byte) error) error {
	query := fmt.Sprintf(`SELECT value FROM %s ORDER BY %s ASC`, h.collection, h.key)
	rows, err := h.tx.QueryContext(h.ctx, query)
	if err != nil {
		return fmt.Errorf("opening %s cursor: %w", h.collection, err)
	}
	defer rows.Close()

	for rows.Next() {
		var value []byte
		if err := rows.Scan(&value); err != nil {
			return fmt.Errorf("scanning %s record: %w", h.collection, err)
		}
		if err := fn(value); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating %s: %w", h.collection, err)
	}
	return nil
}

// Run executes work inside one transaction scoped to collection. Every
// primitive issued by work commits together, or none does if work returns an
// error or the commit fails. Run returns nil only after a successful commit.
//
// Run fails with ErrStoreUnavailable, before any transaction is opened, if
// the store is not initialized. Other failures are *TransactionError.
func (s *SQLiteStore) Run(ctx context.Context, collection Collection, mode Mode, work func(h *Handle) error) error {
	db, err := s.handle()
	if err != nil {
		return err
	}
	key, ok := keyColumns[collection]
	if !ok {
		return fmt.Errorf("unknown collection %q", collection)
	}

	logger := s.logger.With("collection", string(collection), "mode", mode.String(), "txn_id", uuid.NewString())

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return s.transactionFailed(logger, collection, mode, fmt.Errorf("beginning transaction: %w", err))
	}
	defer tx.Rollback() // No-op if committed

	h := &Handle{ctx: ctx, tx: tx, collection: collection, key: key, mode: mode}
	if err := work(h); err != nil {
		return s.transactionFailed(logger, collection, mode, err)
	}
	if err := tx.Commit(); err != nil {
		return s.transactionFailed(logger, collection, mode, fmt.Errorf("committing transaction: %w", err))
	}

	logger.Debug("transaction committed")
	return nil
}

// transactionFailed logs the diagnostic every transaction error gets and wraps err.
func (s *SQLiteStore) transactionFailed(logger *slog.Logger, collection Collection, mode Mode, err error) error {
	txErr := &TransactionError{Collection: collection, Mode: mode, Code: errorCode(err), Err: err}
	logger.Warn("caught error on transaction", "error", err, "code", txErr.Code)
	return txErr
}
