// Package store persists the home screen layout using SQLite.
//
// # Architecture
//
// The store holds three collections inside one versioned database:
//
//   - Pages: grid pages keyed by their position, with ordering index idx_pages_by_page
//   - Dock: the single "shortcuts" record
//   - Bookmarks: bookmarks keyed by origin (the bookmark URL)
//
// Each collection is a table of (key, value) rows where value is the JSON
// encoded record. HomeState is the interface consumers depend on; SQLiteStore
// implements it and MockStore is an in-memory stand-in for tests.
//
// # Lifecycle
//
// NewSQLiteStore only records options. Init opens the database, creating it
// if needed, and runs any pending migrations. Until Init succeeds every
// operation fails with ErrStoreUnavailable without touching the database.
//
//	st := store.NewSQLiteStore(store.Options{Path: path})
//	upgraded, err := st.Init(ctx)
//	if err != nil {
//	    return err
//	}
//	if upgraded {
//	    // first run or schema upgrade: seed defaults
//	}
//
// # Migrations
//
// The schema version lives in PRAGMA user_version. Init applies every
// migration step newer than the on-disk version in one transaction, so a
// store can be upgraded from any earlier version. Steps only use
// CREATE ... IF NOT EXISTS and never drop data. A store written by a newer
// version is refused with ErrVersionTooNew.
//
// # Transactions
//
// Every accessor runs through Run, which scopes a unit of work to one
// collection. All writes in a unit commit together or not at all. The pool
// is limited to one connection, so transactions are serialized in the order
// they are issued.
//
// # Drivers
//
// The default driver is modernc.org/sqlite ("sqlite"). Builds with cgo also
// register github.com/mattn/go-sqlite3 ("sqlite3"). Selecting a driver that
// is not registered makes Init fail with ErrFacilityUnavailable.
//
// # Error Handling
//
//   - ErrFacilityUnavailable: the configured driver is not registered
//   - *OpenError: the database could not be opened or migrated
//   - ErrStoreUnavailable: operation before Init
//   - *TransactionError: a transaction aborted or failed to commit
//
// Typed errors keep the driver's result code and unwrap to the cause.
package store
