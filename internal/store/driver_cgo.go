//go:build cgo

// ABOUTME: Registers the cgo SQLite driver when cgo is available
// ABOUTME: Selected with driver "sqlite3"; pure Go builds only have "sqlite"

package store

import _ "github.com/mattn/go-sqlite3"

// CgoDriver is the driver name registered by github.com/mattn/go-sqlite3.
const CgoDriver = "sqlite3"
