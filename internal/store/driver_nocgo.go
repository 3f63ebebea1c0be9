//go:build !cgo

package store

// CgoDriver names the cgo SQLite driver. It is not registered in this build,
// so a store configured with it fails Init with ErrFacilityUnavailable.
const CgoDriver = "sqlite3"
