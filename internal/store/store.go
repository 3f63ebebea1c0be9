// ABOUTME: HomeState interface and record types for home screen persistence
// ABOUTME: Defines pages, dock shortcuts, bookmarks and the errors shared by all stores

package store

import (
	"context"
	"errors"
	"fmt"
	"net/url"
)

// SchemaVersion is the on-disk schema version this code expects.
// Version history:
//
//	1 - pages and dock collections
//	2 - bookmarks collection
//	3 - ordering index on pages
const SchemaVersion = 3

// StoreName is the fixed name of the home screen store.
const StoreName = "HomeScreen"

// ShortcutsKey is the key of the single dock record.
const ShortcutsKey = "shortcuts"

// ErrFacilityUnavailable is returned when no transactional storage backend is registered
var ErrFacilityUnavailable = errors.New("storage facility is not available")

// ErrStoreUnavailable is returned when an operation runs before a successful Init
var ErrStoreUnavailable = errors.New("store is not available")

// ErrReadOnly is returned when a write is attempted inside a read-only transaction
var ErrReadOnly = errors.New("transaction is read-only")

// ErrVersionTooNew is returned when the on-disk schema is newer than SchemaVersion
var ErrVersionTooNew = errors.New("schema version is newer than supported")

// ErrInvalidRecord is returned when a record fails validation at the boundary
var ErrInvalidRecord = errors.New("invalid record")

// AppReference describes an installed app or a bookmark well enough to
// rebuild its launch icon.
type AppReference struct {
	Origin     string `json:"origin"`
	EntryPoint string `json:"entry_point,omitempty"`
	Bookmark   bool   `json:"bookmark,omitempty"`
}

// NewAppReference validates and builds an AppReference.
func NewAppReference(origin, entryPoint string) (AppReference, error) {
	if origin == "" {
		return AppReference{}, fmt.Errorf("%w: app origin is required", ErrInvalidRecord)
	}
	return AppReference{Origin: origin, EntryPoint: entryPoint}, nil
}

// PageRecord is one page of the home screen grid. ID is the page's
// position and defines ordering.
type PageRecord struct {
	ID   int            `json:"id"`
	Apps []AppReference `json:"apps"`
}

// NewPageRecord validates and builds a PageRecord.
func NewPageRecord(id int, apps []AppReference) (PageRecord, error) {
	if id < 0 {
		return PageRecord{}, fmt.Errorf("%w: page id %d is negative", ErrInvalidRecord, id)
	}
	if apps == nil {
		apps = []AppReference{}
	}
	return PageRecord{ID: id, Apps: apps}, nil
}

// DockRecord holds the dock shortcuts. Only one exists, keyed by ShortcutsKey.
type DockRecord struct {
	ID        string         `json:"id"`
	Shortcuts []AppReference `json:"shortcuts"`
}

// Bookmark is a saved web page that launches like an app
type Bookmark struct {
	URL  string `json:"url"`
	Icon string `json:"icon"`
	Name string `json:"name"`
}

// NewBookmark validates and builds a Bookmark. The URL must be absolute.
func NewBookmark(rawURL, name, icon string) (Bookmark, error) {
	if rawURL == "" {
		return Bookmark{}, fmt.Errorf("%w: bookmark url is required", ErrInvalidRecord)
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return Bookmark{}, fmt.Errorf("%w: bookmark url %q: %v", ErrInvalidRecord, rawURL, err)
	}
	if !u.IsAbs() {
		return Bookmark{}, fmt.Errorf("%w: bookmark url %q is not absolute", ErrInvalidRecord, rawURL)
	}
	return Bookmark{URL: rawURL, Icon: icon, Name: name}, nil
}

// Origin is the bookmark's key in the store.
func (b Bookmark) Origin() string { return b.URL }

// Removable reports whether the user may remove the bookmark. Always true.
func (b Bookmark) Removable() bool { return true }

// Manifest describes the bookmark the way an installed app is described
type Manifest struct {
	Name          string            `json:"name"`
	Icons         map[string]string `json:"icons"`
	DefaultLocale string            `json:"default_locale"`
}

// Manifest builds the launch manifest for the bookmark.
func (b Bookmark) Manifest() Manifest {
	return Manifest{
		Name:          b.Name,
		Icons:         map[string]string{"60": b.Icon},
		DefaultLocale: "en-US",
	}
}

// AppReference returns the reference placed on a page or the dock for this bookmark.
func (b Bookmark) AppReference() AppReference {
	return AppReference{Origin: b.URL, Bookmark: true}
}

// BookmarkRecord is the persisted shape of a bookmark
type BookmarkRecord struct {
	Origin   string   `json:"origin"`
	Bookmark Bookmark `json:"bookmark"`
}

// HomeState defines the persistence operations of the home screen
type HomeState interface {
	// Init opens the store, migrating it if needed. wasUpgraded reports
	// whether a migration ran, so callers can seed default content.
	Init(ctx context.Context) (wasUpgraded bool, err error)

	// Pages
	ReplaceAllPages(ctx context.Context, pages [][]AppReference) error
	UpsertPage(ctx context.Context, page PageRecord) error
	PageCount(ctx context.Context) (int, error)
	Pages(ctx context.Context) ([]PageRecord, error)
	ForEachPage(ctx context.Context, fn func(apps []AppReference) error) (int, error)

	// Dock
	SaveShortcuts(ctx context.Context, shortcuts []AppReference) error
	Shortcuts(ctx context.Context) ([]AppReference, error)

	// Bookmarks
	Bookmarks(ctx context.Context) ([]*Bookmark, error)
	SaveBookmark(ctx context.Context, bookmark Bookmark) error
	DeleteBookmark(ctx context.Context, origin string) error

	// Close releases any resources held by the store
	Close() error
}
