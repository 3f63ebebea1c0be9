// ABOUTME: Mock HomeState implementation for testing
// ABOUTME: Allows tests to run without SQLite

package store

import (
	"context"
	"sort"
	"sync"
)

// MockStore is an in-memory HomeState implementation for testing.
// It follows the SQLite store's semantics, including ErrStoreUnavailable
// before Init.
type MockStore struct {
	mu        sync.RWMutex
	open      bool
	migrated  bool
	pages     map[int][]AppReference // keyed by page id
	shortcuts []AppReference         // nil until saved
	bookmarks map[string]Bookmark    // keyed by origin
}

var _ HomeState = (*MockStore)(nil)

// NewMockStore creates a new MockStore.
func NewMockStore() *MockStore {
	return &MockStore{
		pages:     make(map[int][]AppReference),
		bookmarks: make(map[string]Bookmark),
	}
}

// Init opens the mock. Only the first Init reports an upgrade.
func (m *MockStore) Init(ctx context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.open = true
	if m.migrated {
		return false, nil
	}
	m.migrated = true
	return true, nil
}

// ReplaceAllPages replaces every page.
func (m *MockStore) ReplaceAllPages(ctx context.Context, pages [][]AppReference) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.open {
		return ErrStoreUnavailable
	}

	m.pages = make(map[int][]AppReference, len(pages))
	for i, apps := range pages {
		m.pages[i] = cloneApps(apps)
	}
	return nil
}

// UpsertPage stores a single page.
func (m *MockStore) UpsertPage(ctx context.Context, page PageRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.open {
		return ErrStoreUnavailable
	}

	page, err := NewPageRecord(page.ID, page.Apps)
	if err != nil {
		return err
	}

	m.pages[page.ID] = cloneApps(page.Apps)
	return nil
}

// PageCount returns the number of pages.
func (m *MockStore) PageCount(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.open {
		return 0, ErrStoreUnavailable
	}
	return len(m.pages), nil
}

// Pages returns every page with its id in ascending id order.
func (m *MockStore) Pages(ctx context.Context) ([]PageRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.open {
		return nil, ErrStoreUnavailable
	}

	pages := make([]PageRecord, 0, len(m.pages))
	for id, apps := range m.pages {
		pages = append(pages, PageRecord{ID: id, Apps: cloneApps(apps)})
	}
	sort.Slice(pages, func(i, j int) bool { return pages[i].ID < pages[j].ID })
	return pages, nil
}

// ForEachPage visits pages in ascending id order.
func (m *MockStore) ForEachPage(ctx context.Context, fn func(apps []AppReference) error) (int, error) {
	m.mu.RLock()
	if !m.open {
		m.mu.RUnlock()
		return 0, ErrStoreUnavailable
	}
	ids := make([]int, 0, len(m.pages))
	for id := range m.pages {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	pages := make([][]AppReference, 0, len(ids))
	for _, id := range ids {
		pages = append(pages, cloneApps(m.pages[id]))
	}
	m.mu.RUnlock()

	// fn runs unlocked so it may call back into the mock
	for _, apps := range pages {
		if err := fn(apps); err != nil {
			return 0, err
		}
	}
	return len(pages), nil
}

// SaveShortcuts overwrites the dock.
func (m *MockStore) SaveShortcuts(ctx context.Context, shortcuts []AppReference) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.open {
		return ErrStoreUnavailable
	}
	m.shortcuts = cloneApps(shortcuts)
	return nil
}

// Shortcuts returns the dock, empty if never saved.
func (m *MockStore) Shortcuts(ctx context.Context) ([]AppReference, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.open {
		return nil, ErrStoreUnavailable
	}
	return cloneApps(m.shortcuts), nil
}

// Bookmarks returns every bookmark ordered by origin.
func (m *MockStore) Bookmarks(ctx context.Context) ([]*Bookmark, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.open {
		return nil, ErrStoreUnavailable
	}

	result := make([]*Bookmark, 0, len(m.bookmarks))
	for _, b := range m.bookmarks {
		result = append(result, &b)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].URL < result[j].URL })
	return result, nil
}

// SaveBookmark upserts a bookmark keyed by its URL.
func (m *MockStore) SaveBookmark(ctx context.Context, bookmark Bookmark) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.open {
		return ErrStoreUnavailable
	}

	b, err := NewBookmark(bookmark.URL, bookmark.Name, bookmark.Icon)
	if err != nil {
		return err
	}
	m.bookmarks[b.Origin()] = b
	return nil
}

// DeleteBookmark removes a bookmark; missing origins are ignored.
func (m *MockStore) DeleteBookmark(ctx context.Context, origin string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.open {
		return ErrStoreUnavailable
	}
	delete(m.bookmarks, origin)
	return nil
}

// Close marks the mock closed. Data survives for a later Init.
func (m *MockStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.open = false
	return nil
}

func cloneApps(apps []AppReference) []AppReference {
	out := make([]AppReference, len(apps))
	copy(out, apps)
	return out
}
