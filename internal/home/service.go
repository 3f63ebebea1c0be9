// ABOUTME: Home screen service layered on the HomeState store
// ABOUTME: Seeds defaults on first run, snapshots/restores layouts and reconciles bookmark references

package home

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/2389/homestore/internal/store"
)

// DefaultAppsPerPage is how many icons fit on a grid page.
const DefaultAppsPerPage = 16

// Service coordinates the three store collections for launcher code.
type Service struct {
	store       store.HomeState
	defaults    *Layout
	appsPerPage int
	logger      *slog.Logger
}

// Option configures a Service
type Option func(*Service)

// WithDefaults sets the layout seeded into a new store.
func WithDefaults(l *Layout) Option {
	return func(s *Service) { s.defaults = l }
}

// WithAppsPerPage sets the page capacity used by InstallBookmark.
func WithAppsPerPage(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.appsPerPage = n
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// NewService creates a Service over st.
func NewService(st store.HomeState, opts ...Option) *Service {
	s := &Service{
		store:       st,
		appsPerPage: DefaultAppsPerPage,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "home")
	return s
}

// BootResult describes what Boot did
type BootResult struct {
	Upgraded bool // the schema was created or migrated
	Seeded   bool // default content was written
}

// Boot initializes the store. When the schema was just created or migrated
// and the store holds no content, the default layout is written.
func (s *Service) Boot(ctx context.Context) (BootResult, error) {
	upgraded, err := s.store.Init(ctx)
	if err != nil {
		return BootResult{}, fmt.Errorf("initializing store: %w", err)
	}
	result := BootResult{Upgraded: upgraded}
	if !upgraded || s.defaults == nil || s.defaults.IsEmpty() {
		return result, nil
	}

	current, err := s.Snapshot(ctx)
	if err != nil {
		return result, err
	}
	if !current.IsEmpty() {
		s.logger.Info("store upgraded with existing content, skipping defaults")
		return result, nil
	}

	if err := s.Restore(ctx, s.defaults); err != nil {
		return result, fmt.Errorf("seeding defaults: %w", err)
	}
	result.Seeded = true
	s.logger.Info("seeded default layout",
		"pages", len(s.defaults.Pages),
		"dock", len(s.defaults.Dock),
		"bookmarks", len(s.defaults.Bookmarks),
	)
	return result, nil
}

// Snapshot reads the full home screen state.
func (s *Service) Snapshot(ctx context.Context) (*Layout, error) {
	l := &Layout{Version: LayoutVersion, Pages: [][]store.AppReference{}}

	if _, err := s.store.ForEachPage(ctx, func(apps []store.AppReference) error {
		l.Pages = append(l.Pages, apps)
		return nil
	}); err != nil {
		return nil, fmt.Errorf("reading pages: %w", err)
	}

	dock, err := s.store.Shortcuts(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading dock: %w", err)
	}
	l.Dock = dock

	bookmarks, err := s.store.Bookmarks(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading bookmarks: %w", err)
	}
	l.Bookmarks = make([]store.Bookmark, 0, len(bookmarks))
	for _, b := range bookmarks {
		l.Bookmarks = append(l.Bookmarks, *b)
	}

	return l, nil
}

// Restore replaces the home screen state with l. Each collection is written
// in its own transaction, so a failure part way leaves earlier collections
// already replaced.
func (s *Service) Restore(ctx context.Context, l *Layout) error {
	if err := l.Validate(); err != nil {
		return err
	}

	if err := s.store.ReplaceAllPages(ctx, l.Pages); err != nil {
		return fmt.Errorf("writing pages: %w", err)
	}
	if err := s.store.SaveShortcuts(ctx, l.Dock); err != nil {
		return fmt.Errorf("writing dock: %w", err)
	}

	existing, err := s.store.Bookmarks(ctx)
	if err != nil {
		return fmt.Errorf("reading bookmarks: %w", err)
	}
	keep := make(map[string]bool, len(l.Bookmarks))
	for _, b := range l.Bookmarks {
		keep[b.Origin()] = true
	}
	for _, b := range existing {
		if keep[b.Origin()] {
			continue
		}
		if err := s.store.DeleteBookmark(ctx, b.Origin()); err != nil {
			return fmt.Errorf("deleting bookmark %s: %w", b.Origin(), err)
		}
	}
	for _, b := range l.Bookmarks {
		if err := s.store.SaveBookmark(ctx, b); err != nil {
			return fmt.Errorf("writing bookmark %s: %w", b.Origin(), err)
		}
	}

	return nil
}

// InstallBookmark saves b and places its icon on the page with the highest
// id, opening a page after it when that one is full. An icon already on the
// grid or dock is not duplicated.
func (s *Service) InstallBookmark(ctx context.Context, b store.Bookmark) error {
	b, err := store.NewBookmark(b.URL, b.Name, b.Icon)
	if err != nil {
		return err
	}
	if err := s.store.SaveBookmark(ctx, b); err != nil {
		return fmt.Errorf("saving bookmark: %w", err)
	}

	dock, err := s.store.Shortcuts(ctx)
	if err != nil {
		return fmt.Errorf("reading dock: %w", err)
	}
	if containsOrigin(dock, b.Origin()) {
		return nil
	}
	pages, err := s.store.Pages(ctx)
	if err != nil {
		return fmt.Errorf("reading pages: %w", err)
	}
	for _, page := range pages {
		if containsOrigin(page.Apps, b.Origin()) {
			return nil
		}
	}

	ref := b.AppReference()
	page := store.PageRecord{ID: 0, Apps: []store.AppReference{ref}}
	if len(pages) > 0 {
		last := pages[len(pages)-1]
		page.ID = last.ID + 1
		if len(last.Apps) < s.appsPerPage {
			page = store.PageRecord{ID: last.ID, Apps: append(last.Apps, ref)}
		}
	}
	if err := s.store.UpsertPage(ctx, page); err != nil {
		return fmt.Errorf("placing bookmark icon: %w", err)
	}

	s.logger.Debug("installed bookmark", "origin", b.Origin(), "page", page.ID)
	return nil
}

// RemoveBookmark deletes the bookmark and every reference to it.
func (s *Service) RemoveBookmark(ctx context.Context, origin string) error {
	if err := s.store.DeleteBookmark(ctx, origin); err != nil {
		return fmt.Errorf("deleting bookmark: %w", err)
	}
	_, err := s.Prune(ctx)
	return err
}

// Prune removes bookmark references on the grid and dock whose bookmark no
// longer exists and returns how many were removed. Only changed pages are
// rewritten, each under its own id, so pages left empty keep their id.
func (s *Service) Prune(ctx context.Context) (int, error) {
	bookmarks, err := s.store.Bookmarks(ctx)
	if err != nil {
		return 0, fmt.Errorf("reading bookmarks: %w", err)
	}
	known := make(map[string]bool, len(bookmarks))
	for _, b := range bookmarks {
		known[b.Origin()] = true
	}
	dangling := func(ref store.AppReference) bool {
		return ref.Bookmark && !known[ref.Origin]
	}

	pages, err := s.store.Pages(ctx)
	if err != nil {
		return 0, fmt.Errorf("reading pages: %w", err)
	}
	removed := 0
	for _, page := range pages {
		kept, n := filterRefs(page.Apps, dangling)
		if n == 0 {
			continue
		}
		if err := s.store.UpsertPage(ctx, store.PageRecord{ID: page.ID, Apps: kept}); err != nil {
			return removed, fmt.Errorf("writing page %d: %w", page.ID, err)
		}
		removed += n
	}

	shortcuts, err := s.store.Shortcuts(ctx)
	if err != nil {
		return removed, fmt.Errorf("reading dock: %w", err)
	}
	dock, n := filterRefs(shortcuts, dangling)
	if n > 0 {
		if err := s.store.SaveShortcuts(ctx, dock); err != nil {
			return removed, fmt.Errorf("writing dock: %w", err)
		}
		removed += n
	}

	if removed > 0 {
		s.logger.Info("pruned dangling bookmark references", "removed", removed)
	}
	return removed, nil
}

func filterRefs(refs []store.AppReference, drop func(store.AppReference) bool) ([]store.AppReference, int) {
	kept := make([]store.AppReference, 0, len(refs))
	for _, ref := range refs {
		if !drop(ref) {
			kept = append(kept, ref)
		}
	}
	return kept, len(refs) - len(kept)
}

func containsOrigin(refs []store.AppReference, origin string) bool {
	for _, ref := range refs {
		if ref.Origin == origin {
			return true
		}
	}
	return false
}
