// ABOUTME: Pages accessor for the home screen grid
// ABOUTME: Full replacement, single page upsert, count and ordered iteration

package store

import (
	"context"
	"encoding/json"
	"fmt"
)

// ReplaceAllPages replaces the whole page collection. Page ids are assigned
// from each page's position, so any previously stored page beyond
// len(pages) is gone afterwards.
func (s *SQLiteStore) ReplaceAllPages(ctx context.Context, pages [][]AppReference) error {
	err := s.Run(ctx, Pages, ReadWrite, func(h *Handle) error {
		if err := h.Clear(); err != nil {
			return err
		}
		for i, apps := range pages {
			page, err := NewPageRecord(i, apps)
			if err != nil {
				return err
			}
			if err := h.Put(page.ID, page); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Debug("replaced pages", "count", len(pages))
	return nil
}

// UpsertPage stores a single page under its own id, leaving other pages untouched.
func (s *SQLiteStore) UpsertPage(ctx context.Context, page PageRecord) error {
	if _, err := s.handle(); err != nil {
		return err
	}
	page, err := NewPageRecord(page.ID, page.Apps)
	if err != nil {
		return err
	}
	return s.Run(ctx, Pages, ReadWrite, func(h *Handle) error {
		return h.Put(page.ID, page)
	})
}

// PageCount returns the number of stored pages.
func (s *SQLiteStore) PageCount(ctx context.Context) (int, error) {
	var count int
	err := s.Run(ctx, Pages, ReadOnly, func(h *Handle) error {
		var err error
		count, err = h.Count()
		return err
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Pages returns every stored page with its id, in ascending id order. Ids
// may be sparse after UpsertPage.
func (s *SQLiteStore) Pages(ctx context.Context) ([]PageRecord, error) {
	pages := []PageRecord{}
	err := s.Run(ctx, Pages, ReadOnly, func(h *Handle) error {
		return h.Each(func(value []byte) error {
			var page PageRecord
			if err := json.Unmarshal(value, &page); err != nil {
				return fmt.Errorf("decoding page: %w", err)
			}
			if page.Apps == nil {
				page.Apps = []AppReference{}
			}
			pages = append(pages, page)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return pages, nil
}

// ForEachPage calls fn with the apps of every page in ascending id order and
// returns the number of pages visited. fn runs inside the read transaction
// and must not call back into the store.
func (s *SQLiteStore) ForEachPage(ctx context.Context, fn func(apps []AppReference) error) (int, error) {
	visited := 0
	err := s.Run(ctx, Pages, ReadOnly, func(h *Handle) error {
		return h.Each(func(value []byte) error {
			var page PageRecord
			if err := json.Unmarshal(value, &page); err != nil {
				return fmt.Errorf("decoding page: %w", err)
			}
			if err := fn(page.Apps); err != nil {
				return err
			}
			visited++
			return nil
		})
	})
	if err != nil {
		return 0, err
	}
	return visited, nil
}
