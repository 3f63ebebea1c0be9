// ABOUTME: Bookmarks accessor keyed by bookmark origin
// ABOUTME: Full scan, upsert and idempotent delete

package store

import (
	"context"
	"encoding/json"
	"fmt"
)

// Bookmarks returns every stored bookmark in ascending origin order.
func (s *SQLiteStore) Bookmarks(ctx context.Context) ([]*Bookmark, error) {
	bookmarks := []*Bookmark{}
	err := s.Run(ctx, Bookmarks, ReadOnly, func(h *Handle) error {
		return h.Each(func(value []byte) error {
			var record BookmarkRecord
			if err := json.Unmarshal(value, &record); err != nil {
				return fmt.Errorf("decoding bookmark: %w", err)
			}
			b := record.Bookmark
			bookmarks = append(bookmarks, &b)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return bookmarks, nil
}

// SaveBookmark stores the bookmark under its URL, replacing an existing
// bookmark with the same origin.
func (s *SQLiteStore) SaveBookmark(ctx context.Context, bookmark Bookmark) error {
	if _, err := s.handle(); err != nil {
		return err
	}
	b, err := NewBookmark(bookmark.URL, bookmark.Name, bookmark.Icon)
	if err != nil {
		return err
	}
	record := BookmarkRecord{Origin: b.Origin(), Bookmark: b}
	if err := s.Run(ctx, Bookmarks, ReadWrite, func(h *Handle) error {
		return h.Put(record.Origin, record)
	}); err != nil {
		return err
	}

	s.logger.Debug("saved bookmark", "origin", record.Origin)
	return nil
}

// DeleteBookmark removes the bookmark with the given origin. Deleting a
// bookmark that does not exist succeeds.
func (s *SQLiteStore) DeleteBookmark(ctx context.Context, origin string) error {
	if err := s.Run(ctx, Bookmarks, ReadWrite, func(h *Handle) error {
		return h.Delete(origin)
	}); err != nil {
		return err
	}

	s.logger.Debug("deleted bookmark", "origin", origin)
	return nil
}
