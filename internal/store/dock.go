// ABOUTME: Dock accessor storing the single shortcuts record

package store

import "context"

// SaveShortcuts overwrites the dock shortcuts.
func (s *SQLiteStore) SaveShortcuts(ctx context.Context, shortcuts []AppReference) error {
	if shortcuts == nil {
		shortcuts = []AppReference{}
	}
	record := DockRecord{ID: ShortcutsKey, Shortcuts: shortcuts}
	return s.Run(ctx, Dock, ReadWrite, func(h *Handle) error {
		return h.Put(record.ID, record)
	})
}

// Shortcuts returns the dock shortcuts. A store that never saved any returns
// an empty slice.
func (s *SQLiteStore) Shortcuts(ctx context.Context) ([]AppReference, error) {
	var record DockRecord
	err := s.Run(ctx, Dock, ReadOnly, func(h *Handle) error {
		_, err := h.Get(ShortcutsKey, &record)
		return err
	})
	if err != nil {
		return nil, err
	}
	if record.Shortcuts == nil {
		return []AppReference{}, nil
	}
	return record.Shortcuts, nil
}
