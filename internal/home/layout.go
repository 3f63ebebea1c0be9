// ABOUTME: Layout snapshot of the whole home screen state
// ABOUTME: Used for export/import files and for seeding defaults from config

package home

import (
	"encoding/json"
	"fmt"

	"github.com/2389/homestore/internal/config"
	"github.com/2389/homestore/internal/store"
)

// LayoutVersion is the version of the snapshot format.
const LayoutVersion = 1

// Layout is a full copy of the home screen state
type Layout struct {
	Version   int                    `json:"version"`
	Pages     [][]store.AppReference `json:"pages"`
	Dock      []store.AppReference   `json:"dock"`
	Bookmarks []store.Bookmark       `json:"bookmarks"`
}

// IsEmpty reports whether the layout holds nothing.
func (l *Layout) IsEmpty() bool {
	return len(l.Pages) == 0 && len(l.Dock) == 0 && len(l.Bookmarks) == 0
}

// Validate checks every record in the layout.
func (l *Layout) Validate() error {
	if l.Version != LayoutVersion {
		return fmt.Errorf("unsupported layout version %d (want %d)", l.Version, LayoutVersion)
	}
	for i, page := range l.Pages {
		for j, app := range page {
			if _, err := store.NewAppReference(app.Origin, app.EntryPoint); err != nil {
				return fmt.Errorf("page %d app %d: %w", i, j, err)
			}
		}
	}
	for i, app := range l.Dock {
		if _, err := store.NewAppReference(app.Origin, app.EntryPoint); err != nil {
			return fmt.Errorf("dock app %d: %w", i, err)
		}
	}
	for i, b := range l.Bookmarks {
		if _, err := store.NewBookmark(b.URL, b.Name, b.Icon); err != nil {
			return fmt.Errorf("bookmark %d: %w", i, err)
		}
	}
	return nil
}

// DecodeLayout parses and validates a snapshot.
func DecodeLayout(data []byte) (*Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("decoding layout: %w", err)
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return &l, nil
}

// Encode renders the snapshot as indented JSON.
func (l *Layout) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding layout: %w", err)
	}
	return append(data, '\n'), nil
}

// LayoutFromConfig converts the configured default layout.
func LayoutFromConfig(d config.DefaultsConfig) *Layout {
	l := &Layout{
		Version:   LayoutVersion,
		Pages:     make([][]store.AppReference, 0, len(d.Pages)),
		Dock:      appRefs(d.Dock),
		Bookmarks: make([]store.Bookmark, 0, len(d.Bookmarks)),
	}
	for _, page := range d.Pages {
		l.Pages = append(l.Pages, appRefs(page))
	}
	for _, b := range d.Bookmarks {
		l.Bookmarks = append(l.Bookmarks, store.Bookmark{URL: b.URL, Name: b.Name, Icon: b.Icon})
	}
	return l
}

func appRefs(apps []config.AppConfig) []store.AppReference {
	refs := make([]store.AppReference, 0, len(apps))
	for _, a := range apps {
		refs = append(refs, store.AppReference{Origin: a.Origin, EntryPoint: a.EntryPoint, Bookmark: a.Bookmark})
	}
	return refs
}
