// Package home is the launcher-facing layer over the store.
//
// The store keeps pages, dock and bookmarks as independent collections and
// enforces nothing between them. Service adds the cross-collection behaviour
// launcher code needs: seeding a default layout on first run, exporting and
// importing a full Layout, installing bookmark icons and pruning references to
// bookmarks that were deleted.
package home
