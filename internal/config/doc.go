// Package config handles configuration loading for homestore.
//
// # Overview
//
// Configuration is loaded from a file whose format follows its extension:
//
//   - .yaml, .yml: YAML
//   - .toml: TOML
//   - .json, .jsonc, .hujson: JSON, with comments and trailing commas allowed
//
// Unset optional fields get defaults and the result is validated.
//
// # Configuration File
//
// Default locations (in order):
//
//  1. Path given with --config
//  2. Path from HOMESTORE_CONFIG environment variable
//  3. $XDG_CONFIG_HOME/homestore/config.yaml (~/.config/homestore/config.yaml)
//
// When no file exists at the default location, Default() is used.
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	database:
//	  path: "${HOME}/.local/share/homestore/homescreen.db"
//
// A leading ~/ in database.path is expanded to the home directory.
//
// # Configuration Sections
//
// Database:
//
//	database:
//	  path: "~/.local/share/homestore/homescreen.db"
//	  driver: "sqlite"      # sqlite (pure Go) or sqlite3 (cgo builds only)
//	  busy_timeout: "5s"
//
// Logging:
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
//
// Default layout, seeded the first time a store is created:
//
//	defaults:
//	  pages:
//	    - - origin: "app://clock.gaiamobile.org"
//	      - origin: "app://calendar.gaiamobile.org"
//	  dock:
//	    - origin: "app://dialer.gaiamobile.org"
//	  bookmarks:
//	    - url: "https://www.mozilla.org/"
//	      name: "Mozilla"
//	      icon: "https://www.mozilla.org/favicon.ico"
//
// # Usage
//
//	cfg, err := config.Load("/etc/homestore/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
