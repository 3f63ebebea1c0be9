// ABOUTME: Tests for configuration loading and parsing
// ABOUTME: Covers each file format, env var expansion, defaults and validation

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path
}

func TestLoad_ValidYAML(t *testing.T) {
	configPath := writeConfig(t, "config.yaml", `
database:
  path: "./home.db"
  driver: "sqlite"
  busy_timeout: "2s"

logging:
  level: "debug"
  format: "json"

defaults:
  pages:
    - - origin: "app://clock.gaiamobile.org"
      - origin: "app://calendar.gaiamobile.org"
    - - origin: "https://www.mozilla.org/"
        bookmark: true
  dock:
    - origin: "app://dialer.gaiamobile.org"
      entry_point: "dialer"
  bookmarks:
    - url: "https://www.mozilla.org/"
      name: "Mozilla"
      icon: "https://www.mozilla.org/favicon.ico"
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Database.Path != "./home.db" {
		t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, "./home.db")
	}
	if cfg.Database.BusyTimeout != 2*time.Second {
		t.Errorf("Database.BusyTimeout = %v, want %v", cfg.Database.BusyTimeout, 2*time.Second)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("Logging = %+v, want debug/json", cfg.Logging)
	}

	if len(cfg.Defaults.Pages) != 2 {
		t.Fatalf("len(Defaults.Pages) = %d, want 2", len(cfg.Defaults.Pages))
	}
	if got := cfg.Defaults.Pages[0][1].Origin; got != "app://calendar.gaiamobile.org" {
		t.Errorf("Defaults.Pages[0][1].Origin = %q", got)
	}
	if !cfg.Defaults.Pages[1][0].Bookmark {
		t.Error("Defaults.Pages[1][0].Bookmark = false, want true")
	}
	if len(cfg.Defaults.Dock) != 1 || cfg.Defaults.Dock[0].EntryPoint != "dialer" {
		t.Errorf("Defaults.Dock = %+v", cfg.Defaults.Dock)
	}
	if len(cfg.Defaults.Bookmarks) != 1 || cfg.Defaults.Bookmarks[0].Name != "Mozilla" {
		t.Errorf("Defaults.Bookmarks = %+v", cfg.Defaults.Bookmarks)
	}
}

func TestLoad_ValidTOML(t *testing.T) {
	configPath := writeConfig(t, "config.toml", `
[database]
path = "/tmp/home.db"
driver = "sqlite3"

[logging]
level = "warn"

[defaults]
dock = [
  { origin = "app://dialer.gaiamobile.org" },
  { origin = "app://sms.gaiamobile.org" },
]

[[defaults.bookmarks]]
url = "https://example.com/"
name = "Example"
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Database.Driver != "sqlite3" {
		t.Errorf("Database.Driver = %q, want %q", cfg.Database.Driver, "sqlite3")
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "warn")
	}
	if len(cfg.Defaults.Dock) != 2 || cfg.Defaults.Dock[1].Origin != "app://sms.gaiamobile.org" {
		t.Errorf("Defaults.Dock = %+v", cfg.Defaults.Dock)
	}
	if len(cfg.Defaults.Bookmarks) != 1 || cfg.Defaults.Bookmarks[0].URL != "https://example.com/" {
		t.Errorf("Defaults.Bookmarks = %+v", cfg.Defaults.Bookmarks)
	}
}

func TestLoad_ValidJSONWithComments(t *testing.T) {
	configPath := writeConfig(t, "config.jsonc", `{
  // where the layout lives
  "database": {"path": "/tmp/home.db", "busy_timeout": "250ms"},
  "logging": {"format": "json"},
}`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Database.BusyTimeout != 250*time.Millisecond {
		t.Errorf("Database.BusyTimeout = %v, want 250ms", cfg.Database.BusyTimeout)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Logging.Format = %q, want json", cfg.Logging.Format)
	}
}

func TestLoad_Defaults(t *testing.T) {
	configPath := writeConfig(t, "config.yaml", `
database:
  path: "/tmp/home.db"
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Database.Driver != "sqlite" {
		t.Errorf("Database.Driver = %q, want sqlite", cfg.Database.Driver)
	}
	if cfg.Database.BusyTimeout != 5*time.Second {
		t.Errorf("Database.BusyTimeout = %v, want 5s", cfg.Database.BusyTimeout)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "text" {
		t.Errorf("Logging = %+v, want info/text", cfg.Logging)
	}
	if !cfg.Defaults.IsEmpty() {
		t.Errorf("Defaults = %+v, want empty", cfg.Defaults)
	}
}

func TestLoad_EnvVarExpansion(t *testing.T) {
	t.Setenv("TEST_HOMESTORE_DIR", "/var/lib/homestore")

	configPath := writeConfig(t, "config.yaml", `
database:
  path: "${TEST_HOMESTORE_DIR}/home.db"
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Database.Path != "/var/lib/homestore/home.db" {
		t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, "/var/lib/homestore/home.db")
	}
}

func TestLoad_HomeExpansion(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	configPath := writeConfig(t, "config.yaml", `
database:
  path: "~/homestore/home.db"
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := filepath.Join(home, "homestore", "home.db")
	if cfg.Database.Path != want {
		t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, want)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("Load() expected error for missing file, got nil")
	}
}

func TestLoad_UnsupportedFormat(t *testing.T) {
	configPath := writeConfig(t, "config.ini", "[database]\npath=/tmp/home.db\n")

	_, err := Load(configPath)
	if err == nil || !strings.Contains(err.Error(), "unsupported config format") {
		t.Errorf("Load() error = %v, want unsupported config format", err)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	configPath := writeConfig(t, "config.yaml", `
database:
  path: [unclosed
`)

	_, err := Load(configPath)
	if err == nil {
		t.Error("Load() expected error for invalid YAML, got nil")
	}
}

func TestLoad_InvalidDuration(t *testing.T) {
	configPath := writeConfig(t, "config.yaml", `
database:
  path: "/tmp/home.db"
  busy_timeout: "soon"
`)

	_, err := Load(configPath)
	if err == nil || !strings.Contains(err.Error(), "busy_timeout") {
		t.Errorf("Load() error = %v, want busy_timeout parse error", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"default is valid", func(c *Config) {}, ""},
		{"missing path", func(c *Config) { c.Database.Path = "" }, "database.path"},
		{"bad driver", func(c *Config) { c.Database.Driver = "postgres" }, "database.driver"},
		{"bad level", func(c *Config) { c.Logging.Level = "verbose" }, "logging.level"},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"page app without origin", func(c *Config) {
			c.Defaults.Pages = [][]AppConfig{{{Origin: "app://a"}, {}}}
		}, "defaults.pages[0][1]"},
		{"dock app without origin", func(c *Config) {
			c.Defaults.Dock = []AppConfig{{}}
		}, "defaults.dock[0]"},
		{"bookmark without url", func(c *Config) {
			c.Defaults.Bookmarks = []BookmarkConfig{{Name: "x"}}
		}, "defaults.bookmarks[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("TEST_VAR_ONE", "one")

	tests := []struct {
		input string
		want  string
	}{
		{"${TEST_VAR_ONE}", "one"},
		{"a-${TEST_VAR_ONE}-b", "a-one-b"},
		{"${TEST_VAR_UNSET_XYZ}", ""},
		{"no vars", "no vars"},
	}

	for _, tt := range tests {
		if got := expandEnvVars(tt.input); got != tt.want {
			t.Errorf("expandEnvVars(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestDataDir_XDG(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/xdg/data")

	if got := DataDir(); got != "/xdg/data/homestore" {
		t.Errorf("DataDir() = %q, want %q", got, "/xdg/data/homestore")
	}
}
