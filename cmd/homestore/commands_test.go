package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/homestore/internal/config"
	"github.com/2389/homestore/internal/home"
)

const testConfig = `
database:
  path: "${TEST_HOMESTORE_DB}"
logging:
  level: "error"
defaults:
  pages:
    - - origin: "app://clock.gaiamobile.org"
      - origin: "https://www.mozilla.org/"
        bookmark: true
  dock:
    - origin: "app://dialer.gaiamobile.org"
      entry_point: "dialer"
  bookmarks:
    - url: "https://www.mozilla.org/"
      name: "Mozilla"
`

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

// setup writes a config pointing at a fresh database and returns its path.
func setup(t *testing.T) (configPath, dbPath string) {
	t.Helper()
	dir := t.TempDir()
	dbPath = filepath.Join(dir, "home.db")
	t.Setenv("TEST_HOMESTORE_DB", dbPath)

	configPath = filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(testConfig), 0644))
	return configPath, dbPath
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCommandPresence(t *testing.T) {
	cmd := newRootCommand()
	commands := [][]string{
		{"init"}, {"status"}, {"pages"}, {"dock"}, {"dock", "set"},
		{"bookmarks"}, {"bookmarks", "list"}, {"bookmarks", "add"}, {"bookmarks", "rm"},
		{"export"}, {"import"}, {"prune"},
	}

	for _, path := range commands {
		t.Run(strings.Join(path, " "), func(t *testing.T) {
			sub, _, err := cmd.Find(path)
			require.NoError(t, err)
			assert.Equal(t, path[len(path)-1], sub.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := newRootCommand()

	configFlag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Equal(t, "c", configFlag.Shorthand)
	assert.Equal(t, "", configFlag.DefValue)

	require.NotNil(t, cmd.PersistentFlags().Lookup("db"))
	require.NotNil(t, cmd.PersistentFlags().Lookup("verbose"))
}

func TestInit_SeedsDefaultsOnce(t *testing.T) {
	configPath, dbPath := setup(t)

	out, err := execute(t, "", "--config", configPath, "init")
	require.NoError(t, err)
	assert.Contains(t, out, dbPath)
	assert.Contains(t, out, "upgraded")
	assert.Contains(t, out, "Defaults: seeded")

	out, err = execute(t, "", "--config", configPath, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "up to date")
	assert.NotContains(t, out, "seeded")
}

func TestStatus(t *testing.T) {
	configPath, _ := setup(t)

	out, err := execute(t, "", "--config", configPath, "status")
	require.NoError(t, err)
	assert.Contains(t, out, configPath)
	assert.Contains(t, out, "Pages:     1")
	assert.Contains(t, out, "Dock:      1")
	assert.Contains(t, out, "Bookmarks: 1")
}

func TestPagesAndDock(t *testing.T) {
	configPath, _ := setup(t)

	out, err := execute(t, "", "--config", configPath, "pages")
	require.NoError(t, err)
	assert.Contains(t, out, "page 0")
	assert.Contains(t, out, "app://clock.gaiamobile.org")
	assert.Contains(t, out, "https://www.mozilla.org/ (bookmark)")

	out, err = execute(t, "", "--config", configPath, "dock")
	require.NoError(t, err)
	assert.Equal(t, "app://dialer.gaiamobile.org#dialer\n", out)

	_, err = execute(t, "", "--config", configPath, "dock", "set", "app://sms.gaiamobile.org", "app://contacts#main")
	require.NoError(t, err)

	out, err = execute(t, "", "--config", configPath, "dock")
	require.NoError(t, err)
	assert.Equal(t, "app://sms.gaiamobile.org\napp://contacts#main\n", out)

	_, err = execute(t, "", "--config", configPath, "dock", "set", "#entry-only")
	assert.Error(t, err)

	_, err = execute(t, "", "--config", configPath, "dock", "set")
	require.NoError(t, err)
	out, err = execute(t, "", "--config", configPath, "dock")
	require.NoError(t, err)
	assert.Equal(t, "dock is empty\n", out)
}

func TestBookmarks_AddListRemove(t *testing.T) {
	configPath, _ := setup(t)

	_, err := execute(t, "", "--config", configPath, "bookmarks", "add", "https://example.com/", "--name", "Example")
	require.NoError(t, err)

	out, err := execute(t, "", "--config", configPath, "bookmarks", "list")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "https://example.com/  Example", lines[0])
	assert.Equal(t, "https://www.mozilla.org/  Mozilla", lines[1])

	out, err = execute(t, "", "--config", configPath, "pages")
	require.NoError(t, err)
	assert.Contains(t, out, "https://example.com/ (bookmark)")

	_, err = execute(t, "", "--config", configPath, "bookmarks", "rm", "https://example.com/")
	require.NoError(t, err)

	out, err = execute(t, "", "--config", configPath, "pages")
	require.NoError(t, err)
	assert.NotContains(t, out, "example.com")

	_, err = execute(t, "", "--config", configPath, "bookmarks", "add", "relative/path")
	assert.Error(t, err)
}

func TestExportImport_RoundTrip(t *testing.T) {
	configPath, _ := setup(t)
	exportPath := filepath.Join(t.TempDir(), "layout.json")

	_, err := execute(t, "", "--config", configPath, "export", exportPath)
	require.NoError(t, err)

	data, err := os.ReadFile(exportPath)
	require.NoError(t, err)
	exported, err := home.DecodeLayout(data)
	require.NoError(t, err)
	require.Len(t, exported.Pages, 1)

	// Import into a second database
	otherDB := filepath.Join(t.TempDir(), "other.db")
	out, err := execute(t, "", "--config", configPath, "--db", otherDB, "import", exportPath)
	require.NoError(t, err)
	assert.Contains(t, out, "imported 1 pages, 1 dock apps, 1 bookmarks")

	out, err = execute(t, "", "--config", configPath, "--db", otherDB, "export", "-")
	require.NoError(t, err)
	assert.JSONEq(t, string(data), out)
}

func TestImport_FromStdinRejectsBadLayout(t *testing.T) {
	configPath, _ := setup(t)

	_, err := execute(t, `{"version": 99}`, "--config", configPath, "import", "-")
	assert.Error(t, err)

	_, err = execute(t, `not json`, "--config", configPath, "import", "-")
	assert.Error(t, err)
}

func TestPrune(t *testing.T) {
	configPath, _ := setup(t)

	layout := `{"version": 1, "pages": [[{"origin": "https://gone/", "bookmark": true}]], "dock": [], "bookmarks": []}`
	_, err := execute(t, layout, "--config", configPath, "import", "-")
	require.NoError(t, err)

	out, err := execute(t, "", "--config", configPath, "prune")
	require.NoError(t, err)
	assert.Equal(t, "removed 1 dangling references\n", out)
}

func TestLoadConfig(t *testing.T) {
	t.Run("default location missing falls back to defaults", func(t *testing.T) {
		t.Setenv("HOMESTORE_CONFIG", "")
		t.Setenv("XDG_CONFIG_HOME", t.TempDir())

		cfg, path, err := loadConfig("")
		require.NoError(t, err)
		assert.Empty(t, path)
		assert.Equal(t, config.Default(), cfg)
	})

	t.Run("env var location", func(t *testing.T) {
		configPath, dbPath := setup(t)
		t.Setenv("HOMESTORE_CONFIG", configPath)

		cfg, path, err := loadConfig("")
		require.NoError(t, err)
		assert.Equal(t, configPath, path)
		assert.Equal(t, dbPath, cfg.Database.Path)
	})

	t.Run("explicit missing file is an error", func(t *testing.T) {
		_, _, err := loadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}

func TestGetConfigPath_XDG(t *testing.T) {
	t.Setenv("HOMESTORE_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", "/xdg/config")

	assert.Equal(t, "/xdg/config/homestore/config.yaml", getConfigPath())
}

func TestSetupLogger_LevelAndFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := setupLogger(config.LoggingConfig{Level: "warn", Format: "json"}, &buf)

	logger.Info("hidden")
	logger.Warn("shown", "key", "value")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"key":"value"`)

	buf.Reset()
	logger = setupLogger(config.LoggingConfig{Level: "debug", Format: "text"}, &buf)
	logger.With("component", "store").Debug("opened", "path", "/tmp/x")
	assert.Contains(t, buf.String(), "opened")
	assert.Contains(t, buf.String(), "component=store")
	assert.Contains(t, buf.String(), "path=/tmp/x")
}
