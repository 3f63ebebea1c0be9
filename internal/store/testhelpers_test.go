package store

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestStore creates an initialized store in a temporary directory.
func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	st := NewSQLiteStore(Options{
		Path:   filepath.Join(t.TempDir(), "home.db"),
		Logger: discardLogger(),
	})
	if _, err := st.Init(context.Background()); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func app(origin string) AppReference {
	return AppReference{Origin: origin}
}
