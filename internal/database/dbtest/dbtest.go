// Package dbtest opens throwaway sqlite stores for package tests.
package dbtest

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/fkhayef/splitledger/internal/database"
)

// Logger discards all output.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Config returns a sqlite config backed by a file in t's temp dir.
func Config(t testing.TB) database.Config {
	t.Helper()
	return database.Config{
		Dialect: database.SQLite,
		DSN:     filepath.Join(t.TempDir(), "ledger.db"),
		Logger:  Logger(),
	}
}

// New opens a migrated sqlite store that is closed when the test ends.
func New(t testing.TB) *database.DB {
	t.Helper()

	cfg := Config(t)
	if err := database.Migrate(cfg); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	db, err := database.Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}
