// Package backend opens the configured storage backend.
package backend

import (
	"context"
	"fmt"
	"log/slog"

	"fintrack/internal/config"
	"fintrack/internal/storage"
)

// Open builds a storage.Store from the configured backend. Callers own the
// returned store and must Close it.
func Open(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	switch cfg.DataBackend {
	case "sqlite":
		store, err := storage.NewSQLiteStore(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite backend: %w", err)
		}
		slog.InfoContext(ctx, "Initialized SQLite backend", "db_path", cfg.SQLiteDBPath)
		return store, nil

	case "postgres":
		store, err := storage.NewPostgresStore(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, fmt.Errorf("initialize postgres backend: %w", err)
		}
		slog.InfoContext(ctx, "Initialized Postgres backend")
		return store, nil

	case "supabase":
		store, err := storage.NewSupabaseStore(cfg.SupabaseURL, cfg.SupabaseKey)
		if err != nil {
			return nil, fmt.Errorf("initialize supabase backend: %w", err)
		}
		slog.InfoContext(ctx, "Initialized Supabase backend", "url", cfg.SupabaseURL)
		return store, nil

	default:
		return nil, fmt.Errorf("unsupported data backend %q", cfg.DataBackend)
	}
}
