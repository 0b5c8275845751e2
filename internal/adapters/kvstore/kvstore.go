// Package kvstore provides the key-value persistence adapters: Badger (the
// default), SQLite and an in-memory store for tests and ephemeral runs.
package kvstore

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jsamuelsen/daily-quote/internal/platform/config"
	"github.com/jsamuelsen/daily-quote/internal/ports"
)

// Store is a KeyValueStore that reports its health and must be closed.
type Store interface {
	ports.KeyValueStore
	ports.HealthChecker
	io.Closer
}

var (
	_ Store = (*Badger)(nil)
	_ Store = (*SQLite)(nil)
	_ Store = (*Memory)(nil)
)

// Open creates the store selected by cfg.Driver.
func Open(cfg *config.StorageConfig, logger *slog.Logger) (Store, error) {
	switch cfg.Driver {
	case "memory":
		return NewMemory(), nil
	case "badger":
		if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
			return nil, fmt.Errorf("creating storage dir: %w", err)
		}

		return OpenBadger(cfg.Path, logger)
	case "sqlite":
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o750); err != nil {
			return nil, fmt.Errorf("creating storage dir: %w", err)
		}

		return OpenSQLite(cfg.Path, logger)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
