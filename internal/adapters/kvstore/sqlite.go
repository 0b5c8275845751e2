package kvstore

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"github.com/jsamuelsen/daily-quote/internal/domain"
)

//go:embed schema.sql
var schemaSQL string

// SQLite is a KeyValueStore backed by a single SQLite table.
type SQLite struct {
	db     *sql.DB
	logger *slog.Logger
}

// OpenSQLite opens (or creates) the database file at path and applies the schema.
func OpenSQLite(path string, logger *slog.Logger) (*SQLite, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("exec schema: %w", err)
	}

	logger.Info("sqlite store opened", slog.String("path", path))

	return &SQLite{db: db, logger: logger}, nil
}

// Get retrieves the value stored under key.
func (s *SQLite) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte

	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, domain.NewNotFoundError("key", key)
	case err != nil:
		return nil, fmt.Errorf("reading %q: %w", key, err)
	}

	return value, nil
}

// Set upserts value under key in one statement.
func (s *SQLite) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("writing %q: %w", key, err)
	}

	return nil
}

// Remove deletes key; a missing key is not an error.
func (s *SQLite) Remove(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("removing %q: %w", key, err)
	}

	return nil
}

// Name implements ports.HealthChecker.
func (s *SQLite) Name() string {
	return "sqlite"
}

// Check implements ports.HealthChecker.
func (s *SQLite) Check(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return domain.NewUnavailableError("sqlite", err.Error())
	}

	return nil
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	s.logger.Info("closing sqlite store")

	return s.db.Close()
}
