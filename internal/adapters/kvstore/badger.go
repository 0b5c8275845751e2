package kvstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"github.com/jsamuelsen/daily-quote/internal/domain"
)

// keyPrefix namespaces application keys inside a shared database.
const keyPrefix = "dq:"

// Badger is a KeyValueStore backed by an embedded Badger database.
type Badger struct {
	db     *badger.DB
	logger *slog.Logger
}

// OpenBadger opens (or creates) a Badger database at path.
func OpenBadger(path string, logger *slog.Logger) (*Badger, error) {
	if logger == nil {
		logger = slog.Default()
	}

	opts := badger.DefaultOptions(path)
	opts.Logger = nil
	opts.SyncWrites = true
	opts.CompactL0OnClose = true

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening badger db: %w", err)
	}

	logger.Info("badger store opened", slog.String("path", path))

	return &Badger{db: db, logger: logger}, nil
}

// Get retrieves the value stored under key.
func (b *Badger) Get(_ context.Context, key string) ([]byte, error) {
	var value []byte

	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPrefix + key))
		if err != nil {
			return err
		}

		value, err = item.ValueCopy(nil)

		return err
	})

	switch {
	case errors.Is(err, badger.ErrKeyNotFound):
		return nil, domain.NewNotFoundError("key", key)
	case err != nil:
		return nil, fmt.Errorf("reading %q: %w", key, err)
	}

	return value, nil
}

// Set stores value under key in one transaction.
func (b *Badger) Set(_ context.Context, key string, value []byte) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyPrefix+key), value)
	})
	if err != nil {
		return fmt.Errorf("writing %q: %w", key, err)
	}

	return nil
}

// Remove deletes key; a missing key is not an error.
func (b *Badger) Remove(_ context.Context, key string) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(keyPrefix + key))
	})
	if err != nil {
		return fmt.Errorf("removing %q: %w", key, err)
	}

	return nil
}

// Name implements ports.HealthChecker.
func (b *Badger) Name() string {
	return "badger"
}

// Check implements ports.HealthChecker.
func (b *Badger) Check(_ context.Context) error {
	if b.db.IsClosed() {
		return domain.NewUnavailableError("badger", "database closed")
	}

	return nil
}

// Close flushes and closes the database.
func (b *Badger) Close() error {
	b.logger.Info("closing badger store")

	return b.db.Close()
}
