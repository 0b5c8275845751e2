// Package ports defines interfaces for external dependencies.
// Ports are contracts that adapters implement, allowing the application layer
// to depend on abstractions rather than concrete implementations.
//
// Port Design Principles:
//   - Context as first parameter (always) for cancellation and deadlines
//   - Return domain types, never external DTOs or infrastructure types
//   - Error returns use domain error types (ErrNotFound, ErrUnavailable, etc.)
//   - Keep interfaces small and focused (Interface Segregation Principle)
package ports

import (
	"context"

	"github.com/jsamuelsen/daily-quote/internal/domain"
)

// KeyValueStore is the string-keyed persistence the application keeps its
// small amount of state in. Each key is an independent record with
// last-writer-wins semantics; implementations must be goroutine-safe.
//
// Example usage in application layer:
//
//	raw, err := store.Get(ctx, app.KeyImportedQuotes)
//	if domain.IsNotFound(err) {
//	    // fall back to the bundled collection
//	}
type KeyValueStore interface {
	// Get returns the value stored under key.
	// Returns domain.ErrNotFound if the key does not exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key in a single write, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Remove deletes key. Does not return an error if the key does not exist.
	Remove(ctx context.Context, key string) error
}

// HighlightsParser turns a raw highlights export into quotes.
// Malformed input fails as a whole with a *domain.ParseError.
type HighlightsParser interface {
	Parse(ctx context.Context, raw string) ([]domain.Quote, error)
}

// Notifier is the local reminder queue. Reminders live only here, never in
// application storage.
type Notifier interface {
	// Schedule registers a one-shot reminder and returns it with its assigned ID.
	// Returns domain.ErrUnavailable when the queue cannot accept it.
	Schedule(ctx context.Context, reminder domain.Reminder) (domain.ScheduledReminder, error)

	// CancelAll removes every pending reminder. Idempotent.
	CancelAll(ctx context.Context) error

	// List returns the pending reminders ordered by fire time.
	List(ctx context.Context) ([]domain.ScheduledReminder, error)

	// Capacity is the maximum number of reminders that may be pending at once.
	Capacity() int
}

// ReminderSink delivers a due reminder to the user.
// Implementations should respect context deadlines and cancellation.
type ReminderSink interface {
	// Name identifies the sink in logs and metrics.
	Name() string

	// Deliver shows the reminder. Returns domain.ErrUnavailable when the
	// delivery channel cannot be reached.
	Deliver(ctx context.Context, reminder domain.ScheduledReminder) error
}
