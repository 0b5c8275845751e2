package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jsamuelsen/daily-quote/internal/domain"
	"github.com/jsamuelsen/daily-quote/internal/platform/logging"
	"github.com/jsamuelsen/daily-quote/internal/ports"
)

// Persisted keys. Each is an independent record in the key-value store.
const (
	KeyImportedQuotes   = "importedQuotes"
	KeyDailyDate        = "quoteOfTheDayDate"
	KeyDailyIndex       = "quoteOfTheDayIndex"
	KeyNotificationTime = "notificationTime"
)

// Collection sources reported in StoreError.
const (
	SourceImported = "imported"
	SourceBundled  = "bundled"
)

// QuoteLoader provides the current quote collection.
type QuoteLoader interface {
	Load(ctx context.Context) ([]domain.Quote, error)
}

// ImportListener is called after a successful import with the new collection.
type ImportListener func(ctx context.Context, quotes []domain.Quote)

// QuoteStoreConfig contains the dependencies of the quote store.
type QuoteStoreConfig struct {
	Parser   ports.HighlightsParser
	Store    ports.KeyValueStore
	Bundled  []byte
	Executor *Executor
	Metrics  ports.DomainMetrics
	Logger   *slog.Logger
}

// QuoteStore serves the active quote collection: the last successful import,
// or the bundled collection when nothing was imported.
type QuoteStore struct {
	parser  ports.HighlightsParser
	store   ports.KeyValueStore
	bundled []byte
	exec    *Executor
	metrics ports.DomainMetrics
	logger  *slog.Logger

	mu            sync.RWMutex
	bundledQuotes []domain.Quote
	listeners     []ImportListener
}

// importBatch is a verified import ready to be written.
type importBatch struct {
	quotes []domain.Quote
	blob   []byte
}

// NewQuoteStore creates a quote store. It panics without a parser or a store.
func NewQuoteStore(cfg QuoteStoreConfig) *QuoteStore {
	if cfg.Parser == nil {
		panic("app: QuoteStoreConfig.Parser is required")
	}

	if cfg.Store == nil {
		panic("app: QuoteStoreConfig.Store is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	exec := cfg.Executor
	if exec == nil {
		exec = NewExecutor(logger)
	}

	metrics := cfg.Metrics
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}

	return &QuoteStore{
		parser:  cfg.Parser,
		store:   cfg.Store,
		bundled: cfg.Bundled,
		exec:    exec,
		metrics: metrics,
		logger:  logger.With(slog.String("component", "app.QuoteStore")),
	}
}

// OnImport registers a listener for successful imports.
func (s *QuoteStore) OnImport(fn ImportListener) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.listeners = append(s.listeners, fn)
}

// Load returns the active collection in stored order.
// A present but unreadable import is an error, never a silent fallback.
func (s *QuoteStore) Load(ctx context.Context) ([]domain.Quote, error) {
	raw, err := s.store.Get(ctx, KeyImportedQuotes)

	switch {
	case err == nil:
		return decodeImported(raw)
	case domain.IsNotFound(err):
		return s.loadBundled()
	default:
		return nil, domain.NewStoreError(SourceImported, "read failed", err)
	}
}

func decodeImported(raw []byte) ([]domain.Quote, error) {
	var quotes []domain.Quote

	err := json.Unmarshal(raw, &quotes)
	if err != nil {
		return nil, domain.NewStoreError(SourceImported, "corrupt collection", err)
	}

	if len(quotes) == 0 {
		return nil, domain.NewStoreError(SourceImported, "empty collection", nil)
	}

	return quotes, nil
}

func (s *QuoteStore) loadBundled() ([]domain.Quote, error) {
	s.mu.RLock()
	cached := s.bundledQuotes
	s.mu.RUnlock()

	if cached != nil {
		return cached, nil
	}

	if len(s.bundled) == 0 {
		return nil, domain.NewStoreError(SourceBundled, "missing", nil)
	}

	var quotes []domain.Quote

	err := json.Unmarshal(s.bundled, &quotes)
	if err != nil {
		return nil, domain.NewStoreError(SourceBundled, "not a JSON array of quotes", err)
	}

	if len(quotes) == 0 {
		return nil, domain.NewStoreError(SourceBundled, "empty collection", nil)
	}

	s.mu.Lock()
	s.bundledQuotes = quotes
	s.mu.Unlock()

	return quotes, nil
}

// All is Load under the name the listing endpoints use.
func (s *QuoteStore) All(ctx context.Context) ([]domain.Quote, error) {
	return s.Load(ctx)
}

// ByID finds a quote in the active collection.
func (s *QuoteStore) ByID(ctx context.Context, id string) (domain.Quote, error) {
	quotes, err := s.Load(ctx)
	if err != nil {
		return domain.Quote{}, err
	}

	for _, q := range quotes {
		if q.ID == id {
			return q, nil
		}
	}

	return domain.Quote{}, domain.NewNotFoundError("quote", id)
}

// Import parses a highlights export and replaces the imported collection with
// it in a single write. On a parse failure the previous import is untouched
// and the *domain.ParseError is returned as-is.
func (s *QuoteStore) Import(ctx context.Context, raw string) ([]domain.Quote, error) {
	var prevDate []byte

	op := Operation[string, []domain.Quote, importBatch, []domain.Quote]{
		Name:    "ImportHighlights",
		Perform: s.parser.Parse,
		Verify:  verifyImport,
		Archive: func(ctx context.Context, raw string, batch importBatch) error {
			prev, err := s.store.Get(ctx, KeyDailyDate)
			switch {
			case err == nil:
				prevDate = prev
			case !domain.IsNotFound(err):
				return domain.NewStoreError(SourceImported, "read daily selection", err)
			}

			return s.archiveImport(ctx, raw, batch)
		},
		Rollback: func(ctx context.Context, _ string, _ error) error {
			if prevDate == nil {
				return nil
			}

			return s.store.Set(ctx, KeyDailyDate, prevDate)
		},
		Respond: func(_ context.Context, _ string, batch importBatch) ([]domain.Quote, error) {
			return batch.quotes, nil
		},
	}

	quotes, err := Execute(ctx, s.exec, op, raw)
	if err != nil {
		return nil, s.importFailed(ctx, err)
	}

	s.metrics.QuotesImported(len(quotes))

	logging.FromContextOr(ctx, s.logger).InfoContext(ctx, "imported highlights",
		slog.Int("count", len(quotes)),
	)

	s.mu.RLock()
	listeners := append([]ImportListener(nil), s.listeners...)
	s.mu.RUnlock()

	for _, fn := range listeners {
		fn(ctx, quotes)
	}

	return quotes, nil
}

func verifyImport(_ context.Context, _ string, quotes []domain.Quote) (importBatch, error) {
	if len(quotes) == 0 {
		return importBatch{}, domain.NewParseError(0, "", "empty input")
	}

	for i := range quotes {
		err := quotes[i].Validate()
		if err != nil {
			return importBatch{}, domain.NewParseError(i+1, "", err.Error())
		}
	}

	blob, err := json.Marshal(quotes)
	if err != nil {
		return importBatch{}, fmt.Errorf("encoding quotes: %w", err)
	}

	return importBatch{quotes: quotes, blob: blob}, nil
}

// archiveImport clears the selection date first so a stale daily record can
// never outlive a successful import, then writes the whole collection. When
// the write fails the import's rollback puts the old date back.
func (s *QuoteStore) archiveImport(ctx context.Context, _ string, batch importBatch) error {
	err := s.store.Remove(ctx, KeyDailyDate)
	if err != nil {
		return domain.NewStoreError(SourceImported, "clear daily selection", err)
	}

	err = s.store.Set(ctx, KeyImportedQuotes, batch.blob)
	if err != nil {
		return domain.NewStoreError(SourceImported, "write failed", err)
	}

	// The record is already invalid without its date.
	err = s.store.Remove(ctx, KeyDailyIndex)
	if err != nil {
		logging.FromContextOr(ctx, s.logger).WarnContext(ctx, "failed to clear daily index",
			slog.Any("error", err),
		)
	}

	return nil
}

func (s *QuoteStore) importFailed(ctx context.Context, err error) error {
	logger := logging.FromContextOr(ctx, s.logger)

	var parseErr *domain.ParseError
	if errors.As(err, &parseErr) {
		s.metrics.ImportRejected("parse")
		logger.WarnContext(ctx, "highlights import rejected", slog.Any("error", parseErr))

		return parseErr
	}

	s.metrics.ImportRejected("store")
	logger.ErrorContext(ctx, "highlights import failed", slog.Any("error", err))

	var storeErr *domain.StoreError
	if errors.As(err, &storeErr) {
		return storeErr
	}

	return domain.NewStoreError(SourceImported, "import failed", err)
}
