package app

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"strconv"
	"sync"
	"time"

	"github.com/jsamuelsen/daily-quote/internal/domain"
	"github.com/jsamuelsen/daily-quote/internal/platform/logging"
	"github.com/jsamuelsen/daily-quote/internal/ports"
)

// DefaultMaxRetries bounds the draws spent looking for a valid quote.
const DefaultMaxRetries = 3

const dateLayout = "2006-01-02"

// DailySelectorConfig contains the dependencies of the daily selector.
type DailySelectorConfig struct {
	Quotes     QuoteLoader
	Store      ports.KeyValueStore
	MaxRetries int

	// Rand is the source indices are drawn from. Defaults to a randomly seeded PCG.
	Rand *rand.Rand

	// Now is the clock the local calendar day is read from. Defaults to time.Now.
	Now func() time.Time

	Metrics ports.DomainMetrics
	Logger  *slog.Logger
}

// DailySelector picks one quote per local calendar day and keeps returning
// it until the day changes or the collection is replaced.
type DailySelector struct {
	quotes     QuoteLoader
	store      ports.KeyValueStore
	maxRetries int
	now        func() time.Time
	metrics    ports.DomainMetrics
	logger     *slog.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// NewDailySelector creates a daily selector. It panics without a quote
// loader or a store.
func NewDailySelector(cfg DailySelectorConfig) *DailySelector {
	if cfg.Quotes == nil {
		panic("app: DailySelectorConfig.Quotes is required")
	}

	if cfg.Store == nil {
		panic("app: DailySelectorConfig.Store is required")
	}

	maxRetries := cfg.MaxRetries
	if maxRetries < 1 {
		maxRetries = DefaultMaxRetries
	}

	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	metrics := cfg.Metrics
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &DailySelector{
		quotes:     cfg.Quotes,
		store:      cfg.Store,
		maxRetries: maxRetries,
		now:        now,
		metrics:    metrics,
		logger:     logger.With(slog.String("component", "app.DailySelector")),
		rng:        rng,
	}
}

// GetDailyQuote returns today's quote, drawing and persisting a new one when
// the stored record is from another day or no longer points into the
// collection.
func (s *DailySelector) GetDailyQuote(ctx context.Context) (domain.Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	logger := logging.FromContextOr(ctx, s.logger)

	quotes, err := s.quotes.Load(ctx)
	if err != nil {
		return domain.Quote{}, domain.NewSelectionError(0, err)
	}

	today := s.now().Format(dateLayout)

	sel, ok, err := s.stored(ctx)
	if err != nil {
		return domain.Quote{}, domain.NewSelectionError(0, err)
	}

	if ok && sel.Date == today && sel.Index >= 0 && sel.Index < len(quotes) {
		s.metrics.DailyQuoteServed(true)

		return quotes[sel.Index], nil
	}

	var lastErr error

	for attempt := 1; attempt <= s.maxRetries; attempt++ {
		idx := s.rng.IntN(len(quotes))

		err := quotes[idx].Validate()
		if err != nil {
			lastErr = err

			logger.WarnContext(ctx, "drew invalid quote",
				slog.Int("index", idx),
				slog.Int("attempt", attempt),
				slog.Any("error", err),
			)

			continue
		}

		err = s.persist(ctx, domain.DailySelection{Date: today, Index: idx})
		if err != nil {
			return domain.Quote{}, domain.NewSelectionError(attempt, err)
		}

		s.metrics.DailyQuoteServed(false)

		logger.InfoContext(ctx, "selected daily quote",
			slog.String("date", today),
			slog.Int("index", idx),
			slog.String("quote_id", quotes[idx].ID),
		)

		return quotes[idx], nil
	}

	return domain.Quote{}, domain.NewSelectionError(s.maxRetries, lastErr)
}

// stored reads the selection record. A missing or unreadable index is
// reported as no record.
func (s *DailySelector) stored(ctx context.Context) (domain.DailySelection, bool, error) {
	date, err := s.store.Get(ctx, KeyDailyDate)
	if domain.IsNotFound(err) {
		return domain.DailySelection{}, false, nil
	}

	if err != nil {
		return domain.DailySelection{}, false, err
	}

	rawIndex, err := s.store.Get(ctx, KeyDailyIndex)
	if domain.IsNotFound(err) {
		return domain.DailySelection{}, false, nil
	}

	if err != nil {
		return domain.DailySelection{}, false, err
	}

	idx, err := strconv.Atoi(string(rawIndex))
	if err != nil {
		logging.FromContextOr(ctx, s.logger).WarnContext(ctx, "ignoring unreadable daily index",
			slog.String("value", string(rawIndex)),
		)

		return domain.DailySelection{}, false, nil
	}

	return domain.DailySelection{Date: string(date), Index: idx}, true, nil
}

// persist writes the index before the date so the date only matches once
// the index it belongs to is in place.
func (s *DailySelector) persist(ctx context.Context, sel domain.DailySelection) error {
	err := s.store.Set(ctx, KeyDailyIndex, []byte(strconv.Itoa(sel.Index)))
	if err != nil {
		return err
	}

	return s.store.Set(ctx, KeyDailyDate, []byte(sel.Date))
}
