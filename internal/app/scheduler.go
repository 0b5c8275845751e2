package app

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/jsamuelsen/daily-quote/internal/domain"
	"github.com/jsamuelsen/daily-quote/internal/platform/logging"
	"github.com/jsamuelsen/daily-quote/internal/ports"
)

// Reminder defaults.
const (
	DefaultReminderTitle     = "Your Daily Kindle Quote"
	DefaultReminderMaxLength = 100
	DefaultWindowCount       = 30

	ellipsis = "..."
	day      = 24 * time.Hour
)

// DefaultNotificationTime is used until the user picks a time.
var DefaultNotificationTime = domain.ClockTime{Hour: 14}

// SchedulerConfig contains the dependencies of the notification scheduler.
type SchedulerConfig struct {
	Quotes   QuoteLoader
	Notifier ports.Notifier
	Store    ports.KeyValueStore

	Title       string
	MaxLength   int
	DefaultTime domain.ClockTime

	// WindowCount is how many daily reminders the rolling window keeps queued.
	WindowCount int

	// Rand is the source quotes are drawn from. Defaults to a randomly seeded PCG.
	Rand *rand.Rand

	// Now is the clock window starts are computed from. Defaults to time.Now.
	Now func() time.Time

	Metrics ports.DomainMetrics
	Logger  *slog.Logger
}

// Scheduler queues batches of quote reminders on the notifier.
// Whole batches are serialised: cancellation always precedes creation.
type Scheduler struct {
	quotes      QuoteLoader
	notifier    ports.Notifier
	store       ports.KeyValueStore
	title       string
	maxLength   int
	defaultTime domain.ClockTime
	windowCount int
	now         func() time.Time
	metrics     ports.DomainMetrics
	logger      *slog.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// NewScheduler creates a notification scheduler. It panics without a quote
// loader, a notifier or a store.
func NewScheduler(cfg SchedulerConfig) *Scheduler {
	if cfg.Quotes == nil || cfg.Notifier == nil || cfg.Store == nil {
		panic("app: SchedulerConfig requires Quotes, Notifier and Store")
	}

	s := &Scheduler{
		quotes:      cfg.Quotes,
		notifier:    cfg.Notifier,
		store:       cfg.Store,
		title:       cfg.Title,
		maxLength:   cfg.MaxLength,
		defaultTime: cfg.DefaultTime,
		windowCount: cfg.WindowCount,
		now:         cfg.Now,
		metrics:     cfg.Metrics,
		rng:         cfg.Rand,
	}

	if s.title == "" {
		s.title = DefaultReminderTitle
	}

	if s.maxLength < len(ellipsis)+1 {
		s.maxLength = DefaultReminderMaxLength
	}

	if s.defaultTime == (domain.ClockTime{}) {
		s.defaultTime = DefaultNotificationTime
	}

	if s.windowCount < 1 {
		s.windowCount = DefaultWindowCount
	}

	if s.now == nil {
		s.now = time.Now
	}

	if s.metrics == nil {
		s.metrics = ports.NopMetrics{}
	}

	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s.logger = logger.With(slog.String("component", "app.Scheduler"))

	return s
}

// ScheduleBatch replaces every pending reminder with count reminders for
// distinct quotes, the i-th firing at start + i*interval. Preconditions are
// checked before the notifier is touched. A failure part way through returns
// a *domain.SchedulerError carrying how many reminders were accepted; retry
// the whole batch.
func (s *Scheduler) ScheduleBatch(
	ctx context.Context,
	start time.Time,
	interval time.Duration,
	count int,
) ([]domain.ScheduledReminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	quotes, err := s.quotes.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading quotes: %w", err)
	}

	return s.scheduleLocked(ctx, quotes, start, interval, count)
}

func (s *Scheduler) scheduleLocked(
	ctx context.Context,
	quotes []domain.Quote,
	start time.Time,
	interval time.Duration,
	count int,
) ([]domain.ScheduledReminder, error) {
	logger := logging.FromContextOr(ctx, s.logger)

	err := s.checkBatch(len(quotes), interval, count)
	if err != nil {
		logger.WarnContext(ctx, "reminder batch rejected", slog.Any("error", err))

		return nil, err
	}

	err = s.notifier.CancelAll(ctx)
	if err != nil {
		return nil, &domain.SchedulerError{Reason: "cancel pending reminders", Cause: err}
	}

	picks := drawDistinct(s.rng, len(quotes), count)
	scheduled := make([]domain.ScheduledReminder, 0, count)

	for i, idx := range picks {
		q := quotes[idx]

		reminder := domain.Reminder{
			FireAt:  start.Add(time.Duration(i) * interval),
			Title:   s.title,
			Body:    truncate(q.Content, s.maxLength),
			QuoteID: q.ID,
		}

		accepted, err := s.notifier.Schedule(ctx, reminder)
		if err != nil {
			s.metrics.RemindersScheduled(i)

			return nil, &domain.SchedulerError{Reason: "schedule reminder", Scheduled: i, Cause: err}
		}

		logger.Log(ctx, logging.LevelTrace, "scheduled reminder",
			slog.String("reminder_id", accepted.ID),
			slog.String("quote_id", q.ID),
			slog.Time("fire_at", reminder.FireAt),
		)

		scheduled = append(scheduled, accepted)
	}

	s.metrics.RemindersScheduled(len(scheduled))

	logger.InfoContext(ctx, "scheduled reminder batch",
		slog.Int("count", len(scheduled)),
		slog.Time("start", start),
		slog.Duration("interval", interval),
	)

	return scheduled, nil
}

func (s *Scheduler) checkBatch(available int, interval time.Duration, count int) error {
	switch {
	case count < 1:
		return domain.NewSchedulerError("count must be at least 1")
	case count > available:
		return domain.NewSchedulerError("insufficient quotes")
	case count > s.notifier.Capacity():
		return domain.NewSchedulerError("exceeds notification limit")
	case count > 1 && interval <= 0:
		return domain.NewSchedulerError("interval must be positive")
	}

	return nil
}

// drawDistinct returns count distinct indices in [0,n) using a partial
// Fisher-Yates shuffle.
func drawDistinct(rng *rand.Rand, n, count int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}

	for i := range count {
		j := i + rng.IntN(n-i)
		idx[i], idx[j] = idx[j], idx[i]
	}

	return idx[:count]
}

// truncate shortens s to at most limit runes, ending in "..." when cut.
func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}

	runes := []rune(s)

	return string(runes[:limit-len(ellipsis)]) + ellipsis
}

// List returns the pending reminders ordered by fire time.
func (s *Scheduler) List(ctx context.Context) ([]domain.ScheduledReminder, error) {
	return s.notifier.List(ctx)
}

// CancelAll removes every pending reminder.
func (s *Scheduler) CancelAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.notifier.CancelAll(ctx)
	if err != nil {
		return fmt.Errorf("cancelling reminders: %w", err)
	}

	logging.FromContextOr(ctx, s.logger).InfoContext(ctx, "cancelled all reminders")

	return nil
}

// GetNotificationTime returns the preferred reminder time, or the default
// when none is stored or the stored value is unreadable.
func (s *Scheduler) GetNotificationTime(ctx context.Context) (domain.ClockTime, error) {
	raw, err := s.store.Get(ctx, KeyNotificationTime)
	if domain.IsNotFound(err) {
		return s.defaultTime, nil
	}

	if err != nil {
		return domain.ClockTime{}, fmt.Errorf("reading notification time: %w", err)
	}

	at, err := domain.ParseClockTime(string(raw))
	if err != nil {
		logging.FromContextOr(ctx, s.logger).WarnContext(ctx, "ignoring unreadable notification time",
			slog.String("value", string(raw)),
		)

		return s.defaultTime, nil
	}

	return at, nil
}

// SetNotificationTime stores the preferred reminder time and reschedules
// the rolling window to start at it.
func (s *Scheduler) SetNotificationTime(ctx context.Context, value string) (domain.ClockTime, error) {
	at, err := domain.ParseClockTime(value)
	if err != nil {
		return domain.ClockTime{}, err
	}

	err = s.store.Set(ctx, KeyNotificationTime, []byte(at.String()))
	if err != nil {
		return domain.ClockTime{}, fmt.Errorf("saving notification time: %w", err)
	}

	logging.FromContextOr(ctx, s.logger).InfoContext(ctx, "notification time updated",
		slog.String("time", at.String()),
	)

	_, err = s.refreshWindow(ctx, true)
	if err != nil {
		return at, err
	}

	return at, nil
}

// EnsureWindow re-batches the rolling window of daily reminders when fewer
// than half of it is still pending. An empty queue, as on first start, is
// always refilled. It reports whether a new batch was scheduled.
func (s *Scheduler) EnsureWindow(ctx context.Context) (bool, error) {
	return s.refreshWindow(ctx, false)
}

// RescheduleWindow replaces the rolling window unconditionally.
func (s *Scheduler) RescheduleWindow(ctx context.Context) error {
	_, err := s.refreshWindow(ctx, true)

	return err
}

func (s *Scheduler) refreshWindow(ctx context.Context, force bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	quotes, err := s.quotes.Load(ctx)
	if err != nil {
		return false, fmt.Errorf("loading quotes: %w", err)
	}

	count := min(s.windowCount, len(quotes), s.notifier.Capacity())

	if !force {
		pending, err := s.notifier.List(ctx)
		if err != nil {
			return false, fmt.Errorf("listing reminders: %w", err)
		}

		if len(pending) > 0 && len(pending) >= (count+1)/2 {
			return false, nil
		}
	}

	at, err := s.GetNotificationTime(ctx)
	if err != nil {
		return false, err
	}

	_, err = s.scheduleLocked(ctx, quotes, at.Next(s.now()), day, count)
	if err != nil {
		return false, err
	}

	return true, nil
}

// Run keeps the rolling window filled until ctx is cancelled. Refresh
// failures are logged and retried on the next tick.
func (s *Scheduler) Run(ctx context.Context, every time.Duration) error {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		refreshed, err := s.EnsureWindow(ctx)

		switch {
		case err != nil:
			s.logger.ErrorContext(ctx, "reminder window refresh failed", slog.Any("error", err))
		case refreshed:
			s.logger.InfoContext(ctx, "reminder window refreshed")
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// OnImport reschedules the window against a freshly imported collection.
// It has the ImportListener signature.
func (s *Scheduler) OnImport(ctx context.Context, quotes []domain.Quote) {
	err := s.RescheduleWindow(ctx)
	if err != nil {
		logging.FromContextOr(ctx, s.logger).ErrorContext(ctx, "rescheduling after import failed",
			slog.Int("quotes", len(quotes)),
			slog.Any("error", err),
		)
	}
}
