package notify

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/jsamuelsen/daily-quote/internal/domain"
	"github.com/jsamuelsen/daily-quote/internal/platform/logging"
	"github.com/jsamuelsen/daily-quote/internal/ports"
)

const (
	// DefaultCapacity mirrors the pending-notification ceiling of mobile platforms.
	DefaultCapacity = 64

	defaultDeliveryTimeout = 30 * time.Second

	idPrefix = "rem-"
)

// LocalSchedulerConfig contains configuration for the local scheduler.
type LocalSchedulerConfig struct {
	// Capacity is the maximum number of pending reminders.
	Capacity int

	// Sink shows reminders when they fall due.
	Sink ports.ReminderSink

	// DeliveryTimeout bounds a single Deliver call.
	DeliveryTimeout time.Duration

	// Now is the clock delays are measured against. Defaults to time.Now.
	Now func() time.Time

	Metrics ports.DomainMetrics
	Logger  *slog.Logger
}

// LocalScheduler is an in-process reminder queue with one timer per reminder.
// It implements ports.Notifier and ports.HealthChecker.
type LocalScheduler struct {
	capacity        int
	sink            ports.ReminderSink
	deliveryTimeout time.Duration
	now             func() time.Time
	metrics         ports.DomainMetrics
	logger          *slog.Logger

	mu       sync.Mutex
	pending  map[string]*pendingReminder
	closed   bool
	inflight sync.WaitGroup
}

type pendingReminder struct {
	reminder domain.ScheduledReminder
	timer    *time.Timer
}

// NewLocalScheduler creates a local scheduler. It panics without a sink.
func NewLocalScheduler(cfg LocalSchedulerConfig) *LocalScheduler {
	if cfg.Sink == nil {
		panic("notify: LocalSchedulerConfig.Sink is required")
	}

	s := &LocalScheduler{
		capacity:        cfg.Capacity,
		sink:            cfg.Sink,
		deliveryTimeout: cfg.DeliveryTimeout,
		now:             cfg.Now,
		metrics:         cfg.Metrics,
		pending:         make(map[string]*pendingReminder),
	}

	if s.capacity < 1 {
		s.capacity = DefaultCapacity
	}

	if s.deliveryTimeout <= 0 {
		s.deliveryTimeout = defaultDeliveryTimeout
	}

	if s.now == nil {
		s.now = time.Now
	}

	if s.metrics == nil {
		s.metrics = ports.NopMetrics{}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s.logger = logger.With(slog.String("component", "notify.LocalScheduler"))

	return s
}

// Schedule queues a reminder. Reminders already due fire immediately.
func (s *LocalScheduler) Schedule(ctx context.Context, reminder domain.Reminder) (domain.ScheduledReminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return domain.ScheduledReminder{}, domain.NewUnavailableError("notifier", "closed")
	}

	if len(s.pending) >= s.capacity {
		return domain.ScheduledReminder{}, domain.NewUnavailableError("notifier",
			fmt.Sprintf("queue full (%d pending)", s.capacity))
	}

	id, err := gonanoid.New()
	if err != nil {
		return domain.ScheduledReminder{}, fmt.Errorf("generate reminder id: %w", err)
	}

	scheduled := domain.ScheduledReminder{ID: idPrefix + id, Reminder: reminder}
	delay := max(reminder.FireAt.Sub(s.now()), 0)

	s.pending[scheduled.ID] = &pendingReminder{
		reminder: scheduled,
		timer:    time.AfterFunc(delay, func() { s.fire(scheduled.ID) }),
	}

	logging.FromContextOr(ctx, s.logger).Log(ctx, logging.LevelTrace, "reminder queued",
		slog.String("reminder_id", scheduled.ID),
		slog.Duration("delay", delay),
	)

	return scheduled, nil
}

func (s *LocalScheduler) fire(id string) {
	s.mu.Lock()

	p, ok := s.pending[id]
	if !ok || s.closed {
		s.mu.Unlock()

		return
	}

	delete(s.pending, id)
	s.inflight.Add(1)
	s.mu.Unlock()

	defer s.inflight.Done()

	ctx, cancel := context.WithTimeout(context.Background(), s.deliveryTimeout)
	defer cancel()

	err := s.sink.Deliver(ctx, p.reminder)
	s.metrics.ReminderDelivered(s.sink.Name(), err)

	if err != nil {
		s.logger.ErrorContext(ctx, "reminder delivery failed",
			slog.String("reminder_id", id),
			slog.String("sink", s.sink.Name()),
			slog.Any("error", err),
		)

		return
	}

	s.logger.DebugContext(ctx, "reminder delivered",
		slog.String("reminder_id", id),
		slog.String("sink", s.sink.Name()),
	)
}

// CancelAll stops every pending reminder. Deliveries already running finish.
func (s *LocalScheduler) CancelAll(ctx context.Context) error {
	s.mu.Lock()
	n := s.cancelLocked()
	s.mu.Unlock()

	logging.FromContextOr(ctx, s.logger).DebugContext(ctx, "reminders cancelled", slog.Int("count", n))

	return nil
}

func (s *LocalScheduler) cancelLocked() int {
	n := len(s.pending)

	for id, p := range s.pending {
		p.timer.Stop()
		delete(s.pending, id)
	}

	return n
}

// List returns the pending reminders ordered by fire time.
func (s *LocalScheduler) List(context.Context) ([]domain.ScheduledReminder, error) {
	s.mu.Lock()

	out := make([]domain.ScheduledReminder, 0, len(s.pending))
	for _, p := range s.pending {
		out = append(out, p.reminder)
	}

	s.mu.Unlock()

	slices.SortFunc(out, func(a, b domain.ScheduledReminder) int {
		if c := a.FireAt.Compare(b.FireAt); c != 0 {
			return c
		}

		return cmp.Compare(a.ID, b.ID)
	})

	return out, nil
}

// Capacity implements ports.Notifier.
func (s *LocalScheduler) Capacity() int {
	return s.capacity
}

// Name implements ports.HealthChecker.
func (s *LocalScheduler) Name() string {
	return "notifier"
}

// Check implements ports.HealthChecker.
func (s *LocalScheduler) Check(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return domain.NewUnavailableError("notifier", "closed")
	}

	return nil
}

// Close cancels all pending reminders and waits for running deliveries.
func (s *LocalScheduler) Close() error {
	s.mu.Lock()
	s.closed = true
	s.cancelLocked()
	s.mu.Unlock()

	s.inflight.Wait()

	return nil
}
