package notify

import (
	"context"
	"log/slog"

	"github.com/jsamuelsen/daily-quote/internal/domain"
)

// LogSink writes due reminders to the log. It is the default for headless hosts.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink creates a log sink.
func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}

	return &LogSink{logger: logger.With(slog.String("component", "notify.LogSink"))}
}

// Name implements ports.ReminderSink.
func (s *LogSink) Name() string {
	return "log"
}

// Deliver implements ports.ReminderSink.
func (s *LogSink) Deliver(ctx context.Context, reminder domain.ScheduledReminder) error {
	s.logger.InfoContext(ctx, reminder.Title,
		slog.String("reminder_id", reminder.ID),
		slog.String("quote_id", reminder.QuoteID),
		slog.String("body", reminder.Body),
	)

	return nil
}
