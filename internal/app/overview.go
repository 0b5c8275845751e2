package app

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/jsamuelsen/daily-quote/internal/domain"
)

// DailyQuoter returns the quote of the day.
type DailyQuoter interface {
	GetDailyQuote(ctx context.Context) (domain.Quote, error)
}

// ReminderView exposes the reminder state shown alongside the daily quote.
type ReminderView interface {
	GetNotificationTime(ctx context.Context) (domain.ClockTime, error)
	List(ctx context.Context) ([]domain.ScheduledReminder, error)
}

// Overview is everything the "today" screen shows.
type Overview struct {
	Quote            domain.Quote
	NotificationTime domain.ClockTime
	NextReminder     *domain.ScheduledReminder
	Pending          int
}

// Today gathers the daily quote and reminder state concurrently. The first
// failure cancels the other lookups.
func Today(ctx context.Context, quoter DailyQuoter, reminders ReminderView) (*Overview, error) {
	var (
		out     Overview
		pending []domain.ScheduledReminder
	)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		out.Quote, err = quoter.GetDailyQuote(ctx)
		return err
	})
	g.Go(func() (err error) {
		out.NotificationTime, err = reminders.GetNotificationTime(ctx)
		return err
	})
	g.Go(func() (err error) {
		pending, err = reminders.List(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("building overview: %w", err)
	}

	out.Pending = len(pending)
	if len(pending) > 0 {
		next := pending[0]
		out.NextReminder = &next
	}

	return &out, nil
}
