package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/daily-quote/internal/domain"
)

func TestToday(t *testing.T) {
	ctx := context.Background()
	quotes := &staticQuotes{quotes: testQuotes(8)}
	kv := newMemoryKV()
	notifier := newFakeNotifier(64)

	sel := newTestSelector(quotes, kv, monday)
	sched := newTestScheduler(quotes, notifier, kv, monday)

	_, err := sched.EnsureWindow(ctx)
	require.NoError(t, err)

	got, err := Today(ctx, sel, sched)
	require.NoError(t, err)

	daily, err := sel.GetDailyQuote(ctx)
	require.NoError(t, err)

	assert.Equal(t, daily, got.Quote)
	assert.Equal(t, DefaultNotificationTime, got.NotificationTime)
	assert.Equal(t, 6, got.Pending)
	require.NotNil(t, got.NextReminder)
	assert.Equal(t, time.Date(2024, time.March, 4, 14, 0, 0, 0, time.UTC), got.NextReminder.FireAt)
}

func TestToday_NoReminders(t *testing.T) {
	quotes := &staticQuotes{quotes: testQuotes(2)}
	kv := newMemoryKV()

	got, err := Today(context.Background(),
		newTestSelector(quotes, kv, monday),
		newTestScheduler(quotes, newFakeNotifier(64), kv, monday),
	)
	require.NoError(t, err)
	assert.Nil(t, got.NextReminder)
	assert.Zero(t, got.Pending)
}

func TestToday_SelectionFailure(t *testing.T) {
	quotes := &staticQuotes{err: domain.NewStoreError(SourceBundled, "missing", nil)}
	kv := newMemoryKV()

	_, err := Today(context.Background(),
		newTestSelector(quotes, kv, monday),
		newTestScheduler(quotes, newFakeNotifier(64), kv, monday),
	)
	require.Error(t, err)
	assert.True(t, domain.IsSelection(err))
}
