package app

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/daily-quote/internal/adapters/clippings"
	"github.com/jsamuelsen/daily-quote/internal/domain"
)

var monday = time.Date(2024, time.March, 4, 8, 30, 0, 0, time.UTC)

func newTestSelector(quotes QuoteLoader, kv *memoryKV, now time.Time) *DailySelector {
	return NewDailySelector(DailySelectorConfig{
		Quotes: quotes,
		Store:  kv,
		Rand:   seededRand(),
		Now:    fixedClock(now),
		Logger: discardLogger(),
	})
}

func TestNewDailySelector_PanicsWithoutDependencies(t *testing.T) {
	assert.Panics(t, func() {
		NewDailySelector(DailySelectorConfig{Store: newMemoryKV()})
	})

	assert.Panics(t, func() {
		NewDailySelector(DailySelectorConfig{Quotes: &staticQuotes{}})
	})
}

func TestDailySelector_SameDaySameQuote(t *testing.T) {
	ctx := context.Background()
	kv := newMemoryKV()
	metrics := &recordingMetrics{}

	sel := NewDailySelector(DailySelectorConfig{
		Quotes:  &staticQuotes{quotes: testQuotes(10)},
		Store:   kv,
		Rand:    seededRand(),
		Now:     fixedClock(monday),
		Metrics: metrics,
		Logger:  discardLogger(),
	})

	first, err := sel.GetDailyQuote(ctx)
	require.NoError(t, err)

	for range 5 {
		again, err := sel.GetDailyQuote(ctx)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}

	date, _ := kv.value(KeyDailyDate)
	assert.Equal(t, "2024-03-04", date)

	idx, _ := kv.value(KeyDailyIndex)
	assert.Equal(t, first.ID, "q-"+idx)

	assert.Equal(t, []bool{false, true, true, true, true, true}, metrics.served)
}

func TestDailySelector_ReusesRecordFromAnotherInstance(t *testing.T) {
	ctx := context.Background()
	quotes := testQuotes(10)

	kv := newMemoryKV()
	require.NoError(t, kv.Set(ctx, KeyDailyDate, []byte("2024-03-04")))
	require.NoError(t, kv.Set(ctx, KeyDailyIndex, []byte("6")))

	got, err := newTestSelector(&staticQuotes{quotes: quotes}, kv, monday).GetDailyQuote(ctx)
	require.NoError(t, err)
	assert.Equal(t, quotes[6], got)
}

func TestDailySelector_Redraws(t *testing.T) {
	tests := []struct {
		name  string
		date  string
		index string
	}{
		{name: "previous day", date: "2024-03-03", index: "2"},
		{name: "index out of range after smaller import", date: "2024-03-04", index: "42"},
		{name: "negative index", date: "2024-03-04", index: "-1"},
		{name: "unreadable index", date: "2024-03-04", index: "two"},
		{name: "date only", date: "2024-03-04"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			kv := newMemoryKV()
			require.NoError(t, kv.Set(ctx, KeyDailyDate, []byte(tt.date)))

			if tt.index != "" {
				require.NoError(t, kv.Set(ctx, KeyDailyIndex, []byte(tt.index)))
			}

			quotes := testQuotes(4)

			got, err := newTestSelector(&staticQuotes{quotes: quotes}, kv, monday).GetDailyQuote(ctx)
			require.NoError(t, err)
			assert.Contains(t, quotes, got)

			date, _ := kv.value(KeyDailyDate)
			assert.Equal(t, "2024-03-04", date)

			raw, _ := kv.value(KeyDailyIndex)
			idx, err := strconv.Atoi(raw)
			require.NoError(t, err)
			assert.Equal(t, quotes[idx], got)
		})
	}
}

func TestDailySelector_NextDayDrawsAgain(t *testing.T) {
	ctx := context.Background()
	kv := newMemoryKV()
	quotes := &staticQuotes{quotes: testQuotes(50)}

	_, err := newTestSelector(quotes, kv, monday).GetDailyQuote(ctx)
	require.NoError(t, err)

	_, err = newTestSelector(quotes, kv, monday.AddDate(0, 0, 1)).GetDailyQuote(ctx)
	require.NoError(t, err)

	date, _ := kv.value(KeyDailyDate)
	assert.Equal(t, "2024-03-05", date)
}

func TestDailySelector_UsesLocalCalendarDay(t *testing.T) {
	ctx := context.Background()
	kv := newMemoryKV()

	// 23:30 on the 4th in UTC-5 is already the 5th in UTC.
	evening := time.Date(2024, time.March, 4, 23, 30, 0, 0, time.FixedZone("UTC-5", -5*60*60))

	_, err := newTestSelector(&staticQuotes{quotes: testQuotes(3)}, kv, evening).GetDailyQuote(ctx)
	require.NoError(t, err)

	date, _ := kv.value(KeyDailyDate)
	assert.Equal(t, "2024-03-04", date)
}

func TestDailySelector_RetriesInvalidQuotes(t *testing.T) {
	ctx := context.Background()
	quotes := testQuotes(2)
	quotes[0].Content = ""

	kv := newMemoryKV()

	got, err := newTestSelector(&staticQuotes{quotes: quotes}, kv, monday).GetDailyQuote(ctx)
	if err != nil {
		// Every draw landed on the invalid quote; the bound was honoured.
		var selErr *domain.SelectionError
		require.ErrorAs(t, err, &selErr)
		assert.Equal(t, DefaultMaxRetries, selErr.Attempts)

		return
	}

	assert.Equal(t, quotes[1], got)
}

func TestDailySelector_AllInvalidFailsAfterMaxRetries(t *testing.T) {
	quotes := testQuotes(3)
	for i := range quotes {
		quotes[i].BookAuthor = ""
	}

	kv := newMemoryKV()

	sel := NewDailySelector(DailySelectorConfig{
		Quotes:     &staticQuotes{quotes: quotes},
		Store:      kv,
		MaxRetries: 5,
		Rand:       seededRand(),
		Now:        fixedClock(monday),
		Logger:     discardLogger(),
	})

	_, err := sel.GetDailyQuote(context.Background())
	require.Error(t, err)
	assert.True(t, domain.IsSelection(err))
	assert.True(t, domain.IsValidation(err))

	var selErr *domain.SelectionError
	require.ErrorAs(t, err, &selErr)
	assert.Equal(t, 5, selErr.Attempts)

	_, persisted := kv.value(KeyDailyDate)
	assert.False(t, persisted)
}

func TestDailySelector_Failures(t *testing.T) {
	tests := []struct {
		name    string
		quotes  *staticQuotes
		setupKV func(*memoryKV)
		isCause func(error) bool
	}{
		{
			name:    "no usable collection",
			quotes:  &staticQuotes{err: domain.NewStoreError(SourceBundled, "missing", nil)},
			setupKV: func(*memoryKV) {},
			isCause: domain.IsStore,
		},
		{
			name:   "record unreadable",
			quotes: &staticQuotes{quotes: testQuotes(2)},
			setupKV: func(kv *memoryKV) {
				kv.failGet[KeyDailyDate] = domain.NewUnavailableError("kv", "closed")
			},
			isCause: domain.IsUnavailable,
		},
		{
			name:   "persist fails",
			quotes: &staticQuotes{quotes: testQuotes(2)},
			setupKV: func(kv *memoryKV) {
				kv.failSet[KeyDailyIndex] = domain.NewUnavailableError("kv", "closed")
			},
			isCause: domain.IsUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := newMemoryKV()
			tt.setupKV(kv)

			_, err := newTestSelector(tt.quotes, kv, monday).GetDailyQuote(context.Background())
			require.Error(t, err)
			assert.True(t, domain.IsSelection(err))
			assert.True(t, tt.isCause(err))
		})
	}
}

func TestDailySelector_ConcurrentCallersAgree(t *testing.T) {
	ctx := context.Background()
	sel := newTestSelector(&staticQuotes{quotes: testQuotes(100)}, newMemoryKV(), monday)

	const callers = 16

	var (
		wg      sync.WaitGroup
		results = make([]domain.Quote, callers)
		errs    = make([]error, callers)
	)

	for i := range callers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			results[i], errs[i] = sel.GetDailyQuote(ctx)
		}()
	}

	wg.Wait()

	for i := range callers {
		require.NoError(t, errs[i])
		assert.Equal(t, results[0], results[i])
	}
}

func TestDailySelector_DistributionCoversCollection(t *testing.T) {
	ctx := context.Background()
	today := monday
	seen := make(map[string]int)

	sel := NewDailySelector(DailySelectorConfig{
		Quotes: &staticQuotes{quotes: testQuotes(5)},
		Store:  newMemoryKV(),
		Rand:   seededRand(),
		Now:    func() time.Time { return today },
		Logger: discardLogger(),
	})

	for range 200 {
		q, err := sel.GetDailyQuote(ctx)
		require.NoError(t, err)

		seen[q.ID]++
		today = today.AddDate(0, 0, 1)
	}

	assert.Len(t, seen, 5, "every quote should be drawn at some point")
}

const highlightsExport = "Walden (Henry David Thoreau)\n" +
	"- Your Highlight on page 90 | Location 1367-1369 | Added on Monday, January 5 2023 2:30:00 PM\n" +
	"I went to the woods because I wished to live deliberately.\n" +
	"==========\n" +
	"Meditations (Marcus Aurelius)\n" +
	"- Your Highlight on Location 210-212 | Added on Tuesday, March 7, 2023 9:05:01 AM\n" +
	"The happiness of your life depends upon the quality of your thoughts.\n" +
	"==========\n"

func TestDailySelector_AfterImportNeverServesBundled(t *testing.T) {
	ctx := context.Background()
	kv := newMemoryKV()
	bundled := testQuotes(10)

	store := NewQuoteStore(QuoteStoreConfig{
		Parser:  clippings.NewParser(clippings.ParserConfig{Location: time.UTC}),
		Store:   kv,
		Bundled: mustJSON(bundled),
		Logger:  discardLogger(),
	})

	now := monday
	sel := NewDailySelector(DailySelectorConfig{
		Quotes: store,
		Store:  kv,
		Rand:   seededRand(),
		Now:    func() time.Time { return now },
		Logger: discardLogger(),
	})

	before, err := sel.GetDailyQuote(ctx)
	require.NoError(t, err)
	assert.Contains(t, bundled, before)

	imported, err := store.Import(ctx, highlightsExport)
	require.NoError(t, err)
	require.Len(t, imported, 2)

	ids := make([]string, len(imported))
	for i, q := range imported {
		ids[i] = q.ID
	}

	for day := range 20 {
		now = monday.AddDate(0, 0, day)

		got, err := sel.GetDailyQuote(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, got.ID, "day %d", day)
	}
}
