package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"sort"
	"sync"
	"time"

	"github.com/jsamuelsen/daily-quote/internal/domain"
)

// discardLogger returns a logger that discards all output.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func seededRand() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func testQuotes(n int) []domain.Quote {
	quotes := make([]domain.Quote, n)
	for i := range quotes {
		quotes[i] = domain.Quote{
			ID:             fmt.Sprintf("q-%d", i),
			Content:        fmt.Sprintf("Quote number %d.", i),
			BookTitle:      "Book",
			BookAuthor:     "Author",
			Location:       fmt.Sprintf("%d-%d", i*10, i*10+5),
			CreatedAt:      time.Date(2023, time.January, 1+i%28, 9, 0, 0, 0, time.UTC),
			AnnotationType: domain.AnnotationHighlight,
		}
	}

	return quotes
}

func mustJSON(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}

	return b
}

// memoryKV is an in-memory KeyValueStore with optional per-key failures.
type memoryKV struct {
	mu       sync.Mutex
	data     map[string][]byte
	failSet  map[string]error
	failGet  map[string]error
	setCalls []string
}

func newMemoryKV() *memoryKV {
	return &memoryKV{
		data:    make(map[string][]byte),
		failSet: make(map[string]error),
		failGet: make(map[string]error),
	}
}

func (m *memoryKV) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.failGet[key]; err != nil {
		return nil, err
	}

	v, ok := m.data[key]
	if !ok {
		return nil, domain.NewNotFoundError("key", key)
	}

	return v, nil
}

func (m *memoryKV) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.failSet[key]; err != nil {
		return err
	}

	m.setCalls = append(m.setCalls, key)
	m.data[key] = value

	return nil
}

func (m *memoryKV) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, key)

	return nil
}

func (m *memoryKV) value(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.data[key]

	return string(v), ok
}

// staticQuotes is a QuoteLoader over a fixed collection.
type staticQuotes struct {
	quotes []domain.Quote
	err    error
}

func (s *staticQuotes) Load(context.Context) ([]domain.Quote, error) {
	return s.quotes, s.err
}

// fakeNotifier records scheduled reminders and the order of calls.
type fakeNotifier struct {
	mu        sync.Mutex
	capacity  int
	pending   []domain.ScheduledReminder
	calls     []string
	failAfter int
	failErr   error
	nextID    int
}

func newFakeNotifier(capacity int) *fakeNotifier {
	return &fakeNotifier{capacity: capacity, failAfter: -1}
}

func (n *fakeNotifier) Schedule(_ context.Context, r domain.Reminder) (domain.ScheduledReminder, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.calls = append(n.calls, "schedule")

	if n.failAfter >= 0 && len(n.pending) >= n.failAfter {
		return domain.ScheduledReminder{}, n.failErr
	}

	n.nextID++
	sr := domain.ScheduledReminder{ID: fmt.Sprintf("r-%d", n.nextID), Reminder: r}
	n.pending = append(n.pending, sr)

	return sr, nil
}

func (n *fakeNotifier) CancelAll(context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.calls = append(n.calls, "cancel")
	n.pending = nil

	return nil
}

func (n *fakeNotifier) List(context.Context) ([]domain.ScheduledReminder, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	out := append([]domain.ScheduledReminder(nil), n.pending...)
	sort.Slice(out, func(i, j int) bool { return out[i].FireAt.Before(out[j].FireAt) })

	return out, nil
}

func (n *fakeNotifier) Capacity() int {
	return n.capacity
}

// recordingMetrics captures domain metric calls.
type recordingMetrics struct {
	mu        sync.Mutex
	imported  []int
	rejected  []string
	served    []bool
	scheduled []int
}

func (m *recordingMetrics) QuotesImported(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.imported = append(m.imported, n)
}

func (m *recordingMetrics) ImportRejected(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rejected = append(m.rejected, kind)
}

func (m *recordingMetrics) DailyQuoteServed(reused bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.served = append(m.served, reused)
}

func (m *recordingMetrics) RemindersScheduled(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scheduled = append(m.scheduled, n)
}

func (m *recordingMetrics) ReminderDelivered(string, error) {}
