package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/daily-quote/internal/adapters/http/dto"
	"github.com/jsamuelsen/daily-quote/internal/domain"
)

type batchCall struct {
	start    time.Time
	interval time.Duration
	count    int
}

type fakeScheduler struct {
	at        domain.ClockTime
	pending   []domain.ScheduledReminder
	err       error
	batches   []batchCall
	cancelled int
	setValues []string
}

func (f *fakeScheduler) ScheduleBatch(_ context.Context, start time.Time, interval time.Duration, count int) ([]domain.ScheduledReminder, error) {
	f.batches = append(f.batches, batchCall{start: start, interval: interval, count: count})
	if f.err != nil {
		return nil, f.err
	}

	out := make([]domain.ScheduledReminder, count)
	for i := range out {
		out[i] = domain.ScheduledReminder{
			ID:       "r" + string(rune('a'+i)),
			Reminder: domain.Reminder{FireAt: start.Add(time.Duration(i) * interval)},
		}
	}

	return out, nil
}

func (f *fakeScheduler) List(context.Context) ([]domain.ScheduledReminder, error) {
	return f.pending, f.err
}

func (f *fakeScheduler) CancelAll(context.Context) error {
	f.cancelled++

	return f.err
}

func (f *fakeScheduler) GetNotificationTime(context.Context) (domain.ClockTime, error) {
	return f.at, f.err
}

func (f *fakeScheduler) SetNotificationTime(_ context.Context, value string) (domain.ClockTime, error) {
	f.setValues = append(f.setValues, value)
	if f.err != nil {
		return domain.ClockTime{}, f.err
	}

	return domain.ParseClockTime(value)
}

func jsonRequest(method, url, body string) *http.Request {
	req := httptest.NewRequest(method, url, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	return req
}

func TestNotificationHandler_ListReminders(t *testing.T) {
	fireAt := time.Date(2024, time.March, 2, 14, 0, 0, 0, time.UTC)
	sched := &fakeScheduler{pending: []domain.ScheduledReminder{
		{ID: "r1", Reminder: domain.Reminder{FireAt: fireAt, Title: "Your Daily Kindle Quote", Body: "Passage.", QuoteID: "q-1"}},
	}}

	w := serve(t, NewNotificationHandler(sched).RegisterNotificationRoutes,
		httptest.NewRequest(http.MethodGet, "/api/v1/notifications", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp ReminderListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "r1", resp.Items[0].ID)
	assert.Equal(t, "q-1", resp.Items[0].QuoteID)
}

func TestNotificationHandler_ListReminders_Empty(t *testing.T) {
	w := serve(t, NewNotificationHandler(&fakeScheduler{}).RegisterNotificationRoutes,
		httptest.NewRequest(http.MethodGet, "/api/v1/notifications", nil))
	require.Equal(t, http.StatusOK, w.Code)

	assert.JSONEq(t, `{"items":[]}`, w.Body.String())
}

func TestNotificationHandler_ScheduleReminders(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		schedErr       error
		expectedStatus int
		expectedCode   string
		expectedBatch  *batchCall
	}{
		{
			name:           "success",
			body:           `{"start":"2024-03-02T14:00:00Z","interval":"24h","count":3}`,
			expectedStatus: http.StatusCreated,
			expectedBatch: &batchCall{
				start:    time.Date(2024, time.March, 2, 14, 0, 0, 0, time.UTC),
				interval: 24 * time.Hour,
				count:    3,
			},
		},
		{
			name:           "missing start",
			body:           `{"interval":"24h","count":3}`,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   dto.ErrorCodeValidation,
		},
		{
			name:           "bad interval",
			body:           `{"start":"2024-03-02T14:00:00Z","interval":"daily","count":3}`,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   dto.ErrorCodeValidation,
		},
		{
			name:           "insufficient quotes",
			body:           `{"start":"2024-03-02T14:00:00Z","interval":"24h","count":50}`,
			schedErr:       domain.NewSchedulerError("insufficient quotes"),
			expectedStatus: http.StatusUnprocessableEntity,
			expectedCode:   dto.ErrorCodeScheduleRejected,
			expectedBatch: &batchCall{
				start:    time.Date(2024, time.March, 2, 14, 0, 0, 0, time.UTC),
				interval: 24 * time.Hour,
				count:    50,
			},
		},
		{
			name:           "notifier failed part way",
			body:           `{"start":"2024-03-02T14:00:00Z","interval":"1h","count":2}`,
			schedErr:       &domain.SchedulerError{Reason: "schedule reminder", Scheduled: 1, Cause: errors.New("queue closed")},
			expectedStatus: http.StatusServiceUnavailable,
			expectedCode:   dto.ErrorCodeScheduleFailed,
			expectedBatch: &batchCall{
				start:    time.Date(2024, time.March, 2, 14, 0, 0, 0, time.UTC),
				interval: time.Hour,
				count:    2,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sched := &fakeScheduler{err: tt.schedErr}

			w := serve(t, NewNotificationHandler(sched).RegisterNotificationRoutes,
				jsonRequest(http.MethodPost, "/api/v1/notifications/schedule", tt.body))

			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedBatch == nil {
				assert.Empty(t, sched.batches)
			} else {
				require.Len(t, sched.batches, 1)
				assert.True(t, tt.expectedBatch.start.Equal(sched.batches[0].start))
				assert.Equal(t, tt.expectedBatch.interval, sched.batches[0].interval)
				assert.Equal(t, tt.expectedBatch.count, sched.batches[0].count)
			}

			if tt.expectedCode != "" {
				assert.Equal(t, tt.expectedCode, decodeError(t, w).Error.Code)
				return
			}

			var resp ReminderListResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Len(t, resp.Items, tt.expectedBatch.count)
		})
	}
}

func TestNotificationHandler_CancelReminders(t *testing.T) {
	sched := &fakeScheduler{}

	w := serve(t, NewNotificationHandler(sched).RegisterNotificationRoutes,
		httptest.NewRequest(http.MethodDelete, "/api/v1/notifications", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 1, sched.cancelled)
}

func TestNotificationHandler_NotificationTime(t *testing.T) {
	t.Run("get", func(t *testing.T) {
		sched := &fakeScheduler{at: domain.ClockTime{Hour: 14}}

		w := serve(t, NewNotificationHandler(sched).RegisterNotificationRoutes,
			httptest.NewRequest(http.MethodGet, "/api/v1/settings/notification-time", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"time":"14:00"}`, w.Body.String())
	})

	t.Run("set", func(t *testing.T) {
		sched := &fakeScheduler{}

		w := serve(t, NewNotificationHandler(sched).RegisterNotificationRoutes,
			jsonRequest(http.MethodPut, "/api/v1/settings/notification-time", `{"time":"7:05"}`))

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"time":"07:05"}`, w.Body.String())
		assert.Equal(t, []string{"7:05"}, sched.setValues)
	})

	t.Run("set rejects malformed time", func(t *testing.T) {
		sched := &fakeScheduler{}

		w := serve(t, NewNotificationHandler(sched).RegisterNotificationRoutes,
			jsonRequest(http.MethodPut, "/api/v1/settings/notification-time", `{"time":"25:00"}`))

		require.Equal(t, http.StatusBadRequest, w.Code)

		resp := decodeError(t, w)
		assert.Equal(t, dto.ErrorCodeValidation, resp.Error.Code)
		assert.Contains(t, resp.Error.Details, "notificationTime")
	})

	t.Run("set requires a body", func(t *testing.T) {
		sched := &fakeScheduler{}

		w := serve(t, NewNotificationHandler(sched).RegisterNotificationRoutes,
			jsonRequest(http.MethodPut, "/api/v1/settings/notification-time", `{}`))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, sched.setValues)
	})
}

func TestNotificationHandler_RegisterNotificationRoutes(t *testing.T) {
	router := gin.New()
	NewNotificationHandler(&fakeScheduler{}).RegisterNotificationRoutes(router.Group("/api/v1"))

	routeMap := make(map[string]bool)
	for _, r := range router.Routes() {
		routeMap[r.Method+" "+r.Path] = true
	}

	for _, expected := range []string{
		"GET /api/v1/notifications",
		"POST /api/v1/notifications/schedule",
		"DELETE /api/v1/notifications",
		"GET /api/v1/settings/notification-time",
		"PUT /api/v1/settings/notification-time",
	} {
		assert.True(t, routeMap[expected], "missing route: %s", expected)
	}
}
