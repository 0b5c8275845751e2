package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
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

type fakeLibrary struct {
	quotes    []domain.Quote
	err       error
	importErr error
	imported  []string
}

func (f *fakeLibrary) All(context.Context) ([]domain.Quote, error) {
	return f.quotes, f.err
}

func (f *fakeLibrary) ByID(_ context.Context, id string) (domain.Quote, error) {
	if f.err != nil {
		return domain.Quote{}, f.err
	}

	for _, q := range f.quotes {
		if q.ID == id {
			return q, nil
		}
	}

	return domain.Quote{}, domain.NewNotFoundError("quote", id)
}

func (f *fakeLibrary) Import(_ context.Context, raw string) ([]domain.Quote, error) {
	f.imported = append(f.imported, raw)
	if f.importErr != nil {
		return nil, f.importErr
	}

	return []domain.Quote{{ID: "a"}, {ID: "b"}}, nil
}

type fakeDaily struct {
	quote domain.Quote
	err   error
}

func (f *fakeDaily) GetDailyQuote(context.Context) (domain.Quote, error) {
	return f.quote, f.err
}

func sampleQuotes(n int) []domain.Quote {
	quotes := make([]domain.Quote, n)
	for i := range quotes {
		quotes[i] = domain.Quote{
			ID:             fmt.Sprintf("q-%d", i),
			Content:        fmt.Sprintf("Passage %d.", i),
			BookTitle:      "Walden",
			BookAuthor:     "Henry David Thoreau",
			Location:       "100-105",
			CreatedAt:      time.Date(2023, time.January, 5, 14, 30, 0, 0, time.UTC),
			AnnotationType: domain.AnnotationHighlight,
		}
	}

	return quotes
}

func serve(t *testing.T, register func(*gin.RouterGroup), req *http.Request) *httptest.ResponseRecorder {
	t.Helper()

	router := gin.New()
	register(router.Group("/api/v1"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	return resp
}

func TestToQuoteResponse(t *testing.T) {
	page := 12
	q := sampleQuotes(1)[0]
	q.Page = &page

	resp := toQuoteResponse(&q)

	assert.Equal(t, &QuoteResponse{
		ID:             "q-0",
		Content:        "Passage 0.",
		BookTitle:      "Walden",
		BookAuthor:     "Henry David Thoreau",
		Location:       "100-105",
		Page:           &page,
		CreatedAt:      q.CreatedAt,
		AnnotationType: domain.AnnotationHighlight,
	}, resp)
}

func TestQuoteHandler_GetDailyQuote(t *testing.T) {
	tests := []struct {
		name           string
		daily          *fakeDaily
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "success",
			daily:          &fakeDaily{quote: sampleQuotes(1)[0]},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "no collection",
			daily:          &fakeDaily{err: domain.NewSelectionError(0, domain.NewStoreError("bundled", "missing", nil))},
			expectedStatus: http.StatusServiceUnavailable,
			expectedCode:   dto.ErrorCodeSelection,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewQuoteHandler(&fakeLibrary{}, tt.daily, &fakeScheduler{})

			w := serve(t, handler.RegisterQuoteRoutes, httptest.NewRequest(http.MethodGet, "/api/v1/quotes/daily", nil))

			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedCode != "" {
				assert.Equal(t, tt.expectedCode, decodeError(t, w).Error.Code)
				return
			}

			var resp QuoteResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, "q-0", resp.ID)
			assert.Equal(t, "Walden", resp.BookTitle)
		})
	}
}

func TestQuoteHandler_GetToday(t *testing.T) {
	fireAt := time.Date(2024, time.March, 2, 14, 0, 0, 0, time.UTC)
	sched := &fakeScheduler{
		at: domain.ClockTime{Hour: 8, Minute: 30},
		pending: []domain.ScheduledReminder{
			{ID: "r1", Reminder: domain.Reminder{FireAt: fireAt, Title: "t", Body: "b", QuoteID: "q-3"}},
			{ID: "r2", Reminder: domain.Reminder{FireAt: fireAt.Add(24 * time.Hour)}},
		},
	}

	handler := NewQuoteHandler(&fakeLibrary{}, &fakeDaily{quote: sampleQuotes(1)[0]}, sched)

	w := serve(t, handler.RegisterQuoteRoutes, httptest.NewRequest(http.MethodGet, "/api/v1/quotes/today", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp TodayResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "q-0", resp.Quote.ID)
	assert.Equal(t, "08:30", resp.NotificationTime)
	assert.Equal(t, 2, resp.PendingReminders)
	require.NotNil(t, resp.NextReminder)
	assert.Equal(t, "r1", resp.NextReminder.ID)
	assert.True(t, fireAt.Equal(resp.NextReminder.FireAt))
}

func TestQuoteHandler_ListQuotes_Pages(t *testing.T) {
	library := &fakeLibrary{quotes: sampleQuotes(5)}
	handler := NewQuoteHandler(library, &fakeDaily{}, &fakeScheduler{})

	var (
		seen   []string
		cursor string
	)

	for range 3 {
		url := "/api/v1/quotes?limit=2"
		if cursor != "" {
			url += "&cursor=" + cursor
		}

		w := serve(t, handler.RegisterQuoteRoutes, httptest.NewRequest(http.MethodGet, url, nil))
		require.Equal(t, http.StatusOK, w.Code)

		var page dto.PaginatedResponse[QuoteResponse]
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))

		for _, q := range page.Items {
			seen = append(seen, q.ID)
		}

		cursor = page.NextCursor
		if !page.HasMore {
			break
		}
	}

	assert.Equal(t, []string{"q-0", "q-1", "q-2", "q-3", "q-4"}, seen)
	assert.Empty(t, cursor)
}

func TestQuoteHandler_ListQuotes_Errors(t *testing.T) {
	stale := dto.EncodeCursor(dto.Cursor{Index: 1, ID: "gone"})

	tests := []struct {
		name           string
		library        *fakeLibrary
		query          string
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "limit out of range",
			library:        &fakeLibrary{quotes: sampleQuotes(3)},
			query:          "?limit=500",
			expectedStatus: http.StatusBadRequest,
			expectedCode:   dto.ErrorCodeValidation,
		},
		{
			name:           "garbage cursor",
			library:        &fakeLibrary{quotes: sampleQuotes(3)},
			query:          "?cursor=@@@@",
			expectedStatus: http.StatusBadRequest,
			expectedCode:   dto.ErrorCodeBadRequest,
		},
		{
			name:           "cursor from a replaced collection",
			library:        &fakeLibrary{quotes: sampleQuotes(3)},
			query:          "?cursor=" + stale,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   dto.ErrorCodeBadRequest,
		},
		{
			name:           "corrupt collection",
			library:        &fakeLibrary{err: domain.NewStoreError("imported", "corrupt collection", errors.New("eof"))},
			expectedStatus: http.StatusServiceUnavailable,
			expectedCode:   dto.ErrorCodeNoQuotes,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewQuoteHandler(tt.library, &fakeDaily{}, &fakeScheduler{})

			w := serve(t, handler.RegisterQuoteRoutes, httptest.NewRequest(http.MethodGet, "/api/v1/quotes"+tt.query, nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedCode, decodeError(t, w).Error.Code)
		})
	}
}

func TestQuoteHandler_GetQuoteByID(t *testing.T) {
	tests := []struct {
		name           string
		quoteID        string
		library        *fakeLibrary
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "success",
			quoteID:        "q-1",
			library:        &fakeLibrary{quotes: sampleQuotes(3)},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "empty ID returns bad request",
			quoteID:        "",
			library:        &fakeLibrary{},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   dto.ErrorCodeBadRequest,
		},
		{
			name:           "not found",
			quoteID:        "nonexistent",
			library:        &fakeLibrary{quotes: sampleQuotes(3)},
			expectedStatus: http.StatusNotFound,
			expectedCode:   dto.ErrorCodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewQuoteHandler(tt.library, &fakeDaily{}, &fakeScheduler{})

			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/quotes/"+tt.quoteID, nil)
			c.Params = gin.Params{{Key: "id", Value: tt.quoteID}}

			handler.GetQuoteByID(c)

			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedCode != "" {
				assert.Equal(t, tt.expectedCode, decodeError(t, w).Error.Code)
			}
		})
	}
}

func TestQuoteHandler_ImportQuotes(t *testing.T) {
	tests := []struct {
		name           string
		contentType    string
		body           string
		importErr      error
		expectedStatus int
		expectedCode   string
		expectedRaw    string
	}{
		{
			name:           "plain text export",
			contentType:    "text/plain",
			body:           "Walden (Henry David Thoreau)\n...",
			expectedStatus: http.StatusCreated,
			expectedRaw:    "Walden (Henry David Thoreau)\n...",
		},
		{
			name:           "json wrapped export",
			contentType:    "application/json; charset=utf-8",
			body:           `{"content":"Walden (Henry David Thoreau)"}`,
			expectedStatus: http.StatusCreated,
			expectedRaw:    "Walden (Henry David Thoreau)",
		},
		{
			name:           "json without content",
			contentType:    "application/json",
			body:           `{"content":"   "}`,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   dto.ErrorCodeValidation,
		},
		{
			name:           "malformed export",
			contentType:    "text/plain",
			body:           "nonsense",
			importErr:      domain.NewParseError(1, "", "too few lines"),
			expectedStatus: http.StatusUnprocessableEntity,
			expectedCode:   dto.ErrorCodeParse,
			expectedRaw:    "nonsense",
		},
		{
			name:           "store write failure",
			contentType:    "text/plain",
			body:           "export",
			importErr:      domain.NewStoreError("imported", "write failed", errors.New("disk full")),
			expectedStatus: http.StatusServiceUnavailable,
			expectedCode:   dto.ErrorCodeNoQuotes,
			expectedRaw:    "export",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			library := &fakeLibrary{importErr: tt.importErr}
			handler := NewQuoteHandler(library, &fakeDaily{}, &fakeScheduler{})

			req := httptest.NewRequest(http.MethodPost, "/api/v1/quotes/import", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", tt.contentType)

			w := serve(t, handler.RegisterQuoteRoutes, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedRaw != "" {
				assert.Equal(t, []string{tt.expectedRaw}, library.imported)
			} else {
				assert.Empty(t, library.imported)
			}

			if tt.expectedCode != "" {
				assert.Equal(t, tt.expectedCode, decodeError(t, w).Error.Code)
				return
			}

			var resp ImportResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, 2, resp.Imported)
		})
	}
}

func TestQuoteHandler_ImportQuotes_ParseDetails(t *testing.T) {
	library := &fakeLibrary{importErr: domain.NewParseError(4, "", "invalid date")}
	handler := NewQuoteHandler(library, &fakeDaily{}, &fakeScheduler{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/quotes/import", strings.NewReader("x"))
	req.Header.Set("Content-Type", "text/plain")

	w := serve(t, handler.RegisterQuoteRoutes, req)

	resp := decodeError(t, w)
	assert.Equal(t, "4", resp.Error.Details["record"])
	assert.Equal(t, "invalid date", resp.Error.Details["reason"])
}

func TestQuoteHandler_RegisterQuoteRoutes(t *testing.T) {
	handler := NewQuoteHandler(&fakeLibrary{}, &fakeDaily{}, &fakeScheduler{})

	router := gin.New()
	handler.RegisterQuoteRoutes(router.Group("/api/v1"))

	routeMap := make(map[string]bool)
	for _, r := range router.Routes() {
		routeMap[r.Method+" "+r.Path] = true
	}

	for _, expected := range []string{
		"GET /api/v1/quotes",
		"GET /api/v1/quotes/daily",
		"GET /api/v1/quotes/today",
		"GET /api/v1/quotes/:id",
		"POST /api/v1/quotes/import",
	} {
		assert.True(t, routeMap[expected], "missing route: %s", expected)
	}
}
