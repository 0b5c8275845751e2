package handlers

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/daily-quote/internal/adapters/http/dto"
	"github.com/jsamuelsen/daily-quote/internal/app"
	"github.com/jsamuelsen/daily-quote/internal/domain"
)

// QuoteLibrary is the quote collection the handlers read and replace.
type QuoteLibrary interface {
	All(ctx context.Context) ([]domain.Quote, error)
	ByID(ctx context.Context, id string) (domain.Quote, error)
	Import(ctx context.Context, raw string) ([]domain.Quote, error)
}

// QuoteHandler serves the collection, the daily quote and imports.
type QuoteHandler struct {
	library   QuoteLibrary
	daily     app.DailyQuoter
	reminders app.ReminderView
}

func NewQuoteHandler(library QuoteLibrary, daily app.DailyQuoter, reminders app.ReminderView) *QuoteHandler {
	return &QuoteHandler{library: library, daily: daily, reminders: reminders}
}

// QuoteResponse is a highlight as served to clients. Page is omitted for
// highlights that only carry a location.
type QuoteResponse struct {
	ID             string    `json:"id"`
	Content        string    `json:"content"`
	BookTitle      string    `json:"bookTitle"`
	BookAuthor     string    `json:"bookAuthor"`
	Location       string    `json:"location"`
	Page           *int      `json:"page,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	AnnotationType string    `json:"annotationType"`
}

func toQuoteResponse(q *domain.Quote) *QuoteResponse {
	return &QuoteResponse{
		ID:             q.ID,
		Content:        q.Content,
		BookTitle:      q.BookTitle,
		BookAuthor:     q.BookAuthor,
		Location:       q.Location,
		Page:           q.Page,
		CreatedAt:      q.CreatedAt,
		AnnotationType: q.AnnotationType,
	}
}

// ImportRequest is the JSON form of an import. Plain-text bodies are
// accepted as the export itself.
type ImportRequest struct {
	Content string `json:"content" validate:"notempty"`
}

// ImportResponse reports a successful import.
type ImportResponse struct {
	Imported int `json:"imported"`
}

// TodayResponse is the daily quote together with the reminder state.
type TodayResponse struct {
	Quote            *QuoteResponse    `json:"quote"`
	NotificationTime string            `json:"notificationTime"`
	NextReminder     *ReminderResponse `json:"nextReminder,omitempty"`
	PendingReminders int               `json:"pendingReminders"`
}

// GetDailyQuote handles GET /api/v1/quotes/daily
// Returns the quote of the day, choosing one on the first call of a day.
//
// @Summary Get the quote of the day
// @Tags quotes
// @Produce json
// @Success 200 {object} QuoteResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/v1/quotes/daily [get]
func (h *QuoteHandler) GetDailyQuote(c *gin.Context) {
	quote, err := h.daily.GetDailyQuote(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toQuoteResponse(&quote))
}

// GetToday handles GET /api/v1/quotes/today
// Returns the quote of the day with the notification time and next reminder.
//
// @Summary Get the daily overview
// @Tags quotes
// @Produce json
// @Success 200 {object} TodayResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/v1/quotes/today [get]
func (h *QuoteHandler) GetToday(c *gin.Context) {
	overview, err := app.Today(c.Request.Context(), h.daily, h.reminders)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	resp := TodayResponse{
		Quote:            toQuoteResponse(&overview.Quote),
		NotificationTime: overview.NotificationTime.String(),
		PendingReminders: overview.Pending,
	}

	if overview.NextReminder != nil {
		resp.NextReminder = toReminderResponse(overview.NextReminder)
	}

	c.JSON(http.StatusOK, resp)
}

// ListQuotes handles GET /api/v1/quotes
// Returns the active collection in stored order, one page at a time.
//
// @Summary List quotes
// @Tags quotes
// @Produce json
// @Param cursor query string false "Cursor from a previous page"
// @Param limit query int false "Page size (1-100)"
// @Success 200 {object} dto.PaginatedResponse[QuoteResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/quotes [get]
func (h *QuoteHandler) ListQuotes(c *gin.Context) {
	var req dto.PageRequest
	if err := dto.BindQueryAndValidate(c, &req); err != nil {
		dto.RespondBindError(c, "invalid pagination parameters", err)
		return
	}

	quotes, err := h.library.All(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	page, err := dto.Paginate(quotes, req,
		func(q domain.Quote) string { return q.ID },
		func(q domain.Quote) *QuoteResponse { return toQuoteResponse(&q) },
	)
	if err != nil {
		dto.RespondBadRequest(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, page)
}

// GetQuoteByID handles GET /api/v1/quotes/:id
// Returns a specific quote from the active collection.
//
// @Summary Get a quote by ID
// @Tags quotes
// @Produce json
// @Param id path string true "Quote ID"
// @Success 200 {object} QuoteResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/v1/quotes/{id} [get]
func (h *QuoteHandler) GetQuoteByID(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		dto.RespondBadRequest(c, "quote ID is required")
		return
	}

	quote, err := h.library.ByID(c.Request.Context(), id)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toQuoteResponse(&quote))
}

// ImportQuotes handles POST /api/v1/quotes/import
// Replaces the imported collection with a highlights export. The body is
// either the raw export (text/plain) or an ImportRequest (application/json).
//
// @Summary Import a highlights export
// @Tags quotes
// @Accept plain,json
// @Produce json
// @Success 201 {object} ImportResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /api/v1/quotes/import [post]
func (h *QuoteHandler) ImportQuotes(c *gin.Context) {
	raw, ok := readImport(c)
	if !ok {
		return
	}

	quotes, err := h.library.Import(c.Request.Context(), raw)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, ImportResponse{Imported: len(quotes)})
}

// readImport extracts the export text, writing a 400 response when it cannot.
func readImport(c *gin.Context) (string, bool) {
	if strings.HasPrefix(c.ContentType(), gin.MIMEJSON) {
		var req ImportRequest
		if err := dto.BindAndValidate(c, &req); err != nil {
			dto.RespondBindError(c, "request validation failed", err)
			return "", false
		}

		return req.Content, true
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		dto.RespondBadRequest(c, "request body could not be read")
		return "", false
	}

	return string(body), true
}

// RegisterQuoteRoutes mounts /quotes on rg. The fixed paths are registered
// before /:id.
func (h *QuoteHandler) RegisterQuoteRoutes(rg *gin.RouterGroup) {
	quotes := rg.Group("/quotes")
	quotes.GET("", h.ListQuotes)
	quotes.GET("/daily", h.GetDailyQuote)
	quotes.GET("/today", h.GetToday)
	quotes.POST("/import", h.ImportQuotes)
	quotes.GET("/:id", h.GetQuoteByID)
}
