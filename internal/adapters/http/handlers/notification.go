package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/daily-quote/internal/adapters/http/dto"
	"github.com/jsamuelsen/daily-quote/internal/domain"
)

// ReminderScheduler manages the pending reminders and the preferred time.
type ReminderScheduler interface {
	ScheduleBatch(ctx context.Context, start time.Time, interval time.Duration, count int) ([]domain.ScheduledReminder, error)
	List(ctx context.Context) ([]domain.ScheduledReminder, error)
	CancelAll(ctx context.Context) error
	GetNotificationTime(ctx context.Context) (domain.ClockTime, error)
	SetNotificationTime(ctx context.Context, value string) (domain.ClockTime, error)
}

// NotificationHandler handles reminder and notification-setting endpoints.
type NotificationHandler struct {
	scheduler ReminderScheduler
}

// NewNotificationHandler creates a new notification handler.
func NewNotificationHandler(scheduler ReminderScheduler) *NotificationHandler {
	return &NotificationHandler{scheduler: scheduler}
}

// ReminderResponse is the HTTP response structure for a pending reminder.
type ReminderResponse struct {
	ID      string    `json:"id"`
	FireAt  time.Time `json:"fireAt"`
	Title   string    `json:"title"`
	Body    string    `json:"body"`
	QuoteID string    `json:"quoteId"`
}

func toReminderResponse(r *domain.ScheduledReminder) *ReminderResponse {
	return &ReminderResponse{
		ID:      r.ID,
		FireAt:  r.FireAt,
		Title:   r.Title,
		Body:    r.Body,
		QuoteID: r.QuoteID,
	}
}

func toReminderResponses(reminders []domain.ScheduledReminder) []*ReminderResponse {
	out := make([]*ReminderResponse, 0, len(reminders))
	for i := range reminders {
		out = append(out, toReminderResponse(&reminders[i]))
	}

	return out
}

// ReminderListResponse wraps a list of reminders.
type ReminderListResponse struct {
	Items []*ReminderResponse `json:"items"`
}

// ScheduleRequest asks for count reminders, the first at Start and each
// following one Interval later.
type ScheduleRequest struct {
	Start    time.Time `json:"start" validate:"required"`
	Interval string    `json:"interval" validate:"required,duration"`
	Count    int       `json:"count"`
}

// NotificationTimeRequest sets the preferred reminder time.
type NotificationTimeRequest struct {
	Time string `json:"time" validate:"required"`
}

// NotificationTimeResponse reports the preferred reminder time.
type NotificationTimeResponse struct {
	Time string `json:"time"`
}

// ListReminders handles GET /api/v1/notifications
//
// @Summary List pending reminders
// @Tags notifications
// @Produce json
// @Success 200 {object} ReminderListResponse
// @Router /api/v1/notifications [get]
func (h *NotificationHandler) ListReminders(c *gin.Context) {
	reminders, err := h.scheduler.List(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, ReminderListResponse{Items: toReminderResponses(reminders)})
}

// ScheduleReminders handles POST /api/v1/notifications/schedule
// Replaces every pending reminder with a new batch.
//
// @Summary Schedule a reminder batch
// @Tags notifications
// @Accept json
// @Produce json
// @Param request body ScheduleRequest true "Batch to schedule"
// @Success 201 {object} ReminderListResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/v1/notifications/schedule [post]
func (h *NotificationHandler) ScheduleReminders(c *gin.Context) {
	var req ScheduleRequest

	err := dto.BindAndValidate(c, &req)
	if err != nil {
		dto.RespondBindError(c, "request validation failed", err)
		return
	}

	interval, _ := time.ParseDuration(req.Interval)

	scheduled, err := h.scheduler.ScheduleBatch(c.Request.Context(), req.Start, interval, req.Count)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, ReminderListResponse{Items: toReminderResponses(scheduled)})
}

// CancelReminders handles DELETE /api/v1/notifications
//
// @Summary Cancel all pending reminders
// @Tags notifications
// @Success 204
// @Router /api/v1/notifications [delete]
func (h *NotificationHandler) CancelReminders(c *gin.Context) {
	err := h.scheduler.CancelAll(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetNotificationTime handles GET /api/v1/settings/notification-time
//
// @Summary Get the preferred reminder time
// @Tags settings
// @Produce json
// @Success 200 {object} NotificationTimeResponse
// @Router /api/v1/settings/notification-time [get]
func (h *NotificationHandler) GetNotificationTime(c *gin.Context) {
	at, err := h.scheduler.GetNotificationTime(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, NotificationTimeResponse{Time: at.String()})
}

// SetNotificationTime handles PUT /api/v1/settings/notification-time
// Stores the preferred time and reschedules the daily reminders around it.
//
// @Summary Set the preferred reminder time
// @Tags settings
// @Accept json
// @Produce json
// @Param request body NotificationTimeRequest true "Time as HH:MM"
// @Success 200 {object} NotificationTimeResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/settings/notification-time [put]
func (h *NotificationHandler) SetNotificationTime(c *gin.Context) {
	var req NotificationTimeRequest

	err := dto.BindAndValidate(c, &req)
	if err != nil {
		dto.RespondBindError(c, "request validation failed", err)
		return
	}

	at, err := h.scheduler.SetNotificationTime(c.Request.Context(), req.Time)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, NotificationTimeResponse{Time: at.String()})
}

// RegisterNotificationRoutes registers reminder and settings routes on the given router group.
func (h *NotificationHandler) RegisterNotificationRoutes(rg *gin.RouterGroup) {
	notifications := rg.Group("/notifications")
	notifications.GET("", h.ListReminders)
	notifications.POST("/schedule", h.ScheduleReminders)
	notifications.DELETE("", h.CancelReminders)

	settings := rg.Group("/settings")
	settings.GET("/notification-time", h.GetNotificationTime)
	settings.PUT("/notification-time", h.SetNotificationTime)
}
