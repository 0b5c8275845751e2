package dto

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/daily-quote/internal/domain"
	"github.com/jsamuelsen/daily-quote/internal/platform/logging"
)

// Gin context keys read by GetTraceID.
const (
	ContextKeyTraceID   = "trace_id"
	contextKeyRequestID = "request_id"
	headerRequestID     = "X-Request-ID"
)

// MapDomainError classifies err into a status and envelope. Errors outside
// the domain taxonomy get a generic 500 message.
func MapDomainError(err error) (int, *ErrorResponse) {
	if err == nil {
		return http.StatusOK, nil
	}

	var schedulerErr *domain.SchedulerError

	switch {
	case domain.IsParse(err):
		return respond(ErrorCodeParse, err.Error(), parseDetails(err))

	case errors.As(err, &schedulerErr):
		if schedulerErr.Precondition() {
			return respond(ErrorCodeScheduleRejected, schedulerErr.Error(), nil)
		}

		return respond(ErrorCodeScheduleFailed, schedulerErr.Error(), map[string]string{
			"scheduled": strconv.Itoa(schedulerErr.Scheduled),
		})

	// Selection failures wrap store failures.
	case domain.IsSelection(err):
		return respond(ErrorCodeSelection, err.Error(), nil)

	case domain.IsStore(err):
		return respond(ErrorCodeNoQuotes, err.Error(), nil)

	case domain.IsNotFound(err):
		return respond(ErrorCodeNotFound, err.Error(), nil)

	case domain.IsValidation(err):
		var validationErr *domain.ValidationError
		if errors.As(err, &validationErr) && validationErr.Field != "" {
			return respond(ErrorCodeValidation, err.Error(), map[string]string{
				validationErr.Field: validationErr.Message,
			})
		}

		return respond(ErrorCodeValidation, err.Error(), nil)

	case domain.IsUnavailable(err):
		return respond(ErrorCodeUnavailable, "service temporarily unavailable", nil)

	default:
		return respond(ErrorCodeInternal, "an internal error occurred", nil)
	}
}

func respond(code, message string, details map[string]string) (int, *ErrorResponse) {
	return HTTPStatusFromCode(code), NewErrorResponseWithDetails(code, message, details)
}

// parseDetails reports which record of an export was rejected and why.
func parseDetails(err error) map[string]string {
	var parseErr *domain.ParseError
	if !errors.As(err, &parseErr) {
		return nil
	}

	details := map[string]string{
		"record": strconv.Itoa(parseErr.Record),
		"reason": parseErr.Reason,
	}

	if parseErr.Field != "" {
		details["field"] = parseErr.Field
	}

	return details
}

// GetTraceID returns the identifier a client should quote when reporting an
// error. It prefers an explicit trace ID on the gin context, then the active
// span, then the request ID.
func GetTraceID(c *gin.Context) string {
	if v, ok := c.Get(ContextKeyTraceID); ok {
		id, _ := v.(string)

		return id
	}

	if span := trace.SpanFromContext(c.Request.Context()); span.SpanContext().HasTraceID() {
		return span.SpanContext().TraceID().String()
	}

	if id := c.GetString(contextKeyRequestID); id != "" {
		return id
	}

	return c.GetHeader(headerRequestID)
}

// HandleError writes the error envelope for err. Handlers call it and return.
func HandleError(c *gin.Context, err error) {
	status, resp := MapDomainError(err)
	resp.TraceID = GetTraceID(c)

	ctx := c.Request.Context()
	logger := logging.FromContext(ctx)

	switch {
	case resp.Error.Code == ErrorCodeInternal:
		logger.ErrorContext(ctx, "internal error",
			"error", err.Error(),
			"trace_id", resp.TraceID,
		)
	case status >= http.StatusInternalServerError:
		logger.WarnContext(ctx, "request failed",
			"error", err.Error(),
			"code", resp.Error.Code,
		)
	}

	c.JSON(status, resp)
}
