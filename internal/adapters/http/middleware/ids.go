// Package middleware holds the gin middleware in front of the quote and
// notification routes.
package middleware

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jsamuelsen/daily-quote/internal/platform/logging"
)

// Headers carrying request identity. A correlation ID spans every call made
// on behalf of one caller action, a request ID only this hop.
const (
	HeaderRequestID     = "X-Request-ID"
	HeaderCorrelationID = "X-Correlation-ID"
)

// Gin context keys for the identifiers.
const (
	ContextKeyRequestID     = "request_id"
	ContextKeyCorrelationID = "correlation_id"
)

type idKey int

const (
	requestIDKey idKey = iota
	correlationIDKey
)

// RequestID adopts X-Request-ID, or generates one, and echoes it back.
func RequestID() gin.HandlerFunc {
	return identify(HeaderRequestID, ContextKeyRequestID, ContextWithRequestID)
}

// CorrelationID adopts X-Correlation-ID, or starts a new one, and echoes it
// back. Outbound webhook calls forward it.
func CorrelationID() gin.HandlerFunc {
	return identify(HeaderCorrelationID, ContextKeyCorrelationID, ContextWithCorrelationID)
}

// identify stores the ID under key in the gin context, in the request context
// via store and on the request logger.
func identify(header, key string, store func(context.Context, string) context.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(header)
		if id == "" {
			id = uuid.NewString()
		}

		c.Set(key, id)
		c.Header(header, id)

		ctx := logging.With(store(c.Request.Context(), id), slog.String(key, id))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetRequestID returns the request ID set by RequestID, or "".
func GetRequestID(c *gin.Context) string {
	return c.GetString(ContextKeyRequestID)
}

// GetCorrelationID returns the correlation ID set by CorrelationID, or "".
func GetCorrelationID(c *gin.Context) string {
	return c.GetString(ContextKeyCorrelationID)
}

func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey, id)
}

// RequestIDFromContext is read by the outbound client to forward the ID.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// CorrelationIDFromContext is read by the outbound client to forward the ID.
func CorrelationIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(correlationIDKey).(string)
	return id
}
