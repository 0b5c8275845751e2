package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/daily-quote/internal/adapters/http/dto"
	"github.com/jsamuelsen/daily-quote/internal/platform/logging"
)

// Deadline bounds each request's context by d. Store reads, imports and
// reminder scheduling all take the context, so they stop at the deadline.
// When the deadline passed and the handler wrote nothing, the caller gets a
// 504 TIMEOUT envelope.
func Deadline(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)

		c.Next()

		if !errors.Is(ctx.Err(), context.DeadlineExceeded) || c.Writer.Written() {
			return
		}

		logging.FromContext(ctx).WarnContext(ctx, "request deadline exceeded",
			slog.String("path", c.Request.URL.Path),
			slog.Duration("deadline", d),
		)

		abort(c, http.StatusGatewayTimeout,
			dto.NewErrorResponse(dto.ErrorCodeTimeout, "request deadline exceeded").WithTraceID(dto.GetTraceID(c)))
	}
}
