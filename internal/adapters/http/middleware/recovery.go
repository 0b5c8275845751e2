package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/daily-quote/internal/adapters/http/dto"
	"github.com/jsamuelsen/daily-quote/internal/platform/logging"
)

// Recovery turns a handler panic into a 500 envelope and logs the stack.
// It must be first in the chain.
func Recovery(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}

			ctx := c.Request.Context()
			traceID := dto.GetTraceID(c)

			logging.FromContextOr(ctx, logger).ErrorContext(ctx, "panic recovered",
				slog.Any("panic", r),
				slog.String("method", c.Request.Method),
				slog.String("path", c.Request.URL.Path),
				slog.String("trace_id", traceID),
				slog.String("stack", string(debug.Stack())),
			)

			abort(c, http.StatusInternalServerError,
				dto.NewErrorResponse(dto.ErrorCodeInternal, "an internal error occurred").WithTraceID(traceID))
		}()

		c.Next()
	}
}

// abort writes resp unless a handler already started the response.
func abort(c *gin.Context, status int, resp *dto.ErrorResponse) {
	if c.Writer.Written() {
		c.Abort()
		return
	}

	c.AbortWithStatusJSON(status, resp)
}
