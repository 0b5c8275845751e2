package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/daily-quote/internal/platform/logging"
)

// AccessLog logs one line per request once it completes, at warn for 4xx
// and error for 5xx. Probe routes under /-/ and any path in skip are not
// logged. The request logger already carries the request and correlation IDs.
func AccessLog(logger *slog.Logger, skip ...string) gin.HandlerFunc {
	skipped := make(map[string]bool, len(skip))
	for _, p := range skip {
		skipped[p] = true
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/-/") || skipped[path] {
			c.Next()
			return
		}

		start := time.Now()

		c.Next()

		status := c.Writer.Status()

		level := slog.LevelInfo
		switch {
		case status >= http.StatusInternalServerError:
			level = slog.LevelError
		case status >= http.StatusBadRequest:
			level = slog.LevelWarn
		}

		ctx := c.Request.Context()
		logging.FromContextOr(ctx, logger).Log(ctx, level, "request",
			slog.String("method", c.Request.Method),
			slog.String("route", c.FullPath()),
			slog.String("path", path),
			slog.String("query", c.Request.URL.RawQuery),
			slog.Int("status", status),
			slog.Int("bytes", c.Writer.Size()),
			slog.Duration("latency", time.Since(start)),
			slog.String("client_ip", c.ClientIP()),
		)
	}
}
