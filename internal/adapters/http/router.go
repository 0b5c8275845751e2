package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/daily-quote/internal/adapters/http/dto"
	"github.com/jsamuelsen/daily-quote/internal/adapters/http/handlers"
	"github.com/jsamuelsen/daily-quote/internal/adapters/http/middleware"
	"github.com/jsamuelsen/daily-quote/internal/platform/config"
	"github.com/jsamuelsen/daily-quote/internal/platform/telemetry"
)

// DefaultRequestTimeout bounds /api/v1 requests. Imports of large exports are
// the slowest route.
const DefaultRequestTimeout = 30 * time.Second

// RouterConfig lists the handlers to mount. Nil handlers are skipped.
type RouterConfig struct {
	Logger    *slog.Logger
	AppConfig *config.AppConfig

	HealthHandler *handlers.HealthHandler

	// QuoteHandler serves the quote collection, the daily quote and imports.
	QuoteHandler *handlers.QuoteHandler

	// NotificationHandler serves reminders and the notification-time setting.
	NotificationHandler *handlers.NotificationHandler

	// Timeout is the /api/v1 request deadline; zero disables it.
	Timeout time.Duration
}

// SetupRouter installs the middleware chain and the routes on engine.
// Recovery runs first, then request and correlation IDs, tracing and
// metrics, and the access log. Only /api/v1 routes get the request deadline;
// the /-/ probe routes do not.
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	engine.Use(
		middleware.Recovery(cfg.Logger),
		middleware.RequestID(),
		middleware.CorrelationID(),
	)
	engine.Use(telemetry.Middleware(cfg.AppConfig.Name)...)
	engine.Use(middleware.AccessLog(cfg.Logger))

	if cfg.HealthHandler != nil {
		cfg.HealthHandler.Mount(engine.Group("/-"))
	}

	apiV1 := engine.Group("/api/v1")
	if cfg.Timeout > 0 {
		apiV1.Use(middleware.Deadline(cfg.Timeout))
	}

	setupAPIRoutes(apiV1, cfg)

	engine.HandleMethodNotAllowed = true
	engine.NoRoute(func(c *gin.Context) {
		AbortWithErrorCode(c, dto.ErrorCodeNotFound, "no route for "+c.Request.Method+" "+c.Request.URL.Path)
	})
	engine.NoMethod(func(c *gin.Context) {
		AbortWithErrorCode(c, dto.ErrorCodeMethodNotAllowed, c.Request.Method+" is not allowed on "+c.Request.URL.Path)
	})
}

func setupAPIRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	if cfg.QuoteHandler != nil {
		cfg.QuoteHandler.RegisterQuoteRoutes(rg)
	}

	if cfg.NotificationHandler != nil {
		cfg.NotificationHandler.RegisterNotificationRoutes(rg)
	}
}

// NewDefaultRouterConfig returns a RouterConfig with DefaultRequestTimeout.
func NewDefaultRouterConfig(
	logger *slog.Logger,
	appCfg *config.AppConfig,
	healthHandler *handlers.HealthHandler,
	quoteHandler *handlers.QuoteHandler,
	notificationHandler *handlers.NotificationHandler,
) RouterConfig {
	return RouterConfig{
		Logger:              logger,
		AppConfig:           appCfg,
		HealthHandler:       healthHandler,
		QuoteHandler:        quoteHandler,
		NotificationHandler: notificationHandler,
		Timeout:             DefaultRequestTimeout,
	}
}
