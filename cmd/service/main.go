// Package main is the entry point for the daily quote service.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/jsamuelsen/daily-quote/internal/adapters/clients/acl"
	"github.com/jsamuelsen/daily-quote/internal/adapters/clippings"
	"github.com/jsamuelsen/daily-quote/internal/adapters/http"
	"github.com/jsamuelsen/daily-quote/internal/adapters/http/handlers"
	"github.com/jsamuelsen/daily-quote/internal/adapters/kvstore"
	"github.com/jsamuelsen/daily-quote/internal/adapters/notify"
	"github.com/jsamuelsen/daily-quote/internal/adapters/watcher"
	"github.com/jsamuelsen/daily-quote/internal/app"
	"github.com/jsamuelsen/daily-quote/internal/assets"
	"github.com/jsamuelsen/daily-quote/internal/domain"
	"github.com/jsamuelsen/daily-quote/internal/platform/config"
	"github.com/jsamuelsen/daily-quote/internal/platform/logging"
	"github.com/jsamuelsen/daily-quote/internal/platform/telemetry"
	"github.com/jsamuelsen/daily-quote/internal/ports"
)

// Build-time variables, injected via ldflags.
// Example: go build -ldflags "-X main.Version=1.0.0 -X main.Commit=$(git rev-parse HEAD) -X main.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	// Version is the semantic version of the service.
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "unknown"

	// BuildTime is the timestamp when the binary was built.
	BuildTime = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Load and validate configuration (fail fast)
	cfg, err := config.Load(config.Profile())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// 2. Initialize logging
	logger := logging.New(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})
	logging.SetDefault(logger)

	logger.Info("starting service",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
		slog.String("storage", cfg.Storage.Driver),
		slog.String("sink", cfg.Notifications.Sink),
	)

	// 3. Initialize telemetry (noop if disabled)
	telProvider, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	defer func() {
		if shutdownErr := telProvider.Shutdown(context.WithoutCancel(ctx)); shutdownErr != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

	metrics := telemetry.NewDomainMetrics(nil)
	healthRegistry := ports.NewHealthRegistry(ports.WithCheckTimeout(cfg.Server.HealthCheckTimeout))

	// 4. Open persisted state
	store, err := kvstore.Open(&cfg.Storage, logger)
	if err != nil {
		return fmt.Errorf("opening %s store: %w", cfg.Storage.Driver, err)
	}

	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			logger.Error("closing store", slog.Any("error", closeErr))
		}
	}()

	if err := healthRegistry.Register(store); err != nil {
		return fmt.Errorf("registering store health check: %w", err)
	}

	// 5. Quote collection and daily selection
	bundled, err := bundledQuotes(cfg.Quotes.BundledPath)
	if err != nil {
		return err
	}

	quotes := app.NewQuoteStore(app.QuoteStoreConfig{
		Parser:  clippings.NewParser(clippings.ParserConfig{}),
		Store:   store,
		Bundled: bundled,
		Metrics: metrics,
		Logger:  logger,
	})

	selector := app.NewDailySelector(app.DailySelectorConfig{
		Quotes:     quotes,
		Store:      store,
		MaxRetries: cfg.Quotes.MaxRetries,
		Rand:       seededRand(cfg.Quotes.Seed),
		Metrics:    metrics,
		Logger:     logger,
	})

	// 6. Reminder delivery
	sink, err := newSink(cfg, logger)
	if err != nil {
		return fmt.Errorf("creating %s sink: %w", cfg.Notifications.Sink, err)
	}

	if checker, ok := sink.(ports.HealthChecker); ok {
		if err := healthRegistry.Register(checker); err != nil {
			return fmt.Errorf("registering sink health check: %w", err)
		}
	}

	notifier := notify.NewLocalScheduler(notify.LocalSchedulerConfig{
		Capacity: cfg.Notifications.MaxPending,
		Sink:     sink,
		Metrics:  metrics,
		Logger:   logger,
	})

	defer func() {
		if closeErr := notifier.Close(); closeErr != nil {
			logger.Error("closing notifier", slog.Any("error", closeErr))
		}
	}()

	if err := healthRegistry.Register(notifier); err != nil {
		return fmt.Errorf("registering notifier health check: %w", err)
	}

	defaultTime, err := domain.ParseClockTime(cfg.Notifications.DefaultTime)
	if err != nil {
		return fmt.Errorf("parsing default notification time: %w", err)
	}

	scheduler := app.NewScheduler(app.SchedulerConfig{
		Quotes:      quotes,
		Notifier:    notifier,
		Store:       store,
		Title:       cfg.Notifications.Title,
		MaxLength:   cfg.Notifications.MaxLength,
		DefaultTime: defaultTime,
		WindowCount: cfg.Notifications.WindowCount,
		Rand:        seededRand(cfg.Quotes.Seed),
		Metrics:     metrics,
		Logger:      logger,
	})
	quotes.OnImport(scheduler.OnImport)

	// 7. Create handlers
	buildInfo := handlers.NewBuildInfo(Version, Commit, BuildTime)
	healthHandler := handlers.NewHealthHandler(healthRegistry, buildInfo, nil)
	quoteHandler := handlers.NewQuoteHandler(quotes, selector, scheduler)
	notificationHandler := handlers.NewNotificationHandler(scheduler)

	// 8. Create HTTP server and routes
	server := http.New(&cfg.Server, logger)
	http.SetupRouter(server.Engine(), http.NewDefaultRouterConfig(
		logger,
		&cfg.App,
		healthHandler,
		quoteHandler,
		notificationHandler,
	))

	logger.Info("readiness checks registered", slog.Any("checks", healthRegistry.Names()))

	// 9. Run the server and background workers until a signal arrives
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return server.Run(gctx)
	})

	g.Go(func() error {
		return scheduler.Run(gctx, cfg.Notifications.RefreshInterval)
	})

	if cfg.Quotes.WatchPath != "" {
		w, err := watcher.New(quotes, watcher.Options{Path: cfg.Quotes.WatchPath}, logger)
		if err != nil {
			stop()
			_ = g.Wait()

			return fmt.Errorf("watching %s: %w", cfg.Quotes.WatchPath, err)
		}

		g.Go(func() error {
			return w.Run(gctx)
		})
	}

	err = g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	logger.Info("shutdown complete")

	return nil
}

// bundledQuotes returns the collection served before the first import.
func bundledQuotes(path string) ([]byte, error) {
	if path == "" {
		return assets.BundledQuotes, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading bundled quotes: %w", err)
	}

	return raw, nil
}

// seededRand returns a deterministic source for a non-zero seed and nil
// otherwise, leaving the components to seed themselves.
func seededRand(seed int64) *rand.Rand {
	if seed == 0 {
		return nil
	}

	return rand.New(rand.NewPCG(uint64(seed), uint64(seed))) //nolint:gosec // reproducible selection, not security
}

// newSink builds the configured reminder sink.
func newSink(cfg *config.Config, logger *slog.Logger) (ports.ReminderSink, error) {
	switch cfg.Notifications.Sink {
	case "dbus":
		return notify.NewDBusSink(notify.DBusSinkConfig{
			AppName: cfg.Notifications.DBus.AppName,
			Icon:    cfg.Notifications.DBus.Icon,
			Timeout: cfg.Notifications.DBus.Timeout,
			Logger:  logger,
		})
	case "webhook":
		return acl.NewWebhookSink(acl.WebhookSinkConfig{
			URL:    cfg.Notifications.Webhook.URL,
			Token:  cfg.Notifications.Webhook.Token,
			Client: cfg.Client,
			Logger: logger,
		})
	default:
		return notify.NewLogSink(logger), nil
	}
}
