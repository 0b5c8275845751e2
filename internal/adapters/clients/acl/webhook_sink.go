package acl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/jsamuelsen/daily-quote/internal/adapters/clients"
	"github.com/jsamuelsen/daily-quote/internal/domain"
	"github.com/jsamuelsen/daily-quote/internal/platform/config"
	"github.com/jsamuelsen/daily-quote/internal/platform/logging"
)

const webhookServiceName = "webhook"

// WebhookSinkConfig contains configuration for the webhook sink.
type WebhookSinkConfig struct {
	// URL receives one POST per due reminder.
	URL string

	// Token, when set, is sent as a bearer token on every attempt.
	Token string

	// Client holds timeout, retry, circuit breaker and transport settings.
	Client config.ClientConfig

	Logger *slog.Logger
}

// WebhookSink delivers due reminders as JSON to an HTTP endpoint.
// It implements ports.ReminderSink and ports.HealthChecker.
type WebhookSink struct {
	BaseAdapter

	path   string
	logger *slog.Logger
}

// webhookPayload is the wire format the receiver sees. It never leaves this package.
type webhookPayload struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	QuoteID     string    `json:"quoteId"`
	FireAt      time.Time `json:"fireAt"`
	DeliveredAt time.Time `json:"deliveredAt"`
}

// NewWebhookSink creates a webhook sink for the given endpoint.
func NewWebhookSink(cfg WebhookSinkConfig) (*WebhookSink, error) {
	u, err := url.Parse(cfg.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid webhook url %q", cfg.URL)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var auth func(*http.Request)
	if cfg.Token != "" {
		auth = func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer "+cfg.Token)
		}
	}

	client, err := clients.New(&clients.Config{
		BaseURL:      u.Scheme + "://" + u.Host,
		ServiceName:  webhookServiceName,
		ClientConfig: cfg.Client,
		AuthFunc:     auth,
		Logger:       logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating webhook client: %w", err)
	}

	return &WebhookSink{
		BaseAdapter: NewBaseAdapter(client, webhookServiceName),
		path:        u.RequestURI(),
		logger:      logger.With(slog.String("component", "acl.WebhookSink")),
	}, nil
}

// Name implements ports.ReminderSink and ports.HealthChecker.
func (s *WebhookSink) Name() string {
	return webhookServiceName
}

// Deliver posts the reminder to the webhook.
func (s *WebhookSink) Deliver(ctx context.Context, reminder domain.ScheduledReminder) error {
	payload, err := translateReminder(reminder)
	if err != nil {
		return err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding reminder: %w", err)
	}

	logging.FromContextOr(ctx, s.logger).Log(ctx, logging.LevelTrace, "posting reminder",
		slog.String("reminder_id", reminder.ID),
		slog.String("path", s.path),
	)

	resp, err := s.Post(ctx, s.path, body, "deliver reminder")
	if err != nil {
		return err
	}

	return resp.Close()
}

// Check reports the webhook unavailable while its circuit breaker is open.
func (s *WebhookSink) Check(context.Context) error {
	if s.Client().CircuitState() == clients.StateOpen {
		return domain.NewUnavailableError(webhookServiceName, "circuit breaker open")
	}

	return nil
}

func translateReminder(r domain.ScheduledReminder) (*webhookPayload, error) {
	err := errors.Join(
		requireField(r.ID, "id"),
		requireField(r.Body, "body"),
		requireField(r.QuoteID, "quoteId"),
	)
	if err != nil {
		return nil, err
	}

	return &webhookPayload{
		ID:          r.ID,
		Title:       r.Title,
		Body:        r.Body,
		QuoteID:     r.QuoteID,
		FireAt:      r.FireAt,
		DeliveredAt: time.Now(),
	}, nil
}
