package clients

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/daily-quote/internal/adapters/http/middleware"
	"github.com/jsamuelsen/daily-quote/internal/platform/config"
	"github.com/jsamuelsen/daily-quote/internal/platform/logging"
)

const (
	instrumentationName = "github.com/jsamuelsen/daily-quote/internal/adapters/clients"

	defaultTimeout      = 30 * time.Second
	defaultJitterFactor = 0.25

	defaultMaxIdleConns        = 100
	defaultMaxIdleConnsPerHost = 10
	defaultIdleConnTimeout     = 90 * time.Second
)

// Config configures a Client.
type Config struct {
	// BaseURL is prefixed to every request path.
	BaseURL string

	// ServiceName names the receiver in logs, spans and metrics.
	ServiceName string

	// ClientConfig carries timeout, retry, circuit breaker and pool settings.
	config.ClientConfig

	// AuthFunc, when set, decorates every attempt, retries included.
	AuthFunc func(*http.Request)

	Logger *slog.Logger
}

// Client sends JSON requests to one receiver with retries, a circuit
// breaker, request ID propagation and OpenTelemetry spans and metrics.
type Client struct {
	http    *http.Client
	baseURL string
	name    string
	retry   config.RetryConfig
	auth    func(*http.Request)
	breaker *CircuitBreaker
	logger  *slog.Logger

	tracer   trace.Tracer
	duration metric.Float64Histogram
	requests metric.Int64Counter
}

// New creates a client. ServiceName is required; zero pool settings and
// timeout take package defaults and fewer than one attempt means one.
func New(cfg *Config) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}

	if cfg.ServiceName == "" {
		return nil, errors.New("service name is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	retry := cfg.Retry
	retry.MaxAttempts = max(retry.MaxAttempts, 1)

	if retry.JitterFactor <= 0 {
		retry.JitterFactor = defaultJitterFactor
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	logger = logger.With(
		slog.String("component", "clients.Client"),
		slog.String("downstream", cfg.ServiceName),
	)

	breaker := NewCircuitBreaker(CircuitBreakerConfig{
		MaxFailures: cfg.CircuitBreaker.MaxFailures,
		Cooldown:    cfg.CircuitBreaker.Timeout,
		Probes:      cfg.CircuitBreaker.HalfOpenLimit,
	})
	breaker.OnStateChange(func(from, to State) {
		logger.Warn("circuit breaker state changed",
			slog.String("from", from.String()),
			slog.String("to", to.String()),
		)
	})

	meter := otel.Meter(instrumentationName)

	duration, err := meter.Float64Histogram("http.client.request.duration",
		metric.WithDescription("Duration of outbound requests including retries"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating duration metric: %w", err)
	}

	requests, err := meter.Int64Counter("http.client.request.total",
		metric.WithDescription("Outbound requests by result"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating request counter: %w", err)
	}

	return &Client{
		http: &http.Client{
			Timeout:   timeout,
			Transport: newTransport(cfg.Transport),
		},
		baseURL:  strings.TrimSuffix(cfg.BaseURL, "/"),
		name:     cfg.ServiceName,
		retry:    retry,
		auth:     cfg.AuthFunc,
		breaker:  breaker,
		logger:   logger,
		tracer:   otel.Tracer(instrumentationName),
		duration: duration,
		requests: requests,
	}, nil
}

func newTransport(tc config.TransportConfig) *http.Transport {
	t := &http.Transport{
		MaxIdleConns:        tc.MaxIdleConns,
		MaxIdleConnsPerHost: tc.MaxIdleConnsPerHost,
		IdleConnTimeout:     tc.IdleConnTimeout,
	}

	if t.MaxIdleConns <= 0 {
		t.MaxIdleConns = defaultMaxIdleConns
	}

	if t.MaxIdleConnsPerHost <= 0 {
		t.MaxIdleConnsPerHost = defaultMaxIdleConnsPerHost
	}

	if t.IdleConnTimeout <= 0 {
		t.IdleConnTimeout = defaultIdleConnTimeout
	}

	return t
}

// Do sends method path with body as JSON (nil for none). Network errors and
// 5xx or 429 responses are retried with exponential backoff. The response of
// the last attempt is returned for the caller to inspect and close, and a
// retryable status there still counts as a failure for the breaker.
func (c *Client) Do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	start := time.Now()
	logger := logging.FromContextOr(ctx, c.logger).With(
		slog.String("method", method),
		slog.String("path", path),
	)

	if err := c.breaker.Acquire(); err != nil {
		c.record(ctx, method, 0, start, "circuit_open")
		logger.WarnContext(ctx, "request blocked by circuit breaker")

		return nil, err
	}

	ctx, span := c.tracer.Start(ctx, "HTTP "+method+" "+c.name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("http.url", c.url(path)),
			attribute.String("peer.service", c.name),
		),
	)
	defer span.End()

	resp, err := c.send(ctx, method, path, body, logger)
	c.breaker.Release(err == nil && !retryableStatus(resp.StatusCode))

	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		c.record(ctx, method, 0, start, "error")
		logger.ErrorContext(ctx, "request failed",
			slog.Duration("duration", time.Since(start)),
			slog.Any("error", err),
		)

		return nil, err
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode >= http.StatusBadRequest {
		span.SetStatus(codes.Error, "HTTP "+strconv.Itoa(resp.StatusCode))
	}

	c.record(ctx, method, resp.StatusCode, start, strconv.Itoa(resp.StatusCode/100)+"xx")
	logger.DebugContext(ctx, "request completed",
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)),
	)

	return resp, nil
}

// send runs the attempts. A fresh request is built for each so the body
// and headers never leak between attempts.
func (c *Client) send(ctx context.Context, method, path string, body []byte, logger *slog.Logger) (*http.Response, error) {
	var lastErr error

	for attempt := range c.retry.MaxAttempts {
		if attempt > 0 {
			wait := c.backoff(attempt)
			logger.DebugContext(ctx, "retrying request",
				slog.Int("attempt", attempt+1),
				slog.Duration("backoff", wait),
			)

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
		}

		req, err := c.newRequest(ctx, method, path, body)
		if err != nil {
			return nil, err
		}

		resp, err := c.http.Do(req)
		if err != nil {
			if !isRetryableError(err) {
				return nil, err
			}

			lastErr = err

			continue
		}

		if !retryableStatus(resp.StatusCode) || attempt == c.retry.MaxAttempts-1 {
			return resp, nil
		}

		_ = resp.Body.Close()
		lastErr = fmt.Errorf("server error: %d", resp.StatusCode)
	}

	return nil, fmt.Errorf("%w: %w", ErrMaxRetriesExceeded, lastErr)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body []byte) (*http.Request, error) {
	var req *http.Request

	var err error

	if body == nil {
		req, err = http.NewRequestWithContext(ctx, method, c.url(path), http.NoBody)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, c.url(path), bytes.NewReader(body))
	}

	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	req.Header.Set("Accept", "application/json")

	if id := middleware.RequestIDFromContext(ctx); id != "" {
		req.Header.Set(middleware.HeaderRequestID, id)
	}

	if id := middleware.CorrelationIDFromContext(ctx); id != "" {
		req.Header.Set(middleware.HeaderCorrelationID, id)
	}

	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	if c.auth != nil {
		c.auth(req)
	}

	return req, nil
}

// CircuitState returns the breaker state.
func (c *Client) CircuitState() State {
	return c.breaker.State()
}

func (c *Client) url(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	return c.baseURL + path
}

// backoff is InitialInterval * Multiplier^attempt, capped at MaxInterval,
// then spread by ±JitterFactor.
func (c *Client) backoff(attempt int) time.Duration {
	d := float64(c.retry.InitialInterval) * math.Pow(c.retry.Multiplier, float64(attempt))
	d = min(d, float64(c.retry.MaxInterval))
	d += d * c.retry.JitterFactor * (rand.Float64()*2 - 1) //nolint:gosec // jitter

	return time.Duration(d)
}

func (c *Client) record(ctx context.Context, method string, status int, start time.Time, result string) {
	attrs := []attribute.KeyValue{
		attribute.String("http.method", method),
		attribute.String("peer.service", c.name),
		attribute.String("result", result),
	}

	if status > 0 {
		attrs = append(attrs, attribute.Int("http.status_code", status))
	}

	opt := metric.WithAttributes(attrs...)
	c.duration.Record(ctx, time.Since(start).Seconds(), opt)
	c.requests.Add(ctx, 1, opt)
}
