// Package config loads the service configuration with koanf: built-in
// defaults, then configs/base.yaml, then configs/<profile>.yaml, then APP_
// environment variables. Validate checks the result with validator tags.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Defaults shared with components built outside Load, such as quotectl's
// client.
const (
	DefaultServerPort     = 8080
	DefaultMaxRequestSize = 1 << 20

	DefaultClientRetryMaxAttempts      = 3
	DefaultClientRetryInitialInterval  = 100 * time.Millisecond
	DefaultClientRetryMaxInterval      = 5 * time.Second
	DefaultClientRetryMultiplier       = 2.0
	DefaultClientRetryJitterFactor     = 0.25
	DefaultClientCircuitMaxFailures    = 5
	DefaultClientCircuitTimeout        = 30 * time.Second
	DefaultClientCircuitHalfOpenLimit  = 3
	defaultTransportMaxIdleConns       = 100
	defaultTransportMaxIdleConnsByHost = 10

	DefaultSelectionMaxRetries    = 3
	DefaultNotificationTitle      = "Your Daily Kindle Quote"
	DefaultNotificationMaxLength  = 100
	DefaultNotificationMaxPending = 64
	DefaultNotificationWindow     = 30
	DefaultNotificationTime       = "14:00"
)

// DefaultDir holds base.yaml and the profile files.
const DefaultDir = "configs"

// EnvPrefix marks configuration variables. A double underscore separates
// sections, so APP_SERVER__SHUTDOWN_TIMEOUT sets server.shutdown_timeout.
const EnvPrefix = "APP_"

// Config is the service configuration. Keys are the koanf tags joined by
// dots, as in server.shutdown_timeout.
type Config struct {
	App           AppConfig           `koanf:"app"           validate:"required"`
	Server        ServerConfig        `koanf:"server"        validate:"required"`
	Log           LogConfig           `koanf:"log"           validate:"required"`
	Telemetry     TelemetryConfig     `koanf:"telemetry"`
	Client        ClientConfig        `koanf:"client"        validate:"required"`
	Storage       StorageConfig       `koanf:"storage"       validate:"required"`
	Quotes        QuotesConfig        `koanf:"quotes"        validate:"required"`
	Notifications NotificationsConfig `koanf:"notifications" validate:"required"`
}

// AppConfig identifies the deployment. Environment also names the profile.
type AppConfig struct {
	Name        string `koanf:"name"        validate:"required"`
	Version     string `koanf:"version"     validate:"required"`
	Environment string `koanf:"environment" validate:"required,oneof=local dev qa prod test"`
}

// ServerConfig configures the API listener. MaxRequestSize bounds clippings
// uploads; HealthCheckTimeout bounds each readiness check.
type ServerConfig struct {
	Port               int           `koanf:"port"                 validate:"required,min=1,max=65535"`
	Host               string        `koanf:"host"                 validate:"required"`
	ReadTimeout        time.Duration `koanf:"read_timeout"         validate:"required,min=1s"`
	WriteTimeout       time.Duration `koanf:"write_timeout"        validate:"required,min=1s"`
	IdleTimeout        time.Duration `koanf:"idle_timeout"         validate:"required,min=1s"`
	ShutdownTimeout    time.Duration `koanf:"shutdown_timeout"     validate:"required,min=1s"`
	MaxRequestSize     int64         `koanf:"max_request_size"     validate:"required,min=1"`
	HealthCheckTimeout time.Duration `koanf:"health_check_timeout" validate:"omitempty,min=10ms,ltefield=ReadTimeout"`
}

// LogConfig selects the level and the terminal format.
type LogConfig struct {
	Level  string        `koanf:"level"  validate:"required,oneof=trace debug info warn error"`
	Format string        `koanf:"format" validate:"required,oneof=json text pretty"`
	File   LogFileConfig `koanf:"file"`
}

// LogFileConfig tees JSON logs to a lumberjack-rotated file.
type LogFileConfig struct {
	Enabled    bool   `koanf:"enabled"`
	Path       string `koanf:"path"       validate:"required_if=Enabled true"`
	MaxSizeMB  int    `koanf:"max_size"   validate:"omitempty,min=1,max=1024"`
	MaxBackups int    `koanf:"max_backups" validate:"omitempty,min=0,max=100"`
	MaxAgeDays int    `koanf:"max_age"    validate:"omitempty,min=0,max=365"`
	Compress   bool   `koanf:"compress"`
}

// TelemetryConfig configures OTLP export. Disabled, spans and metrics go to
// the no-op providers.
type TelemetryConfig struct {
	Enabled      bool    `koanf:"enabled"`
	Endpoint     string  `koanf:"endpoint"      validate:"required_if=Enabled true,omitempty,url"`
	ServiceName  string  `koanf:"service_name"  validate:"required_if=Enabled true"`
	SamplingRate float64 `koanf:"sampling_rate" validate:"min=0,max=1"`
}

// ClientConfig configures outbound HTTP: the webhook sink and quotectl.
type ClientConfig struct {
	Timeout        time.Duration        `koanf:"timeout"         validate:"required,min=100ms"`
	Retry          RetryConfig          `koanf:"retry"           validate:"required"`
	CircuitBreaker CircuitBreakerConfig `koanf:"circuit_breaker" validate:"required"`
	Transport      TransportConfig      `koanf:"transport"       validate:"required"`
}

// RetryConfig is exponential backoff with jitter.
type RetryConfig struct {
	MaxAttempts     int           `koanf:"max_attempts"     validate:"required,min=1,max=10"`
	InitialInterval time.Duration `koanf:"initial_interval" validate:"required,min=10ms"`
	MaxInterval     time.Duration `koanf:"max_interval"     validate:"required,min=100ms"`
	Multiplier      float64       `koanf:"multiplier"       validate:"required,min=1.1,max=10"`
	JitterFactor    float64       `koanf:"jitter_factor"    validate:"min=0,max=1"`
}

// CircuitBreakerConfig trips after MaxFailures consecutive failures, probes
// again after Timeout and closes after HalfOpenLimit successful probes.
type CircuitBreakerConfig struct {
	MaxFailures   int           `koanf:"max_failures"    validate:"required,min=1"`
	Timeout       time.Duration `koanf:"timeout"         validate:"required,min=1s"`
	HalfOpenLimit int           `koanf:"half_open_limit" validate:"required,min=1"`
}

// TransportConfig sizes the connection pool.
type TransportConfig struct {
	MaxIdleConns        int           `koanf:"max_idle_conns"         validate:"required,min=1"`
	MaxIdleConnsPerHost int           `koanf:"max_idle_conns_per_host" validate:"required,min=1"`
	IdleConnTimeout     time.Duration `koanf:"idle_conn_timeout"      validate:"required,min=1s"`
}

// StorageConfig selects the key-value engine that backs persisted state.
type StorageConfig struct {
	Driver string `koanf:"driver" validate:"required,oneof=badger sqlite memory"`
	Path   string `koanf:"path"   validate:"required_unless=Driver memory"`
}

// QuotesConfig contains quote collection and daily selection settings.
type QuotesConfig struct {
	// BundledPath overrides the collection embedded in the binary.
	BundledPath string `koanf:"bundled_path"`

	// WatchPath is a clippings export re-imported whenever it changes.
	WatchPath string `koanf:"watch_path"`

	MaxRetries int   `koanf:"max_retries" validate:"required,min=1,max=10"`
	Seed       int64 `koanf:"seed"`
}

// NotificationsConfig configures reminder scheduling and the delivery sink.
// The webhook sink needs Webhook.URL.
type NotificationsConfig struct {
	Sink            string        `koanf:"sink"             validate:"required,oneof=log dbus webhook"`
	Title           string        `koanf:"title"            validate:"required"`
	MaxLength       int           `koanf:"max_length"       validate:"required,min=4"`
	MaxPending      int           `koanf:"max_pending"      validate:"required,min=1"`
	DefaultTime     string        `koanf:"default_time"     validate:"required,datetime=15:04"`
	WindowCount     int           `koanf:"window_count"     validate:"required,min=1,ltefield=MaxPending"`
	RefreshInterval time.Duration `koanf:"refresh_interval" validate:"required,min=1s"`
	DBus            DBusConfig    `koanf:"dbus"`
	Webhook         WebhookConfig `koanf:"webhook"`
}

// DBusConfig configures org.freedesktop.Notifications delivery.
type DBusConfig struct {
	AppName string        `koanf:"app_name"`
	Icon    string        `koanf:"icon"`
	Timeout time.Duration `koanf:"timeout"`
}

// WebhookConfig configures delivery by POST. Token is sent as a bearer
// credential and redacted from logs.
type WebhookConfig struct {
	URL   string `koanf:"url"   validate:"omitempty,url"`
	Token string `koanf:"token"`
}

func defaults() map[string]any {
	return map[string]any{
		"app.name":        "daily-quote",
		"app.version":     "dev",
		"app.environment": "local",

		"server.port":                 DefaultServerPort,
		"server.host":                 "0.0.0.0",
		"server.read_timeout":         "30s",
		"server.write_timeout":        "30s",
		"server.idle_timeout":         "120s",
		"server.shutdown_timeout":     "10s",
		"server.max_request_size":     DefaultMaxRequestSize,
		"server.health_check_timeout": "2s",

		"log.level":            "info",
		"log.format":           "json",
		"log.file.path":        "./logs/daily-quote.log",
		"log.file.max_size":    100,
		"log.file.max_backups": 3,
		"log.file.max_age":     28,
		"log.file.compress":    true,

		"telemetry.service_name":  "daily-quote",
		"telemetry.sampling_rate": 1.0,

		"client.timeout":                           "30s",
		"client.retry.max_attempts":                DefaultClientRetryMaxAttempts,
		"client.retry.initial_interval":            DefaultClientRetryInitialInterval.String(),
		"client.retry.max_interval":                DefaultClientRetryMaxInterval.String(),
		"client.retry.multiplier":                  DefaultClientRetryMultiplier,
		"client.retry.jitter_factor":               DefaultClientRetryJitterFactor,
		"client.circuit_breaker.max_failures":      DefaultClientCircuitMaxFailures,
		"client.circuit_breaker.timeout":           DefaultClientCircuitTimeout.String(),
		"client.circuit_breaker.half_open_limit":   DefaultClientCircuitHalfOpenLimit,
		"client.transport.max_idle_conns":          defaultTransportMaxIdleConns,
		"client.transport.max_idle_conns_per_host": defaultTransportMaxIdleConnsByHost,
		"client.transport.idle_conn_timeout":       "90s",

		"storage.driver": "badger",
		"storage.path":   "./data/quotes",

		"quotes.max_retries": DefaultSelectionMaxRetries,

		"notifications.sink":             "log",
		"notifications.title":            DefaultNotificationTitle,
		"notifications.max_length":       DefaultNotificationMaxLength,
		"notifications.max_pending":      DefaultNotificationMaxPending,
		"notifications.default_time":     DefaultNotificationTime,
		"notifications.window_count":     DefaultNotificationWindow,
		"notifications.refresh_interval": "1h",
		"notifications.dbus.app_name":    "daily-quote",
		"notifications.dbus.timeout":     "10s",
	}
}

// Load reads the configuration for profile from DefaultDir. An empty profile
// reads only base.yaml; missing files are skipped.
func Load(profile string) (*Config, error) {
	return LoadDir(DefaultDir, profile)
}

// LoadDir is Load with the YAML files read from dir.
func LoadDir(dir, profile string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	files := []string{"base"}
	if profile != "" {
		files = append(files, profile)
	}

	for _, name := range files {
		path := filepath.Join(dir, name+".yaml")

		err := k.Load(file.Provider(path), yaml.Parser())
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	return &cfg, nil
}

// envKey maps APP_NOTIFICATIONS__WEBHOOK__URL to notifications.webhook.url.
func envKey(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(name, EnvPrefix)), "__", ".")
}

// Profile is the profile named by APP_ENVIRONMENT, or "local".
func Profile() string {
	if p := os.Getenv(EnvPrefix + "ENVIRONMENT"); p != "" {
		return p
	}

	return "local"
}
