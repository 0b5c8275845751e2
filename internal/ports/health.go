package ports

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// DefaultCheckTimeout bounds a single health check.
const DefaultCheckTimeout = 2 * time.Second

// ErrDuplicateChecker is returned when a checker name is registered twice.
var ErrDuplicateChecker = errors.New("duplicate health checker")

// HealthChecker is implemented by components readiness depends on: the
// key-value store, the notifier and remote reminder sinks.
type HealthChecker interface {
	// Name is unique within a registry and keys the readiness report.
	Name() string

	// Check returns nil when the component can serve requests.
	Check(ctx context.Context) error
}

// HealthRegistry aggregates the registered checks.
type HealthRegistry interface {
	Register(checker HealthChecker) error
	CheckAll(ctx context.Context) *HealthResult
}

// HealthStatus is healthy or unhealthy.
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// HealthResult is the readiness report.
type HealthResult struct {
	Status    HealthStatus            `json:"status"`
	Checks    map[string]*CheckResult `json:"checks"`
	Timestamp time.Time               `json:"timestamp"`
}

// CheckResult is the outcome of one check.
type CheckResult struct {
	Status   HealthStatus  `json:"status"`
	Message  string        `json:"message,omitempty"`
	Duration time.Duration `json:"duration"`
}

// RegistryOption configures a DefaultHealthRegistry.
type RegistryOption func(*DefaultHealthRegistry)

// WithCheckTimeout bounds each check; a check still running at the deadline
// is reported unhealthy.
func WithCheckTimeout(d time.Duration) RegistryOption {
	return func(r *DefaultHealthRegistry) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// DefaultHealthRegistry runs its checks concurrently. It is safe for
// concurrent use.
type DefaultHealthRegistry struct {
	timeout time.Duration

	mu       sync.RWMutex
	checkers []HealthChecker
}

// NewHealthRegistry creates an empty registry.
func NewHealthRegistry(opts ...RegistryOption) *DefaultHealthRegistry {
	r := &DefaultHealthRegistry{timeout: DefaultCheckTimeout}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Register adds checker unless its name is taken.
func (r *DefaultHealthRegistry) Register(checker HealthChecker) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.checkers {
		if c.Name() == checker.Name() {
			return fmt.Errorf("%w: %s", ErrDuplicateChecker, checker.Name())
		}
	}

	r.checkers = append(r.checkers, checker)

	return nil
}

// Names lists the registered checkers in registration order.
func (r *DefaultHealthRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.checkers))
	for i, c := range r.checkers {
		names[i] = c.Name()
	}

	return names
}

// CheckAll runs every check and is unhealthy if any check fails.
func (r *DefaultHealthRegistry) CheckAll(ctx context.Context) *HealthResult {
	r.mu.RLock()
	checkers := append([]HealthChecker(nil), r.checkers...)
	r.mu.RUnlock()

	results := make([]*CheckResult, len(checkers))

	var wg sync.WaitGroup
	for i, c := range checkers {
		wg.Go(func() {
			results[i] = r.run(ctx, c)
		})
	}

	wg.Wait()

	report := &HealthResult{
		Status:    HealthStatusHealthy,
		Checks:    make(map[string]*CheckResult, len(checkers)),
		Timestamp: time.Now(),
	}

	for i, c := range checkers {
		report.Checks[c.Name()] = results[i]
		if results[i].Status == HealthStatusUnhealthy {
			report.Status = HealthStatusUnhealthy
		}
	}

	return report
}

func (r *DefaultHealthRegistry) run(ctx context.Context, c HealthChecker) *CheckResult {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	done := make(chan error, 1)

	go func() { done <- c.Check(ctx) }()

	var err error

	select {
	case err = <-done:
	case <-ctx.Done():
		err = fmt.Errorf("check did not finish: %w", ctx.Err())
	}

	res := &CheckResult{Status: HealthStatusHealthy, Duration: time.Since(start)}
	if err != nil {
		res.Status = HealthStatusUnhealthy
		res.Message = err.Error()
	}

	return res
}
