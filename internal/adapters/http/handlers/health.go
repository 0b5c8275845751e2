// Package handlers serves the quote, notification and probe endpoints.
package handlers

import (
	"net/http"
	"runtime"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jsamuelsen/daily-quote/internal/ports"
)

// BuildInfo is stamped into the binary with -ldflags.
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
}

func NewBuildInfo(version, commit, buildTime string) BuildInfo {
	return BuildInfo{Version: version, Commit: commit, BuildTime: buildTime, GoVersion: runtime.Version()}
}

// HealthHandler serves the /-/ probes. Liveness only proves the process
// answers; readiness runs every registered check (key-value store, notifier,
// webhook breaker).
type HealthHandler struct {
	registry ports.HealthRegistry
	build    BuildInfo
	gatherer prometheus.Gatherer
}

// NewHealthHandler serves metrics from gatherer, or from the default
// Prometheus registry when it is nil.
func NewHealthHandler(registry ports.HealthRegistry, build BuildInfo, gatherer prometheus.Gatherer) *HealthHandler {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	return &HealthHandler{registry: registry, build: build, gatherer: gatherer}
}

// Mount registers live, ready, build and metrics on rg.
func (h *HealthHandler) Mount(rg *gin.RouterGroup) {
	rg.GET("/live", h.Liveness)
	rg.GET("/ready", h.Readiness)
	rg.GET("/build", h.Build)
	rg.GET("/metrics", gin.WrapH(MetricsHandler(h.gatherer)))
}

func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness answers 503 while any check fails, so an orchestrator stops
// routing imports and reminder requests to this instance.
func (h *HealthHandler) Readiness(c *gin.Context) {
	report := h.registry.CheckAll(c.Request.Context())

	status := http.StatusOK
	if report.Status != ports.HealthStatusHealthy {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, report)
}

func (h *HealthHandler) Build(c *gin.Context) {
	c.JSON(http.StatusOK, h.build)
}

// MetricsHandler exposes gatherer in the Prometheus text format.
func MetricsHandler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
