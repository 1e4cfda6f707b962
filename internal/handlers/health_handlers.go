package handlers

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/labstack/echo/v4"
)

const healthCheckTimeout = 3 * time.Second

// DependencyCheck probes one backing service. Critical dependencies decide
// readiness; the others only degrade the health report.
type DependencyCheck struct {
	Name     string
	Critical bool
	Check    func(ctx context.Context) error
}

// HealthHandlers handles health check and monitoring endpoints
type HealthHandlers struct {
	checks    []DependencyCheck
	version   string
	startedAt time.Time
}

// NewHealthHandlers creates a new health handlers instance
func NewHealthHandlers(version string, checks ...DependencyCheck) *HealthHandlers {
	return &HealthHandlers{checks: checks, version: version, startedAt: time.Now()}
}

// HealthStatus represents the overall health status
type HealthStatus struct {
	Status     string                   `json:"status"`
	Timestamp  string                   `json:"timestamp"`
	Services   map[string]ServiceHealth `json:"services"`
	Uptime     string                   `json:"uptime"`
	Version    string                   `json:"version"`
	Goroutines int                      `json:"goroutines"`
}

type ServiceHealth struct {
	Status    string `json:"status"`
	Message   string `json:"message,omitempty"`
	LatencyMS int64  `json:"latency_ms"`
}

// run executes every check and reports whether all critical ones passed.
func (h *HealthHandlers) run(ctx context.Context, criticalOnly bool) (map[string]ServiceHealth, bool, bool) {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	results := make(map[string]ServiceHealth, len(h.checks))
	ready, healthy := true, true
	for _, check := range h.checks {
		if criticalOnly && !check.Critical {
			continue
		}
		started := time.Now()
		err := check.Check(ctx)
		result := ServiceHealth{Status: "healthy", LatencyMS: time.Since(started).Milliseconds()}
		if err != nil {
			result.Status = "unhealthy"
			result.Message = err.Error()
			healthy = false
			if check.Critical {
				ready = false
			}
		}
		results[check.Name] = result
	}
	return results, ready, healthy
}

// HealthCheck performs comprehensive health checks
// @Summary Health
// @Tags Health
// @Produce json
// @Success 200 {object} HealthStatus
// @Failure 503 {object} HealthStatus
// @Router /health [get]
func (h *HealthHandlers) HealthCheck(c echo.Context) error {
	services, ready, healthy := h.run(c.Request().Context(), false)
	health := &HealthStatus{
		Status:     "healthy",
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Services:   services,
		Uptime:     time.Since(h.startedAt).Round(time.Second).String(),
		Version:    h.version,
		Goroutines: runtime.NumGoroutine(),
	}

	statusCode := http.StatusOK
	switch {
	case !ready:
		health.Status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	case !healthy:
		health.Status = "degraded"
	}
	return c.JSON(statusCode, health)
}

// ReadinessCheck determines if the application is ready to serve traffic
// @Summary Readiness probe
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /health/ready [get]
func (h *HealthHandlers) ReadinessCheck(c echo.Context) error {
	_, ready, _ := h.run(c.Request().Context(), true)
	if !ready {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status":  "not_ready",
			"message": "Critical services unavailable",
		})
	}
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ready",
		"message": "All systems operational",
	})
}

// LivenessCheck determines if the application is running (basic liveness probe)
// @Summary Liveness probe
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health/live [get]
func (h *HealthHandlers) LivenessCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":    "alive",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
