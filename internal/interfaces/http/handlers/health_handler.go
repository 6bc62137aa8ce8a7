package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/uwazilabs/haki-analytics/internal/infrastructure/monitoring/logging"
	"github.com/uwazilabs/haki-analytics/internal/infrastructure/monitoring/prometheus"
)

// readinessTimeout bounds each dependency probe.
const readinessTimeout = 2 * time.Second

// Probe checks one dependency; a nil error means healthy.
type Probe func(ctx context.Context) error

// HealthHandler serves liveness and readiness endpoints.  Liveness is
// unconditional; readiness probes every registered dependency.
type HealthHandler struct {
	probes  map[string]Probe
	metrics *prometheus.AppMetrics
	logger  logging.Logger
}

// NewHealthHandler constructs the handler over named dependency probes.
func NewHealthHandler(probes map[string]Probe, metrics *prometheus.AppMetrics, logger logging.Logger) *HealthHandler {
	if metrics == nil {
		metrics = prometheus.NewNoopMetrics()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &HealthHandler{probes: probes, metrics: metrics, logger: logger}
}

// Live handles GET /healthz.
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready handles GET /readyz.  Any failing probe makes the whole endpoint
// return 503 with per-component detail.
func (h *HealthHandler) Ready(c *gin.Context) {
	components := make(map[string]string, len(h.probes))
	healthy := true

	for name, probe := range h.probes {
		ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
		err := probe(ctx)
		cancel()

		if err != nil {
			healthy = false
			components[name] = "down: " + err.Error()
			h.metrics.HealthCheckStatus.WithLabelValues(name).Set(0)
			h.logger.Warn("readiness probe failed",
				logging.String("component", name),
				logging.Err(err),
			)
			continue
		}
		components[name] = "up"
		h.metrics.HealthCheckStatus.WithLabelValues(name).Set(1)
	}

	status := http.StatusOK
	overall := "ready"
	if !healthy {
		status = http.StatusServiceUnavailable
		overall = "not_ready"
	}
	c.JSON(status, gin.H{
		"status":     overall,
		"components": components,
	})
}
