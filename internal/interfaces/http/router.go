// Package http assembles the gin route tree and the HTTP server for the
// analytics API.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/uwazilabs/haki-analytics/internal/application/analysis"
	"github.com/uwazilabs/haki-analytics/internal/domain/report"
	"github.com/uwazilabs/haki-analytics/internal/infrastructure/monitoring/logging"
	"github.com/uwazilabs/haki-analytics/internal/infrastructure/monitoring/prometheus"
	"github.com/uwazilabs/haki-analytics/internal/interfaces/http/handlers"
	"github.com/uwazilabs/haki-analytics/internal/interfaces/http/middleware"
)

// RouterConfig carries everything the route tree needs.
type RouterConfig struct {
	Mode           string // gin mode: "debug" | "release" | "test"
	Service        *analysis.Service
	Repo           report.Repository
	Probes         map[string]handlers.Probe
	Metrics        *prometheus.AppMetrics
	MetricsHandler http.Handler
	Logger         logging.Logger
}

// NewRouter builds the complete route tree.  Health and metrics endpoints sit
// outside the /api/v1 group so probes never pass through API middleware
// ordering changes.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = prometheus.NewNoopMetrics()
	}

	r := gin.New()
	r.Use(
		middleware.Recovery(cfg.Logger),
		middleware.RequestLogging(cfg.Logger.Named("http")),
		middleware.RequestMetrics(cfg.Metrics),
	)

	health := handlers.NewHealthHandler(cfg.Probes, cfg.Metrics, cfg.Logger)
	r.GET("/healthz", health.Live)
	r.GET("/readyz", health.Ready)
	if cfg.MetricsHandler != nil {
		r.GET("/metrics", gin.WrapH(cfg.MetricsHandler))
	}

	reports := handlers.NewReportHandler(cfg.Repo, cfg.Logger)
	analysisH := handlers.NewAnalysisHandler(cfg.Service, cfg.Logger)

	v1 := r.Group("/api/v1")
	{
		v1.POST("/reports", reports.Create)
		v1.GET("/reports", reports.List)
		v1.GET("/reports/:id", reports.Get)

		an := v1.Group("/analysis")
		{
			an.POST("/clusters", analysisH.Cluster)
			an.POST("/anomalies", analysisH.Anomalies)
			an.GET("/reports/:id/anomaly", analysisH.CheckReport)
			an.GET("/reports/:id/similar", analysisH.Similar)
			an.POST("/text", analysisH.AnalyzeText)
			an.POST("/similarity", analysisH.Similarity)
			an.POST("/duplicates", analysisH.Duplicates)
			an.GET("/summary", analysisH.Summary)
		}
	}

	return r
}
