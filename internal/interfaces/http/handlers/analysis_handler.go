package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/uwazilabs/haki-analytics/internal/analytics/cluster"
	"github.com/uwazilabs/haki-analytics/internal/analytics/text"
	"github.com/uwazilabs/haki-analytics/internal/application/analysis"
	"github.com/uwazilabs/haki-analytics/internal/domain/report"
	"github.com/uwazilabs/haki-analytics/internal/infrastructure/monitoring/logging"
)

const (
	defaultSimilarLimit = 5
	maxSimilarLimit     = 50
)

// AnalysisHandler serves the clustering, anomaly and text-analysis endpoints.
type AnalysisHandler struct {
	svc    *analysis.Service
	logger logging.Logger
}

// NewAnalysisHandler constructs the handler.
func NewAnalysisHandler(svc *analysis.Service, logger logging.Logger) *AnalysisHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &AnalysisHandler{svc: svc, logger: logger}
}

type clusterRequest struct {
	K int `json:"k"`
}

// Cluster handles POST /api/v1/analysis/clusters.  An absent or zero k falls
// back to the configured default cluster count.
func (h *AnalysisHandler) Cluster(c *gin.Context) {
	var req clusterRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}
	}

	clusters, err := h.svc.ClusterReports(c.Request.Context(), req.K)
	if err != nil {
		respondError(c, err)
		return
	}
	if clusters == nil {
		clusters = []*cluster.Cluster{}
	}
	c.JSON(http.StatusOK, gin.H{
		"clusters": clusters,
		"total":    len(clusters),
	})
}

// Anomalies handles POST /api/v1/analysis/anomalies.
func (h *AnalysisHandler) Anomalies(c *gin.Context) {
	result, err := h.svc.DetectAnomalies(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// CheckReport handles GET /api/v1/analysis/reports/:id/anomaly.  A normal
// report yields anomalous=false with a null anomaly rather than a 404.
func (h *AnalysisHandler) CheckReport(c *gin.Context) {
	found, err := h.svc.CheckReport(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"report_id": c.Param("id"),
		"anomalous": found != nil,
		"anomaly":   found,
	})
}

// Similar handles GET /api/v1/analysis/reports/:id/similar?limit=n.
func (h *AnalysisHandler) Similar(c *gin.Context) {
	limit := defaultSimilarLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxSimilarLimit {
			respondValidationError(c,
				fmt.Errorf("limit must be an integer in [1, %d], got %q", maxSimilarLimit, raw))
			return
		}
		limit = n
	}

	similar, err := h.svc.FindSimilar(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	if similar == nil {
		similar = []*report.Report{}
	}
	c.JSON(http.StatusOK, gin.H{
		"report_id": c.Param("id"),
		"similar":   similar,
		"total":     len(similar),
	})
}

type analyzeTextRequest struct {
	Text string `json:"text" binding:"required"`
}

// AnalyzeText handles POST /api/v1/analysis/text.
func (h *AnalysisHandler) AnalyzeText(c *gin.Context) {
	var req analyzeTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.svc.AnalyzeText(req.Text))
}

type similarityRequest struct {
	TextA string `json:"text_a" binding:"required"`
	TextB string `json:"text_b" binding:"required"`
}

// Similarity handles POST /api/v1/analysis/similarity.
func (h *AnalysisHandler) Similarity(c *gin.Context) {
	var req similarityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"similarity": h.svc.CompareTexts(req.TextA, req.TextB),
	})
}

// Duplicates handles POST /api/v1/analysis/duplicates.
func (h *AnalysisHandler) Duplicates(c *gin.Context) {
	groups, err := h.svc.DuplicateGroups(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if groups == nil {
		groups = []text.DuplicateGroup{}
	}
	c.JSON(http.StatusOK, gin.H{
		"groups": groups,
		"total":  len(groups),
	})
}

// Summary handles GET /api/v1/analysis/summary.
func (h *AnalysisHandler) Summary(c *gin.Context) {
	summary, err := h.svc.Summary(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": summary})
}
