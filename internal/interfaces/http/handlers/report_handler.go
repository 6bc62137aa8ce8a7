package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/uwazilabs/haki-analytics/internal/domain/report"
	"github.com/uwazilabs/haki-analytics/internal/infrastructure/monitoring/logging"
)

// ReportHandler serves report intake and retrieval.
type ReportHandler struct {
	repo   report.Repository
	logger logging.Logger
}

// NewReportHandler constructs the handler.
func NewReportHandler(repo report.Repository, logger logging.Logger) *ReportHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &ReportHandler{repo: repo, logger: logger}
}

// createReportRequest is the intake payload.  Agency and categories arrive as
// wire strings and are parsed against the closed enumerations before anything
// reaches storage.
type createReportRequest struct {
	County          string    `json:"county" binding:"required"`
	Agency          string    `json:"agency" binding:"required"`
	Categories      []string  `json:"categories" binding:"required"`
	IncidentDate    time.Time `json:"incident_date" binding:"required"`
	EstimatedAmount float64   `json:"estimated_amount"`
	Description     string    `json:"description"`
}

// Create handles POST /api/v1/reports.
func (h *ReportHandler) Create(c *gin.Context) {
	var req createReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	agency, err := report.ParseAgency(req.Agency)
	if err != nil {
		respondError(c, err)
		return
	}
	categories := make([]report.Category, 0, len(req.Categories))
	for _, raw := range req.Categories {
		cat, err := report.ParseCategory(raw)
		if err != nil {
			respondError(c, err)
			return
		}
		categories = append(categories, cat)
	}

	rep, err := report.NewReport(req.County, agency, categories,
		req.IncidentDate, req.EstimatedAmount, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.repo.Create(c.Request.Context(), rep); err != nil {
		respondError(c, err)
		return
	}

	h.logger.Info("report submitted",
		logging.String("report_id", rep.ID),
		logging.String("county", rep.County),
		logging.String("agency", string(rep.Agency)),
	)
	c.JSON(http.StatusCreated, rep)
}

// Get handles GET /api/v1/reports/:id.
func (h *ReportHandler) Get(c *gin.Context) {
	rep, err := h.repo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rep)
}

// List handles GET /api/v1/reports.
func (h *ReportHandler) List(c *gin.Context) {
	reports, err := h.repo.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if reports == nil {
		reports = []*report.Report{}
	}
	c.JSON(http.StatusOK, gin.H{
		"reports": reports,
		"total":   len(reports),
	})
}
