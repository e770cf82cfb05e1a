package reports

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"jobmatch-backend/internal/shared/server/middleware"
	"jobmatch-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the reports service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches report routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/reports", h.list)
	rg.GET("/reports/:id", h.get)
	rg.GET("/reports/:id/download", h.download)
}

func (h *Handler) list(c *gin.Context) {
	limit := 20
	offset := 0
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}

	reports, err := h.Svc.List(c.Request.Context(), limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list reports", nil)
		return
	}

	resp := make([]gin.H, 0, len(reports))
	for _, r := range reports {
		resp = append(resp, gin.H{
			"id":             r.ID,
			"analyzedAt":     r.AnalyzedAt,
			"overallScore":   r.OverallScore,
			"recommendation": r.Recommendation,
			"source":         r.Source,
		})
	}
	respond.OK(c, resp)
}

func (h *Handler) get(c *gin.Context) {
	reportID, ok := reportIDParam(c)
	if !ok {
		return
	}
	report, err := h.Svc.Get(c.Request.Context(), reportID)
	if err != nil {
		reportError(c, err, "failed to fetch report")
		return
	}
	c.Set(middleware.ReportIDKey, report.ID)
	respond.OK(c, report)
}

func (h *Handler) download(c *gin.Context) {
	reportID, ok := reportIDParam(c)
	if !ok {
		return
	}
	report, body, err := h.Svc.Open(c.Request.Context(), reportID)
	if err != nil {
		reportError(c, err, "failed to download report")
		return
	}
	defer body.Close()

	c.Set(middleware.ReportIDKey, report.ID)
	respond.Attachment(c, report.FileName(), jsonContentType, body)
}

func reportIDParam(c *gin.Context) (string, bool) {
	reportID := c.Param("id")
	if _, err := uuid.Parse(reportID); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "report id must be a UUID", nil)
		return "", false
	}
	return reportID, true
}

func reportError(c *gin.Context, err error, message string) {
	if errors.Is(err, ErrNotFound) {
		respond.Error(c, http.StatusNotFound, "not_found", "report not found", nil)
		return
	}
	respond.Error(c, http.StatusInternalServerError, "internal_error", message, nil)
}
