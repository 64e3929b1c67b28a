package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/limepath/pathsys/internal/application/port"
	"github.com/limepath/pathsys/internal/application/service"
)

// ReportHandlers serves the reporting endpoints
type ReportHandlers struct {
	reportService service.ReportService
	logger        Logger
}

// NewReportHandlers creates a new ReportHandlers instance
func NewReportHandlers(reportService service.ReportService, logger Logger) *ReportHandlers {
	return &ReportHandlers{
		reportService: reportService,
		logger:        logger,
	}
}

// Summary handles GET /api/reports/approvals/summary
func (h *ReportHandlers) Summary(c *gin.Context) {
	from, to, err := periodFrom(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	summary, err := h.reportService.ApprovalSummary(c.Request.Context(), from, to)
	if err != nil {
		h.logger.Error("Failed to build approval summary", "error", err)
		respondServiceError(c, err)
		return
	}

	respondOK(c, summary)
}

// ExportRegister handles GET /api/reports/approvals/register
func (h *ReportHandlers) ExportRegister(c *gin.Context) {
	from, to, err := periodFrom(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	filter := port.ApprovalFilter{
		State:       c.Query("state"),
		CreatedFrom: from,
		CreatedTo:   to,
	}

	data, err := h.reportService.ExportRegister(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to export approval register", "error", err)
		respondServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("approval-register-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func periodFrom(c *gin.Context) (*time.Time, *time.Time, error) {
	var from, to *time.Time
	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, nil, fmt.Errorf("from must be RFC3339")
		}
		from = &parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, nil, fmt.Errorf("to must be RFC3339")
		}
		to = &parsed
	}
	return from, to, nil
}
