package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/limepath/pathsys/internal/application/service"
	"github.com/limepath/pathsys/internal/domain/entity"
)

// CaseHandlers serves the case endpoints
type CaseHandlers struct {
	caseService service.CaseService
	logger      Logger
}

// NewCaseHandlers creates a new CaseHandlers instance
func NewCaseHandlers(caseService service.CaseService, logger Logger) *CaseHandlers {
	return &CaseHandlers{
		caseService: caseService,
		logger:      logger,
	}
}

// CreateCaseRequest is the payload for POST /api/cases
type CreateCaseRequest struct {
	PatientID     int64                      `json:"patient_id" binding:"required"`
	Tests         []entity.ComplementaryTest `json:"tests"`
	PathologistID int64                      `json:"pathologist_id"`
}

// AssignPathologistRequest is the payload for POST /api/cases/:code/assign
type AssignPathologistRequest struct {
	PathologistID int64 `json:"pathologist_id" binding:"required"`
}

// Create handles POST /api/cases
func (h *CaseHandlers) Create(c *gin.Context) {
	var req CreateCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	created, err := h.caseService.CreateCase(c.Request.Context(), service.CreateCaseInput{
		PatientID:     req.PatientID,
		Tests:         req.Tests,
		PathologistID: req.PathologistID,
	})
	if err != nil {
		h.logger.Error("Failed to create case", "error", err)
		respondServiceError(c, err)
		return
	}

	respondCreated(c, created)
}

// Get handles GET /api/cases/:code
func (h *CaseHandlers) Get(c *gin.Context) {
	found, err := h.caseService.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, found)
}

// List handles GET /api/cases
func (h *CaseHandlers) List(c *gin.Context) {
	p := bindPagination(c)
	cases, total, err := h.caseService.List(c.Request.Context(), p.Skip, p.Limit)
	if err != nil {
		h.logger.Error("Failed to list cases", "error", err)
		respondServiceError(c, err)
		return
	}
	respondOK(c, PagedResponse{Items: cases, Total: total, Skip: p.Skip, Limit: p.Limit})
}

// AssignPathologist handles POST /api/cases/:code/assign
func (h *CaseHandlers) AssignPathologist(c *gin.Context) {
	var req AssignPathologistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "pathologist_id is required")
		return
	}

	updated, err := h.caseService.AssignPathologist(c.Request.Context(), c.Param("code"), req.PathologistID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, updated)
}

// Sign handles POST /api/cases/:code/sign
func (h *CaseHandlers) Sign(c *gin.Context) {
	signed, err := h.caseService.Sign(c.Request.Context(), c.Param("code"), actorFrom(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, signed)
}
