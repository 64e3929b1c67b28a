package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/limepath/pathsys/internal/application/port"
	"github.com/limepath/pathsys/internal/application/service"
	"github.com/limepath/pathsys/internal/domain/entity"
)

// ApprovalHandlers serves the approval workflow endpoints
type ApprovalHandlers struct {
	approvalService service.ApprovalService
	logger          Logger
}

// NewApprovalHandlers creates a new ApprovalHandlers instance
func NewApprovalHandlers(approvalService service.ApprovalService, logger Logger) *ApprovalHandlers {
	return &ApprovalHandlers{
		approvalService: approvalService,
		logger:          logger,
	}
}

// CreateApprovalRequest is the payload for POST /api/approvals
type CreateApprovalRequest struct {
	OriginalCaseCode string                     `json:"original_case_code" binding:"required"`
	Tests            []entity.ComplementaryTest `json:"tests"`
	Reason           string                     `json:"reason" binding:"required"`
	PathologistID    int64                      `json:"pathologist_id"`
	PathologistName  string                     `json:"pathologist_name"`
}

// DecisionRequest carries the comments for manage/approve/reject
type DecisionRequest struct {
	Comments string `json:"comments"`
}

// UpdateTestsRequest is the payload for PUT /api/approvals/:code/tests
type UpdateTestsRequest struct {
	Tests []entity.ComplementaryTest `json:"tests" binding:"required"`
}

// Create handles POST /api/approvals
func (h *ApprovalHandlers) Create(c *gin.Context) {
	var req CreateApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	input := service.CreateRequestInput{
		OriginalCaseCode:   req.OriginalCaseCode,
		ComplementaryTests: req.Tests,
		Reason:             req.Reason,
		RequestedBy:        actorFrom(c),
	}
	if req.PathologistID != 0 {
		input.AssignedPathologist = &entity.PathologistRef{
			ID:   req.PathologistID,
			Name: req.PathologistName,
		}
	}

	created, err := h.approvalService.CreateRequest(c.Request.Context(), input)
	if err != nil {
		h.logger.Error("Failed to create approval request", "error", err)
		respondServiceError(c, err)
		return
	}

	respondCreated(c, created)
}

// Get handles GET /api/approvals/:code
func (h *ApprovalHandlers) Get(c *gin.Context) {
	req, err := h.approvalService.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, req)
}

// searchQuery holds the filter parameters of GET /api/approvals
type searchQuery struct {
	OriginalCaseCode string `form:"original_case_code"`
	State            string `form:"state"`
	RequestedBy      string `form:"requested_by"`
	ApprovedBy       string `form:"approved_by"`
	CreatedFrom      string `form:"created_from"`
	CreatedTo        string `form:"created_to"`
}

// Search handles GET /api/approvals
func (h *ApprovalHandlers) Search(c *gin.Context) {
	var q searchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondError(c, http.StatusBadRequest, "invalid query parameters")
		return
	}

	filter := port.ApprovalFilter{
		OriginalCaseCode: q.OriginalCaseCode,
		State:            q.State,
		RequestedBy:      q.RequestedBy,
		ApprovedBy:       q.ApprovedBy,
	}
	if q.CreatedFrom != "" {
		from, err := time.Parse(time.RFC3339, q.CreatedFrom)
		if err != nil {
			respondError(c, http.StatusBadRequest, "created_from must be RFC3339")
			return
		}
		filter.CreatedFrom = &from
	}
	if q.CreatedTo != "" {
		to, err := time.Parse(time.RFC3339, q.CreatedTo)
		if err != nil {
			respondError(c, http.StatusBadRequest, "created_to must be RFC3339")
			return
		}
		filter.CreatedTo = &to
	}

	p := bindPagination(c)
	requests, total, err := h.approvalService.Search(c.Request.Context(), filter, p.Skip, p.Limit)
	if err != nil {
		h.logger.Error("Failed to search approval requests", "error", err)
		respondServiceError(c, err)
		return
	}

	respondOK(c, PagedResponse{Items: requests, Total: total, Skip: p.Skip, Limit: p.Limit})
}

// Manage handles POST /api/approvals/:code/manage
func (h *ApprovalHandlers) Manage(c *gin.Context) {
	h.decide(c, h.approvalService.Manage)
}

// Approve handles POST /api/approvals/:code/approve
func (h *ApprovalHandlers) Approve(c *gin.Context) {
	h.decide(c, h.approvalService.Approve)
}

// Reject handles POST /api/approvals/:code/reject
func (h *ApprovalHandlers) Reject(c *gin.Context) {
	h.decide(c, h.approvalService.Reject)
}

func (h *ApprovalHandlers) decide(
	c *gin.Context,
	op func(ctx context.Context, approvalCode, actor, comments string) (*entity.ApprovalRequest, error),
) {
	var req DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		respondError(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	updated, err := op(c.Request.Context(), c.Param("code"), actorFrom(c), req.Comments)
	if err != nil {
		h.logger.Error("Workflow transition failed",
			"approval_code", c.Param("code"), "error", err)
		respondServiceError(c, err)
		return
	}

	respondOK(c, updated)
}

// UpdateTests handles PUT /api/approvals/:code/tests
func (h *ApprovalHandlers) UpdateTests(c *gin.Context) {
	var req UpdateTestsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	updated, err := h.approvalService.UpdateTests(c.Request.Context(), c.Param("code"), req.Tests)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, updated)
}

// Delete handles DELETE /api/approvals/:code
func (h *ApprovalHandlers) Delete(c *gin.Context) {
	if err := h.approvalService.Delete(c.Request.Context(), c.Param("code")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
