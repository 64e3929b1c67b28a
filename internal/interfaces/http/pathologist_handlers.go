package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/limepath/pathsys/internal/application/service"
)

// PathologistHandlers serves the pathologist directory endpoints
type PathologistHandlers struct {
	pathologistService service.PathologistService
	logger             Logger
}

// NewPathologistHandlers creates a new PathologistHandlers instance
func NewPathologistHandlers(pathologistService service.PathologistService, logger Logger) *PathologistHandlers {
	return &PathologistHandlers{
		pathologistService: pathologistService,
		logger:             logger,
	}
}

// PathologistRequest is the payload for adding a directory entry
type PathologistRequest struct {
	Name          string `json:"name" binding:"required"`
	Email         string `json:"email" binding:"required"`
	SignatureCode string `json:"signature_code" binding:"required"`
}

// Register handles POST /api/pathologists
func (h *PathologistHandlers) Register(c *gin.Context) {
	var req PathologistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	created, err := h.pathologistService.Register(c.Request.Context(), service.RegisterPathologistInput{
		Name:          req.Name,
		Email:         req.Email,
		SignatureCode: req.SignatureCode,
	})
	if err != nil {
		h.logger.Error("Failed to register pathologist", "error", err)
		respondServiceError(c, err)
		return
	}

	respondCreated(c, created)
}

// List handles GET /api/pathologists
func (h *PathologistHandlers) List(c *gin.Context) {
	pathologists, err := h.pathologistService.ListActive(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list pathologists", "error", err)
		respondServiceError(c, err)
		return
	}
	respondOK(c, pathologists)
}
