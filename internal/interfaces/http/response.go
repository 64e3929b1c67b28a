package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/limepath/pathsys/internal/application/port"
	"github.com/limepath/pathsys/internal/application/service"
	"github.com/limepath/pathsys/internal/domain/workflow"
)

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// PagedResponse wraps a list payload with its total match count
type PagedResponse struct {
	Items interface{} `json:"items"`
	Total int         `json:"total"`
	Skip  int         `json:"skip"`
	Limit int         `json:"limit"`
}

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

func respondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{Success: true, Data: data})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, Response{Success: false, Error: message})
}

// respondServiceError maps service and domain errors onto HTTP statuses
func respondServiceError(c *gin.Context, err error) {
	var transition *workflow.InvalidTransitionError

	switch {
	case errors.Is(err, port.ErrApprovalRequestNotFound),
		errors.Is(err, port.ErrCaseNotFound),
		errors.Is(err, port.ErrPatientNotFound),
		errors.Is(err, port.ErrPathologistNotFound):
		respondError(c, http.StatusNotFound, err.Error())

	case errors.As(err, &transition),
		errors.Is(err, workflow.ErrInvalidTransition),
		errors.Is(err, port.ErrVersionConflict),
		errors.Is(err, port.ErrDuplicateApprovalCode),
		errors.Is(err, port.ErrCaseAlreadyCreated),
		errors.Is(err, port.ErrDuplicateIdentityDocument):
		respondError(c, http.StatusConflict, err.Error())

	case errors.Is(err, workflow.ErrNoComplementaryTests),
		errors.Is(err, workflow.ErrReasonRequired),
		errors.Is(err, service.ErrOriginalCaseRequired),
		errors.Is(err, service.ErrInvalidTestQuantity),
		errors.Is(err, service.ErrInvalidTestEntry),
		errors.Is(err, service.ErrInvalidPatientInput),
		errors.Is(err, service.ErrInvalidPathologistInput),
		errors.Is(err, service.ErrCaseNotSignable):
		respondError(c, http.StatusUnprocessableEntity, err.Error())

	case errors.Is(err, service.ErrCaseCreationUnknown):
		respondError(c, http.StatusGatewayTimeout, err.Error())

	case errors.Is(err, service.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, err.Error())

	default:
		respondError(c, http.StatusInternalServerError, "internal server error")
	}
}

// pagination reads skip/limit query parameters with sane bounds
type pagination struct {
	Skip  int `form:"skip"`
	Limit int `form:"limit"`
}

func bindPagination(c *gin.Context) pagination {
	var p pagination
	_ = c.ShouldBindQuery(&p)
	if p.Limit <= 0 || p.Limit > 100 {
		p.Limit = 20
	}
	if p.Skip < 0 {
		p.Skip = 0
	}
	return p
}
