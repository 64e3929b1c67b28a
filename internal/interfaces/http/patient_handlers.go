package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/limepath/pathsys/internal/application/service"
)

// PatientHandlers serves the patient endpoints
type PatientHandlers struct {
	patientService service.PatientService
	logger         Logger
}

// NewPatientHandlers creates a new PatientHandlers instance
func NewPatientHandlers(patientService service.PatientService, logger Logger) *PatientHandlers {
	return &PatientHandlers{
		patientService: patientService,
		logger:         logger,
	}
}

// PatientRequest is the payload for patient registration and update
type PatientRequest struct {
	IdentityDocument string `json:"identity_document" binding:"required"`
	FirstName        string `json:"first_name" binding:"required"`
	LastName         string `json:"last_name" binding:"required"`
	BirthDate        string `json:"birth_date"`
	Sex              string `json:"sex"`
	Phone            string `json:"phone"`
	Email            string `json:"email"`
}

func (r PatientRequest) toInput() (service.RegisterPatientInput, error) {
	input := service.RegisterPatientInput{
		IdentityDocument: r.IdentityDocument,
		FirstName:        r.FirstName,
		LastName:         r.LastName,
		Sex:              r.Sex,
		Phone:            r.Phone,
		Email:            r.Email,
	}
	if r.BirthDate != "" {
		birthDate, err := time.Parse("2006-01-02", r.BirthDate)
		if err != nil {
			return input, err
		}
		input.BirthDate = &birthDate
	}
	return input, nil
}

// Register handles POST /api/patients
func (h *PatientHandlers) Register(c *gin.Context) {
	var req PatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	input, err := req.toInput()
	if err != nil {
		respondError(c, http.StatusBadRequest, "birth_date must be YYYY-MM-DD")
		return
	}

	created, err := h.patientService.Register(c.Request.Context(), input)
	if err != nil {
		h.logger.Error("Failed to register patient", "error", err)
		respondServiceError(c, err)
		return
	}

	respondCreated(c, created)
}

// Get handles GET /api/patients/:id
func (h *PatientHandlers) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid patient id")
		return
	}

	patient, err := h.patientService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, patient)
}

// Search handles GET /api/patients
func (h *PatientHandlers) Search(c *gin.Context) {
	p := bindPagination(c)
	patients, total, err := h.patientService.Search(c.Request.Context(), c.Query("q"), p.Skip, p.Limit)
	if err != nil {
		h.logger.Error("Failed to search patients", "error", err)
		respondServiceError(c, err)
		return
	}
	respondOK(c, PagedResponse{Items: patients, Total: total, Skip: p.Skip, Limit: p.Limit})
}

// Update handles PUT /api/patients/:id
func (h *PatientHandlers) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid patient id")
		return
	}

	var req PatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	input, err := req.toInput()
	if err != nil {
		respondError(c, http.StatusBadRequest, "birth_date must be YYYY-MM-DD")
		return
	}

	updated, err := h.patientService.Update(c.Request.Context(), id, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, updated)
}
