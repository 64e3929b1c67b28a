package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/limepath/pathsys/internal/application/port"
	"github.com/limepath/pathsys/internal/domain/entity"
	"github.com/limepath/pathsys/pkg/utils"
)

// RegisterPatientInput is the payload for patient intake
type RegisterPatientInput struct {
	IdentityDocument string
	FirstName        string
	LastName         string
	BirthDate        *time.Time
	Sex              string
	Phone            string
	Email            string
}

// PatientService manages patient records
type PatientService interface {
	Register(ctx context.Context, input RegisterPatientInput) (*entity.Patient, error)
	GetByID(ctx context.Context, id int64) (*entity.Patient, error)
	Search(ctx context.Context, query string, skip, limit int) ([]*entity.Patient, int, error)
	Update(ctx context.Context, id int64, input RegisterPatientInput) (*entity.Patient, error)
}

type patientServiceImpl struct {
	patientRepo port.PatientRepository
	logger      Logger
}

// NewPatientService creates a new PatientService
func NewPatientService(patientRepo port.PatientRepository, logger Logger) PatientService {
	return &patientServiceImpl{
		patientRepo: patientRepo,
		logger:      logger,
	}
}

// Register creates a new patient record
func (s *patientServiceImpl) Register(ctx context.Context, input RegisterPatientInput) (*entity.Patient, error) {
	if err := validatePatientInput(input); err != nil {
		return nil, err
	}

	existing, err := s.patientRepo.GetByIdentityDocument(ctx, input.IdentityDocument)
	if err != nil && !errors.Is(err, port.ErrPatientNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, port.ErrDuplicateIdentityDocument
	}

	now := time.Now()
	p := &entity.Patient{
		IdentityDocument: input.IdentityDocument,
		FirstName:        input.FirstName,
		LastName:         input.LastName,
		BirthDate:        input.BirthDate,
		Sex:              input.Sex,
		Phone:            input.Phone,
		Email:            input.Email,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.patientRepo.Create(ctx, p); err != nil {
		s.logger.Error("Failed to register patient", "error", err, "identity_document", input.IdentityDocument)
		return nil, err
	}

	s.logger.Info("Patient registered", "id", p.ID, "identity_document", p.IdentityDocument)
	return p, nil
}

// GetByID retrieves a patient by id
func (s *patientServiceImpl) GetByID(ctx context.Context, id int64) (*entity.Patient, error) {
	return s.patientRepo.GetByID(ctx, id)
}

// Search matches patients by name or identity document
func (s *patientServiceImpl) Search(ctx context.Context, query string, skip, limit int) ([]*entity.Patient, int, error) {
	return s.patientRepo.Search(ctx, query, skip, limit)
}

// Update replaces a patient's editable fields
func (s *patientServiceImpl) Update(ctx context.Context, id int64, input RegisterPatientInput) (*entity.Patient, error) {
	if err := validatePatientInput(input); err != nil {
		return nil, err
	}

	p, err := s.patientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	p.IdentityDocument = input.IdentityDocument
	p.FirstName = input.FirstName
	p.LastName = input.LastName
	p.BirthDate = input.BirthDate
	p.Sex = input.Sex
	p.Phone = input.Phone
	p.Email = input.Email
	p.UpdatedAt = time.Now()

	if err := s.patientRepo.Update(ctx, p); err != nil {
		s.logger.Error("Failed to update patient", "error", err, "id", id)
		return nil, err
	}

	s.logger.Info("Patient updated", "id", id)
	return p, nil
}

func validatePatientInput(input RegisterPatientInput) error {
	if err := utils.ValidateIdentityDocument(input.IdentityDocument); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPatientInput, err)
	}
	if strings.TrimSpace(input.FirstName) == "" || strings.TrimSpace(input.LastName) == "" {
		return fmt.Errorf("%w: first and last name are required", ErrInvalidPatientInput)
	}
	if input.Email != "" {
		if err := utils.ValidateEmail(input.Email); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidPatientInput, err)
		}
	}
	return nil
}
