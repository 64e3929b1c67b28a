package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/limepath/pathsys/internal/application/port"
	"github.com/limepath/pathsys/internal/domain/entity"
)

// CreateCaseInput is the payload for direct case intake
type CreateCaseInput struct {
	PatientID     int64
	Tests         []entity.ComplementaryTest
	PathologistID int64
}

// CaseService manages cases. It also implements port.CaseCreator so the
// approval workflow can derive cases from approved requests.
type CaseService interface {
	port.CaseCreator

	CreateCase(ctx context.Context, input CreateCaseInput) (*entity.Case, error)
	GetByCode(ctx context.Context, caseCode string) (*entity.Case, error)
	List(ctx context.Context, skip, limit int) ([]*entity.Case, int, error)
	AssignPathologist(ctx context.Context, caseCode string, pathologistID int64) (*entity.Case, error)
	Sign(ctx context.Context, caseCode, signedBy string) (*entity.Case, error)
}

type caseServiceImpl struct {
	caseRepo        port.CaseRepository
	patientRepo     port.PatientRepository
	pathologistRepo port.PathologistRepository
	sequenceRepo    port.SequenceRepository
	txManager       port.TransactionManager
	logger          Logger
}

// NewCaseService creates a new CaseService
func NewCaseService(
	caseRepo port.CaseRepository,
	patientRepo port.PatientRepository,
	pathologistRepo port.PathologistRepository,
	sequenceRepo port.SequenceRepository,
	txManager port.TransactionManager,
	logger Logger,
) CaseService {
	return &caseServiceImpl{
		caseRepo:        caseRepo,
		patientRepo:     patientRepo,
		pathologistRepo: pathologistRepo,
		sequenceRepo:    sequenceRepo,
		txManager:       txManager,
		logger:          logger,
	}
}

// CreateCase registers a new case at intake
func (s *caseServiceImpl) CreateCase(ctx context.Context, input CreateCaseInput) (*entity.Case, error) {
	if err := validateTests(input.Tests); err != nil {
		return nil, err
	}

	if _, err := s.patientRepo.GetByID(ctx, input.PatientID); err != nil {
		return nil, err
	}

	var assigned *entity.PathologistRef
	if input.PathologistID != 0 {
		p, err := s.pathologistRepo.GetByID(ctx, input.PathologistID)
		if err != nil {
			return nil, err
		}
		assigned = &entity.PathologistRef{ID: p.ID, Name: p.Name}
	}

	now := time.Now()
	c := &entity.Case{
		PatientID:           input.PatientID,
		Status:              entity.CaseStatusInProcess,
		Origin:              entity.CaseOriginIntake,
		Tests:               input.Tests,
		AssignedPathologist: assigned,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		seq, err := s.sequenceRepo.Next(txCtx, SequenceScopeCase, now.Year())
		if err != nil {
			return fmt.Errorf("next case sequence: %w", err)
		}
		c.CaseCode = fmt.Sprintf("%d-%05d", now.Year(), seq)

		if err := s.caseRepo.Create(txCtx, c); err != nil {
			return fmt.Errorf("create case: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to create case", "error", err, "patient_id", input.PatientID)
		return nil, err
	}

	s.logger.Info("Case created", "case_code", c.CaseCode, "patient_id", c.PatientID)
	return c, nil
}

// CreateCaseFromApproval derives a new case from an approved request.
//
// Idempotent per approval code: if a case for this request already
// exists (from a prior attempt whose commit was interrupted), the
// existing reference is returned alongside ErrCaseAlreadyCreated so
// the workflow can reconcile instead of duplicating.
func (s *caseServiceImpl) CreateCaseFromApproval(ctx context.Context, req *entity.ApprovalRequest) (*entity.CaseReference, error) {
	existing, err := s.caseRepo.GetBySourceApproval(ctx, req.ApprovalCode)
	if err != nil && !errors.Is(err, port.ErrCaseNotFound) {
		return nil, fmt.Errorf("lookup case for approval %s: %w", req.ApprovalCode, err)
	}
	if existing != nil {
		return &entity.CaseReference{CaseID: existing.ID, CaseCode: existing.CaseCode},
			port.ErrCaseAlreadyCreated
	}

	original, err := s.caseRepo.GetByCode(ctx, req.OriginalCaseCode)
	if err != nil {
		return nil, fmt.Errorf("lookup original case %s: %w", req.OriginalCaseCode, err)
	}

	now := time.Now()
	derived := &entity.Case{
		PatientID:           original.PatientID,
		Status:              entity.CaseStatusInProcess,
		Origin:              entity.CaseOriginApproval,
		Tests:               req.ComplementaryTests,
		AssignedPathologist: req.AssignedPathologist,
		SourceApprovalCode:  req.ApprovalCode,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		seq, err := s.sequenceRepo.Next(txCtx, SequenceScopeCase, now.Year())
		if err != nil {
			return fmt.Errorf("next case sequence: %w", err)
		}
		derived.CaseCode = fmt.Sprintf("%d-%05d", now.Year(), seq)

		if err := s.caseRepo.Create(txCtx, derived); err != nil {
			return fmt.Errorf("create derived case: %w", err)
		}
		return nil
	})
	if err != nil {
		// A concurrent attempt may have won the unique source-approval
		// constraint; surface the winner for reconciliation.
		if errors.Is(err, port.ErrCaseAlreadyCreated) {
			if winner, lookupErr := s.caseRepo.GetBySourceApproval(ctx, req.ApprovalCode); lookupErr == nil {
				return &entity.CaseReference{CaseID: winner.ID, CaseCode: winner.CaseCode},
					port.ErrCaseAlreadyCreated
			}
		}
		s.logger.Error("Failed to derive case from approval", "error", err, "approval_code", req.ApprovalCode)
		return nil, err
	}

	s.logger.Info("Case derived from approval",
		"case_code", derived.CaseCode,
		"approval_code", req.ApprovalCode)

	return &entity.CaseReference{CaseID: derived.ID, CaseCode: derived.CaseCode}, nil
}

// GetByCode retrieves a case by its case code
func (s *caseServiceImpl) GetByCode(ctx context.Context, caseCode string) (*entity.Case, error) {
	return s.caseRepo.GetByCode(ctx, caseCode)
}

// List returns cases with offset pagination
func (s *caseServiceImpl) List(ctx context.Context, skip, limit int) ([]*entity.Case, int, error) {
	return s.caseRepo.List(ctx, skip, limit)
}

// AssignPathologist assigns an active pathologist to a case
func (s *caseServiceImpl) AssignPathologist(ctx context.Context, caseCode string, pathologistID int64) (*entity.Case, error) {
	c, err := s.caseRepo.GetByCode(ctx, caseCode)
	if err != nil {
		return nil, err
	}

	p, err := s.pathologistRepo.GetByID(ctx, pathologistID)
	if err != nil {
		return nil, err
	}

	ref := entity.PathologistRef{ID: p.ID, Name: p.Name}
	if err := s.caseRepo.AssignPathologist(ctx, c.ID, ref); err != nil {
		s.logger.Error("Failed to assign pathologist", "error", err, "case_code", caseCode)
		return nil, err
	}

	c.AssignedPathologist = &ref
	s.logger.Info("Pathologist assigned", "case_code", caseCode, "pathologist", p.Name)
	return c, nil
}

// Sign records the signing pathologist and moves the case to SIGNED
func (s *caseServiceImpl) Sign(ctx context.Context, caseCode, signedBy string) (*entity.Case, error) {
	c, err := s.caseRepo.GetByCode(ctx, caseCode)
	if err != nil {
		return nil, err
	}

	if c.Status == entity.CaseStatusSigned {
		return nil, ErrCaseNotSignable
	}

	now := time.Now()
	if err := s.caseRepo.Sign(ctx, c.ID, signedBy, now); err != nil {
		s.logger.Error("Failed to sign case", "error", err, "case_code", caseCode)
		return nil, err
	}

	c.Status = entity.CaseStatusSigned
	c.SignedBy = signedBy
	c.SignedAt = &now

	s.logger.Info("Case signed", "case_code", caseCode, "signed_by", signedBy)
	return c, nil
}
