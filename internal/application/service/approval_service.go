package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/limepath/pathsys/internal/application/port"
	"github.com/limepath/pathsys/internal/domain/entity"
	"github.com/limepath/pathsys/internal/domain/workflow"
)

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// Sequence scopes for code generation
const (
	SequenceScopeApproval = "approval"
	SequenceScopeCase     = "case"
)

// CreateRequestInput is the payload for creating an approval request
type CreateRequestInput struct {
	OriginalCaseCode    string
	ComplementaryTests  []entity.ComplementaryTest
	Reason              string
	RequestedBy         string
	AssignedPathologist *entity.PathologistRef
}

// ApprovalService orchestrates the complementary-test approval workflow
type ApprovalService interface {
	CreateRequest(ctx context.Context, input CreateRequestInput) (*entity.ApprovalRequest, error)
	GetByCode(ctx context.Context, approvalCode string) (*entity.ApprovalRequest, error)
	Search(ctx context.Context, filter port.ApprovalFilter, skip, limit int) ([]*entity.ApprovalRequest, int, error)
	Manage(ctx context.Context, approvalCode, actor, comments string) (*entity.ApprovalRequest, error)
	Approve(ctx context.Context, approvalCode, actor, comments string) (*entity.ApprovalRequest, error)
	Reject(ctx context.Context, approvalCode, actor, comments string) (*entity.ApprovalRequest, error)
	UpdateTests(ctx context.Context, approvalCode string, tests []entity.ComplementaryTest) (*entity.ApprovalRequest, error)
	Delete(ctx context.Context, approvalCode string) error
}

type approvalServiceImpl struct {
	approvalRepo        port.ApprovalRequestRepository
	sequenceRepo        port.SequenceRepository
	pathologistRepo     port.PathologistRepository
	userRepo            port.UserRepository
	caseCreator         port.CaseCreator
	notifier            port.Notifier
	txManager           port.TransactionManager
	caseCreationTimeout time.Duration
	logger              Logger
}

// NewApprovalService creates a new ApprovalService
func NewApprovalService(
	approvalRepo port.ApprovalRequestRepository,
	sequenceRepo port.SequenceRepository,
	pathologistRepo port.PathologistRepository,
	userRepo port.UserRepository,
	caseCreator port.CaseCreator,
	notifier port.Notifier,
	txManager port.TransactionManager,
	caseCreationTimeout time.Duration,
	logger Logger,
) ApprovalService {
	return &approvalServiceImpl{
		approvalRepo:        approvalRepo,
		sequenceRepo:        sequenceRepo,
		pathologistRepo:     pathologistRepo,
		userRepo:            userRepo,
		caseCreator:         caseCreator,
		notifier:            notifier,
		txManager:           txManager,
		caseCreationTimeout: caseCreationTimeout,
		logger:              logger,
	}
}

// CreateRequest validates the payload and persists a new request in
// state REQUEST_MADE. Validation failures happen before any write.
func (s *approvalServiceImpl) CreateRequest(ctx context.Context, input CreateRequestInput) (*entity.ApprovalRequest, error) {
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}

	now := time.Now()
	req := &entity.ApprovalRequest{
		OriginalCaseCode:    input.OriginalCaseCode,
		State:               entity.ApprovalStateRequestMade,
		ComplementaryTests:  input.ComplementaryTests,
		Reason:              input.Reason,
		RequestedBy:         input.RequestedBy,
		AssignedPathologist: input.AssignedPathologist,
		Version:             1,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		seq, err := s.sequenceRepo.Next(txCtx, SequenceScopeApproval, now.Year())
		if err != nil {
			return fmt.Errorf("next approval sequence: %w", err)
		}
		req.ApprovalCode = fmt.Sprintf("AC-%d-%05d", now.Year(), seq)

		if err := s.approvalRepo.Create(txCtx, req); err != nil {
			return fmt.Errorf("create approval request: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to create approval request", "error", err, "original_case_code", input.OriginalCaseCode)
		return nil, err
	}

	s.logger.Info("Approval request created",
		"approval_code", req.ApprovalCode,
		"original_case_code", req.OriginalCaseCode,
		"tests", len(req.ComplementaryTests))

	s.notifyAssignedPathologist(ctx, req,
		fmt.Sprintf("Complementary test request %s", req.ApprovalCode),
		fmt.Sprintf("A complementary test request was filed for case %s: %s", req.OriginalCaseCode, req.Reason))

	return req, nil
}

// GetByCode retrieves a request by its approval code
func (s *approvalServiceImpl) GetByCode(ctx context.Context, approvalCode string) (*entity.ApprovalRequest, error) {
	req, err := s.approvalRepo.GetByCode(ctx, approvalCode)
	if err != nil {
		return nil, err
	}
	return req, nil
}

// Search returns matching requests and the total match count
func (s *approvalServiceImpl) Search(ctx context.Context, filter port.ApprovalFilter, skip, limit int) ([]*entity.ApprovalRequest, int, error) {
	return s.approvalRepo.Search(ctx, filter, skip, limit)
}

// Manage claims a request for processing: REQUEST_MADE -> PENDING_APPROVAL.
func (s *approvalServiceImpl) Manage(ctx context.Context, approvalCode, actor, comments string) (*entity.ApprovalRequest, error) {
	req, err := s.approvalRepo.GetByCode(ctx, approvalCode)
	if err != nil {
		return nil, err
	}

	next, err := workflow.ValidateTransition(ctx, req, workflow.TriggerManage)
	if err != nil {
		return nil, err
	}

	readVersion := req.Version
	now := time.Now()
	req.State = next.String()
	req.ManagementComments = comments
	req.ManagedBy = actor
	req.ManagedAt = &now

	if err := s.approvalRepo.UpdateState(ctx, req, readVersion); err != nil {
		s.logger.Error("Failed to manage approval request", "error", err, "approval_code", approvalCode)
		return nil, err
	}

	s.logger.Info("Approval request managed", "approval_code", approvalCode, "managed_by", actor)
	return req, nil
}

// Approve decides a request positively and derives a new case from it.
//
// The case-creation call and the state commit form a saga: the
// collaborator is invoked first under a timeout, and APPROVED is
// committed only once a case reference is in hand. On collaborator
// failure or timeout nothing is committed and the request stays
// PENDING_APPROVAL.
func (s *approvalServiceImpl) Approve(ctx context.Context, approvalCode, actor, comments string) (*entity.ApprovalRequest, error) {
	req, err := s.approvalRepo.GetByCode(ctx, approvalCode)
	if err != nil {
		return nil, err
	}

	next, err := workflow.ValidateTransition(ctx, req, workflow.TriggerApprove)
	if err != nil {
		return nil, err
	}

	caseRef, err := s.createCase(ctx, req)
	if err != nil {
		return nil, err
	}

	readVersion := req.Version
	now := time.Now()
	req.State = next.String()
	req.ApprovalComments = comments
	req.ApprovedBy = actor
	req.ApprovedAt = &now
	req.LinkedCaseID = caseRef.CaseID
	req.LinkedCaseCode = caseRef.CaseCode

	if err := s.approvalRepo.UpdateState(ctx, req, readVersion); err != nil {
		s.logger.Error("Failed to commit approval", "error", err, "approval_code", approvalCode)
		return nil, err
	}

	s.logger.Info("Approval request approved",
		"approval_code", approvalCode,
		"approved_by", actor,
		"linked_case_code", caseRef.CaseCode)

	s.notifyRequester(ctx, req.RequestedBy,
		fmt.Sprintf("Request %s approved", req.ApprovalCode),
		fmt.Sprintf("Complementary tests were approved; new case %s was created.", caseRef.CaseCode))

	return req, nil
}

// createCase invokes the collaborator under the configured timeout and
// reconciles an already-created case instead of duplicating it.
func (s *approvalServiceImpl) createCase(ctx context.Context, req *entity.ApprovalRequest) (*entity.CaseReference, error) {
	caseCtx := ctx
	if s.caseCreationTimeout > 0 {
		var cancel context.CancelFunc
		caseCtx, cancel = context.WithTimeout(ctx, s.caseCreationTimeout)
		defer cancel()
	}

	caseRef, err := s.caseCreator.CreateCaseFromApproval(caseCtx, req)
	switch {
	case err == nil:
		return caseRef, nil
	case errors.Is(err, port.ErrCaseAlreadyCreated) && caseRef != nil:
		// A previous attempt got the case committed but not linked;
		// reconcile with the existing case.
		s.logger.Info("Reconciling previously created case",
			"approval_code", req.ApprovalCode,
			"case_code", caseRef.CaseCode)
		return caseRef, nil
	case errors.Is(err, context.DeadlineExceeded):
		s.logger.Error("Case creation timed out", "approval_code", req.ApprovalCode)
		return nil, fmt.Errorf("%w: %v", ErrCaseCreationUnknown, err)
	default:
		return nil, fmt.Errorf("create case from approval: %w", err)
	}
}

// Reject decides a request negatively. Also allowed straight from
// REQUEST_MADE as an early withdrawal.
func (s *approvalServiceImpl) Reject(ctx context.Context, approvalCode, actor, comments string) (*entity.ApprovalRequest, error) {
	req, err := s.approvalRepo.GetByCode(ctx, approvalCode)
	if err != nil {
		return nil, err
	}

	next, err := workflow.ValidateTransition(ctx, req, workflow.TriggerReject)
	if err != nil {
		return nil, err
	}

	readVersion := req.Version
	now := time.Now()
	req.State = next.String()
	req.RejectionComments = comments
	req.RejectedBy = actor
	req.RejectedAt = &now

	if err := s.approvalRepo.UpdateState(ctx, req, readVersion); err != nil {
		s.logger.Error("Failed to reject approval request", "error", err, "approval_code", approvalCode)
		return nil, err
	}

	s.logger.Info("Approval request rejected", "approval_code", approvalCode, "rejected_by", actor)

	s.notifyRequester(ctx, req.RequestedBy,
		fmt.Sprintf("Request %s rejected", req.ApprovalCode),
		fmt.Sprintf("The complementary test request for case %s was rejected: %s", req.OriginalCaseCode, comments))

	return req, nil
}

// UpdateTests replaces the complementary test list entirely. Legal only
// while the request is undecided; the state is unchanged.
func (s *approvalServiceImpl) UpdateTests(ctx context.Context, approvalCode string, tests []entity.ComplementaryTest) (*entity.ApprovalRequest, error) {
	if err := validateTests(tests); err != nil {
		return nil, err
	}

	req, err := s.approvalRepo.GetByCode(ctx, approvalCode)
	if err != nil {
		return nil, err
	}

	if _, err := workflow.ValidateTransition(ctx, req, workflow.TriggerUpdateTests); err != nil {
		return nil, err
	}

	if err := s.approvalRepo.ReplaceTests(ctx, req.ID, req.Version, tests); err != nil {
		s.logger.Error("Failed to update complementary tests", "error", err, "approval_code", approvalCode)
		return nil, err
	}

	req.ComplementaryTests = tests
	req.Version++

	s.logger.Info("Complementary tests replaced", "approval_code", approvalCode, "tests", len(tests))
	return req, nil
}

// Delete soft-deletes a request. Administrative cleanup only; it does
// not participate in the workflow state machine.
func (s *approvalServiceImpl) Delete(ctx context.Context, approvalCode string) error {
	req, err := s.approvalRepo.GetByCode(ctx, approvalCode)
	if err != nil {
		return err
	}

	if err := s.approvalRepo.SetDeleted(ctx, req.ID); err != nil {
		s.logger.Error("Failed to delete approval request", "error", err, "approval_code", approvalCode)
		return err
	}

	s.logger.Info("Approval request deleted", "approval_code", approvalCode)
	return nil
}

// notifyAssignedPathologist resolves the assigned pathologist's email
// through the directory before delivering.
func (s *approvalServiceImpl) notifyAssignedPathologist(ctx context.Context, req *entity.ApprovalRequest, subject, body string) {
	if req.AssignedPathologist == nil {
		return
	}

	p, err := s.pathologistRepo.GetByID(ctx, req.AssignedPathologist.ID)
	if err != nil {
		s.logger.Error("Failed to resolve pathologist for notification",
			"error", err, "pathologist_id", req.AssignedPathologist.ID)
		return
	}

	s.notify(ctx, p.Email, p.Name, subject, body)
}

// notifyRequester resolves the requesting user's email before
// delivering. Users without an email on file are skipped.
func (s *approvalServiceImpl) notifyRequester(ctx context.Context, username, subject, body string) {
	if username == "" {
		return
	}

	u, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		s.logger.Error("Failed to resolve requester for notification",
			"error", err, "username", username)
		return
	}

	s.notify(ctx, u.Email, u.FullName, subject, body)
}

// notify delivers best-effort; workflow outcomes never depend on it.
func (s *approvalServiceImpl) notify(ctx context.Context, recipient, recipientName, subject, body string) {
	if s.notifier == nil || recipient == "" {
		return
	}

	n := port.Notification{
		ID:            uuid.NewString(),
		Recipient:     recipient,
		RecipientName: recipientName,
		Subject:       subject,
		Body:          body,
	}
	if err := s.notifier.Notify(ctx, n); err != nil {
		s.logger.Error("Failed to send notification", "error", err, "recipient", recipient)
	}
}

func validateCreateInput(input CreateRequestInput) error {
	if strings.TrimSpace(input.OriginalCaseCode) == "" {
		return ErrOriginalCaseRequired
	}
	if strings.TrimSpace(input.Reason) == "" {
		return workflow.ErrReasonRequired
	}
	return validateTests(input.ComplementaryTests)
}

func validateTests(tests []entity.ComplementaryTest) error {
	if len(tests) == 0 {
		return workflow.ErrNoComplementaryTests
	}
	for _, t := range tests {
		if strings.TrimSpace(t.Code) == "" || strings.TrimSpace(t.Name) == "" {
			return ErrInvalidTestEntry
		}
		if t.Quantity < 1 {
			return ErrInvalidTestQuantity
		}
	}
	return nil
}
