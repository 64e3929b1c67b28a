package port

import (
	"context"
	"time"

	"github.com/limepath/pathsys/internal/domain/entity"
)

// ApprovalFilter narrows an approval-request search. Zero values mean
// "not filtered".
type ApprovalFilter struct {
	OriginalCaseCode string
	State            string
	RequestedBy      string
	ApprovedBy       string
	CreatedFrom      *time.Time
	CreatedTo        *time.Time
	IncludeDeleted   bool
}

// ApprovalRequestRepository defines persistence operations for ApprovalRequest.
//
// State-changing writes are compare-and-swap on the record version:
// the caller passes the version it read, and the write fails with
// ErrVersionConflict if the stored version has moved since.
type ApprovalRequestRepository interface {
	Create(ctx context.Context, req *entity.ApprovalRequest) error
	GetByID(ctx context.Context, id int64) (*entity.ApprovalRequest, error)
	GetByCode(ctx context.Context, approvalCode string) (*entity.ApprovalRequest, error)
	Search(ctx context.Context, filter ApprovalFilter, skip, limit int) ([]*entity.ApprovalRequest, int, error)

	// UpdateState persists the request's state plus its transition
	// bookkeeping fields (comments, actor, timestamp, linked case).
	UpdateState(ctx context.Context, req *entity.ApprovalRequest, expectedVersion int64) error

	// ReplaceTests overwrites the complementary test list entirely.
	ReplaceTests(ctx context.Context, id int64, expectedVersion int64, tests []entity.ComplementaryTest) error

	// SetDeleted soft-deletes the record; workflow state is untouched.
	SetDeleted(ctx context.Context, id int64) error
}

// CaseRepository defines persistence operations for Case
type CaseRepository interface {
	Create(ctx context.Context, c *entity.Case) error
	GetByID(ctx context.Context, id int64) (*entity.Case, error)
	GetByCode(ctx context.Context, caseCode string) (*entity.Case, error)
	GetBySourceApproval(ctx context.Context, approvalCode string) (*entity.Case, error)
	List(ctx context.Context, skip, limit int) ([]*entity.Case, int, error)
	AssignPathologist(ctx context.Context, id int64, ref entity.PathologistRef) error
	Sign(ctx context.Context, id int64, signedBy string, signedAt time.Time) error
}

// PatientRepository defines persistence operations for Patient
type PatientRepository interface {
	Create(ctx context.Context, p *entity.Patient) error
	GetByID(ctx context.Context, id int64) (*entity.Patient, error)
	GetByIdentityDocument(ctx context.Context, document string) (*entity.Patient, error)
	Search(ctx context.Context, query string, skip, limit int) ([]*entity.Patient, int, error)
	Update(ctx context.Context, p *entity.Patient) error
}

// PathologistRepository defines persistence operations for Pathologist
type PathologistRepository interface {
	Create(ctx context.Context, p *entity.Pathologist) error
	GetByID(ctx context.Context, id int64) (*entity.Pathologist, error)
	ListActive(ctx context.Context) ([]*entity.Pathologist, error)
}

// UserRepository defines persistence operations for User
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
}

// SequenceRepository hands out the next number of a named yearly
// sequence (case codes, approval codes). Must be called inside a
// transaction when the number is persisted with the new row.
type SequenceRepository interface {
	Next(ctx context.Context, scope string, year int) (int, error)
}

// TransactionManager provides transaction boundaries for multi-step operations
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
