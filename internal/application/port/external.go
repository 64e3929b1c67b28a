package port

import (
	"context"

	"github.com/limepath/pathsys/internal/domain/entity"
)

// CaseCreator derives a new case from an approved approval request.
//
// Implementations must be idempotent per approval code: invoked twice
// for the same request (e.g. after a transient failure mid-commit)
// they either return the previously created case or fail with
// ErrCaseAlreadyCreated so the caller can reconcile instead of
// creating a duplicate.
type CaseCreator interface {
	CreateCaseFromApproval(ctx context.Context, req *entity.ApprovalRequest) (*entity.CaseReference, error)
}

// Notification is one outbound message to an operator or pathologist.
type Notification struct {
	ID            string
	Recipient     string
	RecipientName string
	Subject       string
	Body          string
}

// Notifier delivers notifications. Injected at the service boundary so
// workflow code never talks to a delivery channel directly.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}
