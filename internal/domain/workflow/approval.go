package workflow

import (
	"context"
	"errors"
	"strings"

	"github.com/limepath/pathsys/internal/domain/entity"
)

// NewApprovalMachine builds the state machine for an approval request.
//
//	REQUEST_MADE --MANAGE--> PENDING_APPROVAL --APPROVE--> APPROVED
//	REQUEST_MADE --REJECT--> REJECTED (early withdrawal)
//	PENDING_APPROVAL --REJECT--> REJECTED
//	UPDATE_TESTS is a self-transition in both non-terminal states.
//
// APPROVE and REJECT are guarded on the request having a non-empty
// test list and a justification.
func NewApprovalMachine(req *entity.ApprovalRequest) StateMachine {
	decidable := func(ctx context.Context) bool {
		return len(req.ComplementaryTests) > 0 && strings.TrimSpace(req.Reason) != ""
	}

	builder := NewBuilder()

	builder.Configure(StateRequestMade).
		Permit(TriggerManage, StatePendingApproval).
		PermitIf(TriggerReject, StateRejected, decidable).
		Permit(TriggerUpdateTests, StateRequestMade)

	builder.Configure(StatePendingApproval).
		PermitIf(TriggerApprove, StateApproved, decidable).
		PermitIf(TriggerReject, StateRejected, decidable).
		Permit(TriggerUpdateTests, StatePendingApproval)

	return builder.Build(State(req.State))
}

// ValidateTransition checks that trigger is legal from the request's
// current state and that decision prerequisites hold. It has no side
// effects on the request; the resulting state is returned for the
// caller to persist.
func ValidateTransition(ctx context.Context, req *entity.ApprovalRequest, trigger Trigger) (State, error) {
	current := State(req.State)
	if !current.IsValid() {
		return "", ErrInvalidState
	}

	machine := NewApprovalMachine(req)
	if err := machine.Fire(ctx, trigger); err != nil {
		if errors.Is(err, ErrGuardFailed) {
			if len(req.ComplementaryTests) == 0 {
				return "", ErrNoComplementaryTests
			}
			return "", ErrReasonRequired
		}
		return "", err
	}

	return machine.State(), nil
}
