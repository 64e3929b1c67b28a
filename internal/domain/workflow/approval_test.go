package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/limepath/pathsys/internal/domain/entity"
)

func validRequest(state string) *entity.ApprovalRequest {
	return &entity.ApprovalRequest{
		ApprovalCode:     "AC-2025-00001",
		OriginalCaseCode: "2025-00010",
		State:            state,
		Reason:           "Additional marker requested",
		ComplementaryTests: []entity.ComplementaryTest{
			{Code: "IHQ01", Name: "ALK-1", Quantity: 2},
		},
	}
}

func TestValidateTransition(t *testing.T) {
	tests := []struct {
		name    string
		state   string
		trigger Trigger
		want    State
		wantErr error
	}{
		{"manage from request made", entity.ApprovalStateRequestMade, TriggerManage, StatePendingApproval, nil},
		{"approve from pending", entity.ApprovalStatePendingApproval, TriggerApprove, StateApproved, nil},
		{"reject from pending", entity.ApprovalStatePendingApproval, TriggerReject, StateRejected, nil},
		{"early withdrawal", entity.ApprovalStateRequestMade, TriggerReject, StateRejected, nil},
		{"update tests keeps state", entity.ApprovalStatePendingApproval, TriggerUpdateTests, StatePendingApproval, nil},
		{"approve must pass through manage", entity.ApprovalStateRequestMade, TriggerApprove, "", ErrInvalidTransition},
		{"manage twice", entity.ApprovalStatePendingApproval, TriggerManage, "", ErrInvalidTransition},
		{"approve already approved", entity.ApprovalStateApproved, TriggerApprove, "", ErrInvalidTransition},
		{"reject already rejected", entity.ApprovalStateRejected, TriggerReject, "", ErrInvalidTransition},
		{"update tests after decision", entity.ApprovalStateApproved, TriggerUpdateTests, "", ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateTransition(context.Background(), validRequest(tt.state), tt.trigger)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ValidateTransition() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ValidateTransition() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ValidateTransition() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidateTransition_DecisionPrerequisites(t *testing.T) {
	t.Run("empty tests", func(t *testing.T) {
		req := validRequest(entity.ApprovalStatePendingApproval)
		req.ComplementaryTests = nil

		_, err := ValidateTransition(context.Background(), req, TriggerApprove)
		if !errors.Is(err, ErrNoComplementaryTests) {
			t.Fatalf("ValidateTransition() error = %v, want ErrNoComplementaryTests", err)
		}
	})

	t.Run("blank reason", func(t *testing.T) {
		req := validRequest(entity.ApprovalStatePendingApproval)
		req.Reason = "   "

		_, err := ValidateTransition(context.Background(), req, TriggerReject)
		if !errors.Is(err, ErrReasonRequired) {
			t.Fatalf("ValidateTransition() error = %v, want ErrReasonRequired", err)
		}
	})
}

func TestValidateTransition_InvalidState(t *testing.T) {
	req := validRequest("NOT_A_STATE")

	_, err := ValidateTransition(context.Background(), req, TriggerManage)
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("ValidateTransition() error = %v, want ErrInvalidState", err)
	}
}

func TestValidateTransition_CarriesDiagnostics(t *testing.T) {
	req := validRequest(entity.ApprovalStateRequestMade)

	_, err := ValidateTransition(context.Background(), req, TriggerApprove)

	var invalidErr *InvalidTransitionError
	if !errors.As(err, &invalidErr) {
		t.Fatalf("error %v is not *InvalidTransitionError", err)
	}
	if invalidErr.Attempted != TriggerApprove {
		t.Errorf("Attempted = %v, want APPROVE", invalidErr.Attempted)
	}
	if invalidErr.Current != StateRequestMade {
		t.Errorf("Current = %v, want REQUEST_MADE", invalidErr.Current)
	}
}
