package workflow

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTransition is returned when a state transition is not allowed
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrInvalidState is returned when a state is not valid
	ErrInvalidState = errors.New("invalid state")

	// ErrGuardFailed is returned when a guard condition fails
	ErrGuardFailed = errors.New("guard condition failed")

	// ErrNoComplementaryTests is returned when a decision is attempted
	// on a request whose complementary test list is empty
	ErrNoComplementaryTests = errors.New("complementary tests must not be empty")

	// ErrReasonRequired is returned when a decision is attempted on a
	// request without a justification
	ErrReasonRequired = errors.New("reason is required")
)

// InvalidTransitionError carries the attempted trigger and the state it
// was attempted from, for caller diagnostics.
type InvalidTransitionError struct {
	Attempted Trigger
	Current   State
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition: cannot %s from state %s", e.Attempted, e.Current)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}
