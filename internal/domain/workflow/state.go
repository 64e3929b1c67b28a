package workflow

// State represents a workflow state in the approval-request lifecycle
type State string

const (
	StateRequestMade     State = "REQUEST_MADE"
	StatePendingApproval State = "PENDING_APPROVAL"
	StateApproved        State = "APPROVED"
	StateRejected        State = "REJECTED"
)

var validStates = map[State]bool{
	StateRequestMade:     true,
	StatePendingApproval: true,
	StateApproved:        true,
	StateRejected:        true,
}

var terminalStates = map[State]bool{
	StateApproved: true,
	StateRejected: true,
}

// IsTerminal returns true if the state is a terminal state (no further transitions allowed)
func (s State) IsTerminal() bool {
	return terminalStates[s]
}

// String returns the string representation of the state
func (s State) String() string {
	return string(s)
}

// IsValid returns true if the state is a valid workflow state
func (s State) IsValid() bool {
	return validStates[s]
}
