package workflow

// Trigger represents an action that can cause a state transition
type Trigger string

const (
	TriggerManage      Trigger = "MANAGE"
	TriggerApprove     Trigger = "APPROVE"
	TriggerReject      Trigger = "REJECT"
	TriggerUpdateTests Trigger = "UPDATE_TESTS"
)

// String returns the string representation of the trigger
func (t Trigger) String() string {
	return string(t)
}
