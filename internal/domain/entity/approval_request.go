package entity

import "time"

// ApprovalRequest tracks a request to run complementary tests on an
// already-submitted case. ApprovalCode is the external lookup key and
// never changes after creation.
type ApprovalRequest struct {
	ID                 int64               `json:"id"`
	ApprovalCode       string              `json:"approval_code"`
	OriginalCaseCode   string              `json:"original_case_code"`
	State              string              `json:"state"`
	ComplementaryTests []ComplementaryTest `json:"complementary_tests"`
	Reason             string              `json:"reason"`
	RequestedBy        string              `json:"requested_by"`

	AssignedPathologist *PathologistRef `json:"assigned_pathologist,omitempty"`

	ManagementComments string     `json:"management_comments,omitempty"`
	ManagedBy          string     `json:"managed_by,omitempty"`
	ManagedAt          *time.Time `json:"managed_at,omitempty"`

	ApprovalComments string     `json:"approval_comments,omitempty"`
	ApprovedBy       string     `json:"approved_by,omitempty"`
	ApprovedAt       *time.Time `json:"approved_at,omitempty"`

	RejectionComments string     `json:"rejection_comments,omitempty"`
	RejectedBy        string     `json:"rejected_by,omitempty"`
	RejectedAt        *time.Time `json:"rejected_at,omitempty"`

	// Set when approval produced a derived case.
	LinkedCaseID   int64  `json:"linked_case_id,omitempty"`
	LinkedCaseCode string `json:"linked_case_code,omitempty"`

	Version   int64     `json:"version"`
	Deleted   bool      `json:"deleted,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ComplementaryTest is one additional diagnostic procedure requested
// beyond the original scope of a case.
type ComplementaryTest struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// PathologistRef is a weak reference to a pathologist.
type PathologistRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Decided returns true once the request reached a terminal state.
func (r *ApprovalRequest) Decided() bool {
	return r.State == ApprovalStateApproved || r.State == ApprovalStateRejected
}

// TestsMutable reports whether the complementary test list may still
// be replaced.
func (r *ApprovalRequest) TestsMutable() bool {
	return r.State == ApprovalStateRequestMade || r.State == ApprovalStatePendingApproval
}
