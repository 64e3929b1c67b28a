package entity

import "time"

// Case is a diagnostic unit: one patient, the tests ordered for them,
// and the eventual signed result. CaseCode follows the yearly
// sequence "YYYY-NNNNN" and is the external identifier.
type Case struct {
	ID        int64  `json:"id"`
	CaseCode  string `json:"case_code"`
	PatientID int64  `json:"patient_id"`
	Status    string `json:"status"`
	Origin    string `json:"origin"`

	Tests []ComplementaryTest `json:"tests"`

	AssignedPathologist *PathologistRef `json:"assigned_pathologist,omitempty"`

	// Set when the case was derived from an approved request.
	SourceApprovalCode string `json:"source_approval_code,omitempty"`

	SignedBy string     `json:"signed_by,omitempty"`
	SignedAt *time.Time `json:"signed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CaseReference is the projection returned to the approval workflow
// after case creation.
type CaseReference struct {
	CaseID   int64  `json:"case_id"`
	CaseCode string `json:"case_code"`
}
