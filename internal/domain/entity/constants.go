package entity

// State constants for ApprovalRequest
const (
	ApprovalStateRequestMade     = "REQUEST_MADE"
	ApprovalStatePendingApproval = "PENDING_APPROVAL"
	ApprovalStateApproved        = "APPROVED"
	ApprovalStateRejected        = "REJECTED"
)

// Status constants for Case
const (
	CaseStatusInProcess    = "IN_PROCESS"
	CaseStatusForSignature = "FOR_SIGNATURE"
	CaseStatusSigned       = "SIGNED"
)

// Origin constants for Case
const (
	CaseOriginIntake   = "INTAKE"   // created at patient intake
	CaseOriginApproval = "APPROVAL" // derived from an approved request
)

// Role constants for User
const (
	RoleAdmin        = "ADMIN"
	RolePathologist  = "PATHOLOGIST"
	RoleReceptionist = "RECEPTIONIST"
)
