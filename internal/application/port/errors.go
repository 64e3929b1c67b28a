package port

import "errors"

var (
	// ErrApprovalRequestNotFound means no approval request matched the code or id
	ErrApprovalRequestNotFound = errors.New("approval request not found")

	// ErrDuplicateApprovalCode means a create collided with an existing approval code
	ErrDuplicateApprovalCode = errors.New("approval code already exists")

	// ErrVersionConflict means an optimistic-concurrency check failed;
	// the record changed between read and write
	ErrVersionConflict = errors.New("record version conflict")

	// ErrCaseNotFound means no case matched the code or id
	ErrCaseNotFound = errors.New("case not found")

	// ErrCaseAlreadyCreated means a case derived from the same approval
	// request already exists
	ErrCaseAlreadyCreated = errors.New("case already created for approval request")

	// ErrPatientNotFound means no patient matched the id or document
	ErrPatientNotFound = errors.New("patient not found")

	// ErrPathologistNotFound means no pathologist matched the id
	ErrPathologistNotFound = errors.New("pathologist not found")

	// ErrUserNotFound means no user matched the username
	ErrUserNotFound = errors.New("user not found")

	// ErrDuplicateIdentityDocument means a patient with the same
	// identity document is already registered
	ErrDuplicateIdentityDocument = errors.New("identity document already registered")
)
