package service

import "errors"

var (
	// ErrOriginalCaseRequired is returned when a request creation payload
	// carries no original case code
	ErrOriginalCaseRequired = errors.New("original case code is required")

	// ErrInvalidTestQuantity is returned when a complementary test has a
	// quantity below 1
	ErrInvalidTestQuantity = errors.New("complementary test quantity must be at least 1")

	// ErrInvalidTestEntry is returned when a complementary test is missing
	// its code or name
	ErrInvalidTestEntry = errors.New("complementary test code and name are required")

	// ErrCaseCreationUnknown means the case-creation outcome is
	// indeterminate (timed out); the approval was not committed and the
	// caller must re-query before retrying
	ErrCaseCreationUnknown = errors.New("case creation outcome unknown, approval not committed")

	// ErrInvalidPatientInput wraps patient payload validation failures
	ErrInvalidPatientInput = errors.New("invalid patient input")

	// ErrInvalidPathologistInput wraps pathologist payload validation failures
	ErrInvalidPathologistInput = errors.New("invalid pathologist input")

	// ErrInvalidCredentials is returned on a failed login
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrCaseNotSignable is returned when signing a case that is not
	// awaiting signature
	ErrCaseNotSignable = errors.New("case is not in a signable status")
)
