package utils

import (
	"fmt"
	"regexp"
)

var (
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	identityRegex = regexp.MustCompile(`^[A-Z0-9][A-Z0-9\-]{3,19}$`)
	caseCodeRegex = regexp.MustCompile(`^\d{4}-\d{5}$`)
)

// ValidateEmail validates an email address
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format: %s", email)
	}
	return nil
}

// ValidateIdentityDocument validates a patient identity document:
// uppercase alphanumeric with optional dashes, 4 to 20 characters.
func ValidateIdentityDocument(document string) error {
	if !identityRegex.MatchString(document) {
		return fmt.Errorf("invalid identity document format: %s", document)
	}
	return nil
}

// ValidateCaseCode validates a case code in YYYY-NNNNN form
func ValidateCaseCode(caseCode string) error {
	if !caseCodeRegex.MatchString(caseCode) {
		return fmt.Errorf("invalid case code format: %s", caseCode)
	}
	return nil
}

// SanitizeString removes control characters
func SanitizeString(s string) string {
	return regexp.MustCompile(`[\x00-\x1f\x7f]`).ReplaceAllString(s, "")
}
