package utils

import "testing"

func TestValidateIdentityDocument(t *testing.T) {
	tests := []struct {
		document string
		wantErr  bool
	}{
		{"X1234567", false},
		{"12345678-K", false},
		{"AB-99-1234", false},
		{"abc123", true},
		{"X1", true},
		{"", true},
		{"-1234567", true},
	}

	for _, tt := range tests {
		err := ValidateIdentityDocument(tt.document)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateIdentityDocument(%q) error = %v, wantErr %v", tt.document, err, tt.wantErr)
		}
	}
}

func TestValidateCaseCode(t *testing.T) {
	tests := []struct {
		caseCode string
		wantErr  bool
	}{
		{"2026-00042", false},
		{"2026-1", true},
		{"26-00042", true},
		{"2026_00042", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateCaseCode(tt.caseCode)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateCaseCode(%q) error = %v, wantErr %v", tt.caseCode, err, tt.wantErr)
		}
	}
}

func TestValidateEmail(t *testing.T) {
	if err := ValidateEmail("lab@pathsys.example.com"); err != nil {
		t.Errorf("expected valid email, got %v", err)
	}
	if err := ValidateEmail("not-an-email"); err == nil {
		t.Error("expected error for malformed email")
	}
}
