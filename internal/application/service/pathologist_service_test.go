package service

import (
	"context"
	"errors"
	"testing"

	"github.com/limepath/pathsys/internal/domain/entity"
)

func TestRegisterPathologist(t *testing.T) {
	repo := &mockPathologistRepo{byID: map[int64]*entity.Pathologist{}}
	svc := NewPathologistService(repo, nopLogger{})

	p, err := svc.Register(context.Background(), RegisterPathologistInput{
		Name:          "Dr. Maria Vega",
		Email:         "maria.vega@pathsys.example.com",
		SignatureCode: "MV-01",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if p.ID == 0 {
		t.Error("ID was not assigned")
	}
	if !p.Active {
		t.Error("new pathologist should be active")
	}

	active, err := svc.ListActive(context.Background())
	if err != nil {
		t.Fatalf("ListActive() error = %v", err)
	}
	if len(active) != 1 {
		t.Fatalf("ListActive() returned %d entries, want 1", len(active))
	}
}

func TestRegisterPathologist_Validation(t *testing.T) {
	tests := []struct {
		name  string
		input RegisterPathologistInput
	}{
		{
			name:  "missing name",
			input: RegisterPathologistInput{Email: "x@y.example.com", SignatureCode: "X-01"},
		},
		{
			name:  "invalid email",
			input: RegisterPathologistInput{Name: "Dr. X", Email: "not-an-email", SignatureCode: "X-01"},
		},
		{
			name:  "missing signature code",
			input: RegisterPathologistInput{Name: "Dr. X", Email: "x@y.example.com"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockPathologistRepo{byID: map[int64]*entity.Pathologist{}}
			svc := NewPathologistService(repo, nopLogger{})

			_, err := svc.Register(context.Background(), tt.input)
			if !errors.Is(err, ErrInvalidPathologistInput) {
				t.Fatalf("Register() error = %v, want ErrInvalidPathologistInput", err)
			}
			if len(repo.byID) != 0 {
				t.Error("nothing should be persisted on validation failure")
			}
		})
	}
}
