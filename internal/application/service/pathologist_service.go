package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/limepath/pathsys/internal/application/port"
	"github.com/limepath/pathsys/internal/domain/entity"
	"github.com/limepath/pathsys/pkg/utils"
)

// RegisterPathologistInput is the payload for adding a directory entry
type RegisterPathologistInput struct {
	Name          string
	Email         string
	SignatureCode string
}

// PathologistService manages the pathologist directory
type PathologistService interface {
	Register(ctx context.Context, input RegisterPathologistInput) (*entity.Pathologist, error)
	ListActive(ctx context.Context) ([]*entity.Pathologist, error)
}

type pathologistServiceImpl struct {
	pathologistRepo port.PathologistRepository
	logger          Logger
}

// NewPathologistService creates a new PathologistService
func NewPathologistService(pathologistRepo port.PathologistRepository, logger Logger) PathologistService {
	return &pathologistServiceImpl{
		pathologistRepo: pathologistRepo,
		logger:          logger,
	}
}

// Register adds a pathologist to the directory
func (s *pathologistServiceImpl) Register(ctx context.Context, input RegisterPathologistInput) (*entity.Pathologist, error) {
	if err := validatePathologistInput(input); err != nil {
		return nil, err
	}

	p := &entity.Pathologist{
		Name:          input.Name,
		Email:         input.Email,
		SignatureCode: input.SignatureCode,
		Active:        true,
		CreatedAt:     time.Now(),
	}

	if err := s.pathologistRepo.Create(ctx, p); err != nil {
		s.logger.Error("Failed to register pathologist", "error", err, "name", input.Name)
		return nil, err
	}

	s.logger.Info("Pathologist registered", "id", p.ID, "name", p.Name)
	return p, nil
}

// ListActive returns the active directory ordered by name
func (s *pathologistServiceImpl) ListActive(ctx context.Context) ([]*entity.Pathologist, error) {
	return s.pathologistRepo.ListActive(ctx)
}

func validatePathologistInput(input RegisterPathologistInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidPathologistInput)
	}
	if err := utils.ValidateEmail(input.Email); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPathologistInput, err)
	}
	if strings.TrimSpace(input.SignatureCode) == "" {
		return fmt.Errorf("%w: signature code is required", ErrInvalidPathologistInput)
	}
	return nil
}
