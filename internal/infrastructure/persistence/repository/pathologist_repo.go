package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/limepath/pathsys/internal/application/port"
	"github.com/limepath/pathsys/internal/domain/entity"
	"github.com/limepath/pathsys/internal/infrastructure/persistence/sqlite"
)

// PathologistRepository implements port.PathologistRepository
type PathologistRepository struct {
	db     *sqlite.DB
	logger *zap.Logger
}

// NewPathologistRepository creates a new pathologist repository
func NewPathologistRepository(db *sqlite.DB, logger *zap.Logger) port.PathologistRepository {
	return &PathologistRepository{
		db:     db,
		logger: logger,
	}
}

// Create persists a new pathologist
func (r *PathologistRepository) Create(ctx context.Context, p *entity.Pathologist) error {
	query := `
		INSERT INTO pathologists (name, email, signature_code, active, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := r.db.Executor(ctx).ExecContext(ctx, query,
		p.Name, p.Email, p.SignatureCode, p.Active, p.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to create pathologist", zap.Error(err))
		return fmt.Errorf("failed to create pathologist: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	p.ID = id
	return nil
}

// GetByID retrieves a pathologist by id
func (r *PathologistRepository) GetByID(ctx context.Context, id int64) (*entity.Pathologist, error) {
	query := `
		SELECT id, name, email, signature_code, active, created_at
		FROM pathologists WHERE id = ?
	`

	var p entity.Pathologist
	err := r.db.Executor(ctx).QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Email, &p.SignatureCode, &p.Active, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, port.ErrPathologistNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get pathologist", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get pathologist: %w", err)
	}

	return &p, nil
}

// ListActive returns all active pathologists ordered by name
func (r *PathologistRepository) ListActive(ctx context.Context) ([]*entity.Pathologist, error) {
	query := `
		SELECT id, name, email, signature_code, active, created_at
		FROM pathologists WHERE active = 1 ORDER BY name
	`

	rows, err := r.db.Executor(ctx).QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list pathologists", zap.Error(err))
		return nil, fmt.Errorf("failed to list pathologists: %w", err)
	}
	defer rows.Close()

	var pathologists []*entity.Pathologist
	for rows.Next() {
		var p entity.Pathologist
		if err := rows.Scan(&p.ID, &p.Name, &p.Email, &p.SignatureCode, &p.Active, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan pathologist: %w", err)
		}
		pathologists = append(pathologists, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate pathologists: %w", err)
	}

	return pathologists, nil
}
