package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/limepath/pathsys/internal/application/port"
	"github.com/limepath/pathsys/internal/domain/entity"
	"github.com/limepath/pathsys/internal/infrastructure/persistence/sqlite"
)

// CaseRepository implements port.CaseRepository
type CaseRepository struct {
	db     *sqlite.DB
	logger *zap.Logger
}

// NewCaseRepository creates a new case repository
func NewCaseRepository(db *sqlite.DB, logger *zap.Logger) port.CaseRepository {
	return &CaseRepository{
		db:     db,
		logger: logger,
	}
}

const caseColumns = `
	id, case_code, patient_id, status, origin, tests,
	pathologist_id, pathologist_name, source_approval_code,
	signed_by, signed_at, created_at, updated_at
`

// Create persists a new case
func (r *CaseRepository) Create(ctx context.Context, c *entity.Case) error {
	tests, err := marshalTests(c.Tests)
	if err != nil {
		return err
	}

	var pathologistID sql.NullInt64
	var pathologistName sql.NullString
	if c.AssignedPathologist != nil {
		pathologistID = sql.NullInt64{Int64: c.AssignedPathologist.ID, Valid: true}
		pathologistName = sql.NullString{String: c.AssignedPathologist.Name, Valid: true}
	}

	query := `
		INSERT INTO cases (
			case_code, patient_id, status, origin, tests,
			pathologist_id, pathologist_name, source_approval_code,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.Executor(ctx).ExecContext(ctx, query,
		c.CaseCode,
		c.PatientID,
		c.Status,
		c.Origin,
		tests,
		pathologistID,
		pathologistName,
		nullString(c.SourceApprovalCode),
		c.CreatedAt,
		c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			// case_code and source_approval_code are both unique;
			// a duplicate source approval means the case already exists.
			return port.ErrCaseAlreadyCreated
		}
		r.logger.Error("Failed to create case", zap.Error(err))
		return fmt.Errorf("failed to create case: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	c.ID = id
	return nil
}

// GetByID retrieves a case by id
func (r *CaseRepository) GetByID(ctx context.Context, id int64) (*entity.Case, error) {
	query := `SELECT ` + caseColumns + ` FROM cases WHERE id = ?`
	return r.scanOne(ctx, query, id)
}

// GetByCode retrieves a case by its case code
func (r *CaseRepository) GetByCode(ctx context.Context, caseCode string) (*entity.Case, error) {
	query := `SELECT ` + caseColumns + ` FROM cases WHERE case_code = ?`
	return r.scanOne(ctx, query, caseCode)
}

// GetBySourceApproval retrieves the case derived from an approval request
func (r *CaseRepository) GetBySourceApproval(ctx context.Context, approvalCode string) (*entity.Case, error) {
	query := `SELECT ` + caseColumns + ` FROM cases WHERE source_approval_code = ?`
	return r.scanOne(ctx, query, approvalCode)
}

// List returns cases newest first plus the total count
func (r *CaseRepository) List(ctx context.Context, skip, limit int) ([]*entity.Case, int, error) {
	var total int
	if err := r.db.Executor(ctx).QueryRowContext(ctx, `SELECT COUNT(*) FROM cases`).Scan(&total); err != nil {
		r.logger.Error("Failed to count cases", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to count cases: %w", err)
	}

	query := `SELECT ` + caseColumns + ` FROM cases ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	rows, err := r.db.Executor(ctx).QueryContext(ctx, query, limit, skip)
	if err != nil {
		r.logger.Error("Failed to list cases", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to list cases: %w", err)
	}
	defer rows.Close()

	var cases []*entity.Case
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, 0, err
		}
		cases = append(cases, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate cases: %w", err)
	}

	return cases, total, nil
}

// AssignPathologist sets the assigned pathologist on a case
func (r *CaseRepository) AssignPathologist(ctx context.Context, id int64, ref entity.PathologistRef) error {
	query := `UPDATE cases SET pathologist_id = ?, pathologist_name = ?, updated_at = ? WHERE id = ?`

	result, err := r.db.Executor(ctx).ExecContext(ctx, query, ref.ID, ref.Name, time.Now(), id)
	if err != nil {
		r.logger.Error("Failed to assign pathologist", zap.Int64("case_id", id), zap.Error(err))
		return fmt.Errorf("failed to assign pathologist: %w", err)
	}
	return checkCaseAffected(result)
}

// Sign marks a case signed
func (r *CaseRepository) Sign(ctx context.Context, id int64, signedBy string, signedAt time.Time) error {
	query := `UPDATE cases SET status = ?, signed_by = ?, signed_at = ?, updated_at = ? WHERE id = ?`

	result, err := r.db.Executor(ctx).ExecContext(ctx, query,
		entity.CaseStatusSigned, signedBy, signedAt, time.Now(), id)
	if err != nil {
		r.logger.Error("Failed to sign case", zap.Int64("case_id", id), zap.Error(err))
		return fmt.Errorf("failed to sign case: %w", err)
	}
	return checkCaseAffected(result)
}

func checkCaseAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return port.ErrCaseNotFound
	}
	return nil
}

func (r *CaseRepository) scanOne(ctx context.Context, query string, arg interface{}) (*entity.Case, error) {
	row := r.db.Executor(ctx).QueryRowContext(ctx, query, arg)
	c, err := scanCase(row)
	if err == sql.ErrNoRows {
		return nil, port.ErrCaseNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get case", zap.Error(err))
		return nil, fmt.Errorf("failed to get case: %w", err)
	}
	return c, nil
}

func scanCase(row rowScanner) (*entity.Case, error) {
	var c entity.Case
	var tests string
	var pathologistID sql.NullInt64
	var pathologistName, sourceApproval, signedBy sql.NullString
	var signedAt sql.NullTime

	err := row.Scan(
		&c.ID,
		&c.CaseCode,
		&c.PatientID,
		&c.Status,
		&c.Origin,
		&tests,
		&pathologistID,
		&pathologistName,
		&sourceApproval,
		&signedBy,
		&signedAt,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := unmarshalTests(tests, &c.Tests); err != nil {
		return nil, err
	}

	if pathologistID.Valid {
		c.AssignedPathologist = &entity.PathologistRef{
			ID:   pathologistID.Int64,
			Name: pathologistName.String,
		}
	}
	c.SourceApprovalCode = sourceApproval.String
	c.SignedBy = signedBy.String
	if signedAt.Valid {
		c.SignedAt = &signedAt.Time
	}

	return &c, nil
}
