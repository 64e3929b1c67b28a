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

// PatientRepository implements port.PatientRepository
type PatientRepository struct {
	db     *sqlite.DB
	logger *zap.Logger
}

// NewPatientRepository creates a new patient repository
func NewPatientRepository(db *sqlite.DB, logger *zap.Logger) port.PatientRepository {
	return &PatientRepository{
		db:     db,
		logger: logger,
	}
}

const patientColumns = `
	id, identity_document, first_name, last_name, birth_date,
	sex, phone, email, created_at, updated_at
`

// Create persists a new patient
func (r *PatientRepository) Create(ctx context.Context, p *entity.Patient) error {
	query := `
		INSERT INTO patients (
			identity_document, first_name, last_name, birth_date,
			sex, phone, email, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.Executor(ctx).ExecContext(ctx, query,
		p.IdentityDocument,
		p.FirstName,
		p.LastName,
		nullTime(p.BirthDate),
		nullString(p.Sex),
		nullString(p.Phone),
		nullString(p.Email),
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return port.ErrDuplicateIdentityDocument
		}
		r.logger.Error("Failed to create patient", zap.Error(err))
		return fmt.Errorf("failed to create patient: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	p.ID = id
	return nil
}

// GetByID retrieves a patient by id
func (r *PatientRepository) GetByID(ctx context.Context, id int64) (*entity.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE id = ?`
	return r.scanOne(ctx, query, id)
}

// GetByIdentityDocument retrieves a patient by identity document
func (r *PatientRepository) GetByIdentityDocument(ctx context.Context, document string) (*entity.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE identity_document = ?`
	return r.scanOne(ctx, query, document)
}

// Search matches the query against name and identity document
func (r *PatientRepository) Search(ctx context.Context, query string, skip, limit int) ([]*entity.Patient, int, error) {
	pattern := "%" + query + "%"
	where := `WHERE identity_document LIKE ? OR first_name LIKE ? OR last_name LIKE ?`

	var total int
	countQuery := `SELECT COUNT(*) FROM patients ` + where
	if err := r.db.Executor(ctx).QueryRowContext(ctx, countQuery, pattern, pattern, pattern).Scan(&total); err != nil {
		r.logger.Error("Failed to count patients", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to count patients: %w", err)
	}

	listQuery := `SELECT ` + patientColumns + ` FROM patients ` + where +
		` ORDER BY last_name, first_name LIMIT ? OFFSET ?`
	rows, err := r.db.Executor(ctx).QueryContext(ctx, listQuery, pattern, pattern, pattern, limit, skip)
	if err != nil {
		r.logger.Error("Failed to search patients", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to search patients: %w", err)
	}
	defer rows.Close()

	var patients []*entity.Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, 0, err
		}
		patients = append(patients, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate patients: %w", err)
	}

	return patients, total, nil
}

// Update overwrites the patient's demographic fields
func (r *PatientRepository) Update(ctx context.Context, p *entity.Patient) error {
	query := `
		UPDATE patients SET
			identity_document = ?, first_name = ?, last_name = ?,
			birth_date = ?, sex = ?, phone = ?, email = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.Executor(ctx).ExecContext(ctx, query,
		p.IdentityDocument,
		p.FirstName,
		p.LastName,
		nullTime(p.BirthDate),
		nullString(p.Sex),
		nullString(p.Phone),
		nullString(p.Email),
		time.Now(),
		p.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return port.ErrDuplicateIdentityDocument
		}
		r.logger.Error("Failed to update patient", zap.Int64("id", p.ID), zap.Error(err))
		return fmt.Errorf("failed to update patient: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return port.ErrPatientNotFound
	}
	return nil
}

func (r *PatientRepository) scanOne(ctx context.Context, query string, arg interface{}) (*entity.Patient, error) {
	row := r.db.Executor(ctx).QueryRowContext(ctx, query, arg)
	p, err := scanPatient(row)
	if err == sql.ErrNoRows {
		return nil, port.ErrPatientNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get patient", zap.Error(err))
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return p, nil
}

func scanPatient(row rowScanner) (*entity.Patient, error) {
	var p entity.Patient
	var birthDate sql.NullTime
	var sex, phone, email sql.NullString

	err := row.Scan(
		&p.ID,
		&p.IdentityDocument,
		&p.FirstName,
		&p.LastName,
		&birthDate,
		&sex,
		&phone,
		&email,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if birthDate.Valid {
		p.BirthDate = &birthDate.Time
	}
	p.Sex = sex.String
	p.Phone = phone.String
	p.Email = email.String

	return &p, nil
}
