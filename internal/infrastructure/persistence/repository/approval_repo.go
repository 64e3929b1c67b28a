package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/limepath/pathsys/internal/application/port"
	"github.com/limepath/pathsys/internal/domain/entity"
	"github.com/limepath/pathsys/internal/infrastructure/persistence/sqlite"
)

// ApprovalRepository implements port.ApprovalRequestRepository
type ApprovalRepository struct {
	db     *sqlite.DB
	logger *zap.Logger
}

// NewApprovalRepository creates a new approval request repository
func NewApprovalRepository(db *sqlite.DB, logger *zap.Logger) port.ApprovalRequestRepository {
	return &ApprovalRepository{
		db:     db,
		logger: logger,
	}
}

const approvalColumns = `
	id, approval_code, original_case_code, state, complementary_tests,
	reason, requested_by, pathologist_id, pathologist_name,
	management_comments, managed_by, managed_at,
	approval_comments, approved_by, approved_at,
	rejection_comments, rejected_by, rejected_at,
	linked_case_id, linked_case_code,
	version, deleted, created_at, updated_at
`

// Create persists a new approval request
func (r *ApprovalRepository) Create(ctx context.Context, req *entity.ApprovalRequest) error {
	tests, err := marshalTests(req.ComplementaryTests)
	if err != nil {
		return err
	}

	var pathologistID sql.NullInt64
	var pathologistName sql.NullString
	if req.AssignedPathologist != nil {
		pathologistID = sql.NullInt64{Int64: req.AssignedPathologist.ID, Valid: true}
		pathologistName = sql.NullString{String: req.AssignedPathologist.Name, Valid: true}
	}

	query := `
		INSERT INTO approval_requests (
			approval_code, original_case_code, state, complementary_tests,
			reason, requested_by, pathologist_id, pathologist_name,
			version, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.Executor(ctx).ExecContext(ctx, query,
		req.ApprovalCode,
		req.OriginalCaseCode,
		req.State,
		tests,
		req.Reason,
		req.RequestedBy,
		pathologistID,
		pathologistName,
		req.Version,
		req.CreatedAt,
		req.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return port.ErrDuplicateApprovalCode
		}
		r.logger.Error("Failed to create approval request", zap.Error(err))
		return fmt.Errorf("failed to create approval request: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	req.ID = id
	return nil
}

// GetByID retrieves an approval request by id
func (r *ApprovalRepository) GetByID(ctx context.Context, id int64) (*entity.ApprovalRequest, error) {
	query := `SELECT ` + approvalColumns + ` FROM approval_requests WHERE id = ? AND deleted = 0`
	return r.scanOne(ctx, query, id)
}

// GetByCode retrieves an approval request by its approval code
func (r *ApprovalRepository) GetByCode(ctx context.Context, approvalCode string) (*entity.ApprovalRequest, error) {
	query := `SELECT ` + approvalColumns + ` FROM approval_requests WHERE approval_code = ? AND deleted = 0`
	return r.scanOne(ctx, query, approvalCode)
}

// Search returns matching requests plus the total match count
func (r *ApprovalRepository) Search(ctx context.Context, filter port.ApprovalFilter, skip, limit int) ([]*entity.ApprovalRequest, int, error) {
	where := "WHERE 1=1"
	args := []interface{}{}

	if !filter.IncludeDeleted {
		where += " AND deleted = 0"
	}
	if filter.OriginalCaseCode != "" {
		where += " AND original_case_code = ?"
		args = append(args, filter.OriginalCaseCode)
	}
	if filter.State != "" {
		where += " AND state = ?"
		args = append(args, filter.State)
	}
	if filter.RequestedBy != "" {
		where += " AND requested_by = ?"
		args = append(args, filter.RequestedBy)
	}
	if filter.ApprovedBy != "" {
		where += " AND approved_by = ?"
		args = append(args, filter.ApprovedBy)
	}
	if filter.CreatedFrom != nil {
		where += " AND created_at >= ?"
		args = append(args, *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		where += " AND created_at <= ?"
		args = append(args, *filter.CreatedTo)
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM approval_requests " + where
	if err := r.db.Executor(ctx).QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		r.logger.Error("Failed to count approval requests", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to count approval requests: %w", err)
	}

	query := `SELECT ` + approvalColumns + ` FROM approval_requests ` + where +
		" ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?"
	pageArgs := append(append([]interface{}{}, args...), limit, skip)

	rows, err := r.db.Executor(ctx).QueryContext(ctx, query, pageArgs...)
	if err != nil {
		r.logger.Error("Failed to search approval requests", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to search approval requests: %w", err)
	}
	defer rows.Close()

	var requests []*entity.ApprovalRequest
	for rows.Next() {
		req, err := scanApproval(rows)
		if err != nil {
			return nil, 0, err
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate approval requests: %w", err)
	}

	return requests, total, nil
}

// UpdateState persists the request's state and transition bookkeeping
// fields. The write is compare-and-swap on version: it only lands when
// the stored version still equals expectedVersion.
func (r *ApprovalRepository) UpdateState(ctx context.Context, req *entity.ApprovalRequest, expectedVersion int64) error {
	now := time.Now()
	query := `
		UPDATE approval_requests SET
			state = ?,
			management_comments = ?, managed_by = ?, managed_at = ?,
			approval_comments = ?, approved_by = ?, approved_at = ?,
			rejection_comments = ?, rejected_by = ?, rejected_at = ?,
			linked_case_id = ?, linked_case_code = ?,
			version = version + 1, updated_at = ?
		WHERE id = ? AND version = ? AND deleted = 0
	`

	result, err := r.db.Executor(ctx).ExecContext(ctx, query,
		req.State,
		nullString(req.ManagementComments), nullString(req.ManagedBy), nullTime(req.ManagedAt),
		nullString(req.ApprovalComments), nullString(req.ApprovedBy), nullTime(req.ApprovedAt),
		nullString(req.RejectionComments), nullString(req.RejectedBy), nullTime(req.RejectedAt),
		nullInt64(req.LinkedCaseID), nullString(req.LinkedCaseCode),
		now,
		req.ID, expectedVersion,
	)
	if err != nil {
		r.logger.Error("Failed to update approval state", zap.Int64("id", req.ID), zap.Error(err))
		return fmt.Errorf("failed to update approval state: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return r.staleWriteError(ctx, req.ID)
	}

	req.Version = expectedVersion + 1
	req.UpdatedAt = now
	return nil
}

// ReplaceTests overwrites the complementary test list, compare-and-swap
// on version like UpdateState.
func (r *ApprovalRepository) ReplaceTests(ctx context.Context, id int64, expectedVersion int64, tests []entity.ComplementaryTest) error {
	payload, err := marshalTests(tests)
	if err != nil {
		return err
	}

	query := `
		UPDATE approval_requests
		SET complementary_tests = ?, version = version + 1, updated_at = ?
		WHERE id = ? AND version = ? AND deleted = 0
	`

	result, err := r.db.Executor(ctx).ExecContext(ctx, query, payload, time.Now(), id, expectedVersion)
	if err != nil {
		r.logger.Error("Failed to replace complementary tests", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to replace complementary tests: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return r.staleWriteError(ctx, id)
	}
	return nil
}

// SetDeleted soft-deletes a request; the workflow state is untouched
func (r *ApprovalRepository) SetDeleted(ctx context.Context, id int64) error {
	query := `UPDATE approval_requests SET deleted = 1, updated_at = ? WHERE id = ? AND deleted = 0`

	result, err := r.db.Executor(ctx).ExecContext(ctx, query, time.Now(), id)
	if err != nil {
		r.logger.Error("Failed to soft-delete approval request", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to soft-delete approval request: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return port.ErrApprovalRequestNotFound
	}
	return nil
}

// staleWriteError disambiguates a zero-row CAS update: a missing record
// is NotFound, a record whose version moved is Conflict.
func (r *ApprovalRepository) staleWriteError(ctx context.Context, id int64) error {
	var storedVersion int64
	err := r.db.Executor(ctx).
		QueryRowContext(ctx, `SELECT version FROM approval_requests WHERE id = ? AND deleted = 0`, id).
		Scan(&storedVersion)
	if err == sql.ErrNoRows {
		return port.ErrApprovalRequestNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to inspect stale write: %w", err)
	}
	return port.ErrVersionConflict
}

func (r *ApprovalRepository) scanOne(ctx context.Context, query string, arg interface{}) (*entity.ApprovalRequest, error) {
	row := r.db.Executor(ctx).QueryRowContext(ctx, query, arg)
	req, err := scanApproval(row)
	if err == sql.ErrNoRows {
		return nil, port.ErrApprovalRequestNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get approval request", zap.Error(err))
		return nil, fmt.Errorf("failed to get approval request: %w", err)
	}
	return req, nil
}

// rowScanner covers *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanApproval(row rowScanner) (*entity.ApprovalRequest, error) {
	var req entity.ApprovalRequest
	var tests string
	var requestedBy sql.NullString
	var pathologistID, linkedCaseID sql.NullInt64
	var pathologistName, linkedCaseCode sql.NullString
	var mgmtComments, managedBy sql.NullString
	var apprComments, approvedBy sql.NullString
	var rejComments, rejectedBy sql.NullString
	var managedAt, approvedAt, rejectedAt sql.NullTime

	err := row.Scan(
		&req.ID,
		&req.ApprovalCode,
		&req.OriginalCaseCode,
		&req.State,
		&tests,
		&req.Reason,
		&requestedBy,
		&pathologistID,
		&pathologistName,
		&mgmtComments, &managedBy, &managedAt,
		&apprComments, &approvedBy, &approvedAt,
		&rejComments, &rejectedBy, &rejectedAt,
		&linkedCaseID, &linkedCaseCode,
		&req.Version,
		&req.Deleted,
		&req.CreatedAt,
		&req.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := unmarshalTests(tests, &req.ComplementaryTests); err != nil {
		return nil, err
	}

	req.RequestedBy = requestedBy.String
	if pathologistID.Valid {
		req.AssignedPathologist = &entity.PathologistRef{
			ID:   pathologistID.Int64,
			Name: pathologistName.String,
		}
	}
	req.ManagementComments = mgmtComments.String
	req.ManagedBy = managedBy.String
	req.ApprovalComments = apprComments.String
	req.ApprovedBy = approvedBy.String
	req.RejectionComments = rejComments.String
	req.RejectedBy = rejectedBy.String
	if managedAt.Valid {
		req.ManagedAt = &managedAt.Time
	}
	if approvedAt.Valid {
		req.ApprovedAt = &approvedAt.Time
	}
	if rejectedAt.Valid {
		req.RejectedAt = &rejectedAt.Time
	}
	req.LinkedCaseID = linkedCaseID.Int64
	req.LinkedCaseCode = linkedCaseCode.String

	return &req, nil
}

func marshalTests(tests []entity.ComplementaryTest) (string, error) {
	payload, err := json.Marshal(tests)
	if err != nil {
		return "", fmt.Errorf("failed to encode complementary tests: %w", err)
	}
	return string(payload), nil
}

func unmarshalTests(payload string, dest *[]entity.ComplementaryTest) error {
	if err := json.Unmarshal([]byte(payload), dest); err != nil {
		return fmt.Errorf("failed to decode complementary tests: %w", err)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func nullInt64(v int64) sql.NullInt64 {
	return sql.NullInt64{Int64: v, Valid: v != 0}
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
