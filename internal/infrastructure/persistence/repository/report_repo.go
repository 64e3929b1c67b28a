package repository

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/limepath/pathsys/internal/application/port"
	"github.com/limepath/pathsys/internal/domain/entity"
	"github.com/limepath/pathsys/internal/infrastructure/persistence/sqlite"
)

// ReportRepository implements port.ReportRepository with read-only
// aggregates over the approval register.
type ReportRepository struct {
	db     *sqlite.DB
	logger *zap.Logger
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *sqlite.DB, logger *zap.Logger) port.ReportRepository {
	return &ReportRepository{
		db:     db,
		logger: logger,
	}
}

// StateCounts returns the number of approval requests per state
func (r *ReportRepository) StateCounts(ctx context.Context, from, to *time.Time) (map[string]int, error) {
	query := `SELECT state, COUNT(*) FROM approval_requests WHERE deleted = 0`
	args := []interface{}{}
	if from != nil {
		query += " AND created_at >= ?"
		args = append(args, *from)
	}
	if to != nil {
		query += " AND created_at <= ?"
		args = append(args, *to)
	}
	query += " GROUP BY state"

	rows, err := r.db.Executor(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to aggregate state counts", zap.Error(err))
		return nil, fmt.Errorf("failed to aggregate state counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var state string
		var count int
		if err := rows.Scan(&state, &count); err != nil {
			return nil, fmt.Errorf("failed to scan state count: %w", err)
		}
		counts[state] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate state counts: %w", err)
	}

	return counts, nil
}

// DecisionTurnaround returns the average hours from creation to
// decision over decided, non-deleted requests.
func (r *ReportRepository) DecisionTurnaround(ctx context.Context, from, to *time.Time) (float64, int, error) {
	// A decided request carries exactly one of approved_at / rejected_at.
	query := `
		SELECT
			COALESCE(AVG((julianday(COALESCE(approved_at, rejected_at)) - julianday(created_at)) * 24), 0),
			COUNT(*)
		FROM approval_requests
		WHERE deleted = 0 AND state IN (?, ?)
	`
	args := []interface{}{entity.ApprovalStateApproved, entity.ApprovalStateRejected}
	if from != nil {
		query += " AND created_at >= ?"
		args = append(args, *from)
	}
	if to != nil {
		query += " AND created_at <= ?"
		args = append(args, *to)
	}

	var avgHours float64
	var decided int
	if err := r.db.Executor(ctx).QueryRowContext(ctx, query, args...).Scan(&avgHours, &decided); err != nil {
		r.logger.Error("Failed to compute decision turnaround", zap.Error(err))
		return 0, 0, fmt.Errorf("failed to compute decision turnaround: %w", err)
	}

	return avgHours, decided, nil
}
