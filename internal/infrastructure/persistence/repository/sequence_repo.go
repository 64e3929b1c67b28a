package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/limepath/pathsys/internal/application/port"
	"github.com/limepath/pathsys/internal/infrastructure/persistence/sqlite"
)

// SequenceRepository implements port.SequenceRepository on a
// code_sequences table keyed by (scope, year).
type SequenceRepository struct {
	db     *sqlite.DB
	logger *zap.Logger
}

// NewSequenceRepository creates a new sequence repository
func NewSequenceRepository(db *sqlite.DB, logger *zap.Logger) port.SequenceRepository {
	return &SequenceRepository{
		db:     db,
		logger: logger,
	}
}

// Next increments and returns the sequence counter for (scope, year).
// The upsert and the read-back must share the caller's transaction so
// the number stays reserved until the owning row commits.
func (r *SequenceRepository) Next(ctx context.Context, scope string, year int) (int, error) {
	upsert := `
		INSERT INTO code_sequences (scope, year, counter)
		VALUES (?, ?, 1)
		ON CONFLICT (scope, year) DO UPDATE SET counter = counter + 1
	`

	executor := r.db.Executor(ctx)
	if _, err := executor.ExecContext(ctx, upsert, scope, year); err != nil {
		r.logger.Error("Failed to advance code sequence",
			zap.String("scope", scope), zap.Int("year", year), zap.Error(err))
		return 0, fmt.Errorf("failed to advance code sequence: %w", err)
	}

	var counter int
	readBack := `SELECT counter FROM code_sequences WHERE scope = ? AND year = ?`
	if err := executor.QueryRowContext(ctx, readBack, scope, year).Scan(&counter); err != nil {
		r.logger.Error("Failed to read code sequence",
			zap.String("scope", scope), zap.Int("year", year), zap.Error(err))
		return 0, fmt.Errorf("failed to read code sequence: %w", err)
	}

	return counter, nil
}
