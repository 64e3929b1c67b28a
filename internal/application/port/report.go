package port

import (
	"context"
	"time"
)

// ReportRepository runs read-only aggregates over the approval register
type ReportRepository interface {
	// StateCounts returns the number of approval requests per state,
	// optionally bounded by creation date.
	StateCounts(ctx context.Context, from, to *time.Time) (map[string]int, error)

	// DecisionTurnaround returns the average hours between creation and
	// decision, and the number of decided requests considered.
	DecisionTurnaround(ctx context.Context, from, to *time.Time) (float64, int, error)
}
