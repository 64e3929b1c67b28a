package jobs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/limepath/pathsys/internal/application/port"
	"github.com/limepath/pathsys/internal/domain/entity"
)

// Config holds the tunables of the background jobs
type Config struct {
	// Requests older than this and still undecided trigger a reminder.
	ReminderThreshold time.Duration
	// Address the reminder digest is sent to.
	ReminderRecipient string
}

// Runner executes background jobs over the approval register
type Runner struct {
	approvalRepo port.ApprovalRequestRepository
	notifier     port.Notifier
	cfg          Config
	logger       *zap.Logger
}

// NewRunner creates a new job runner
func NewRunner(approvalRepo port.ApprovalRequestRepository, notifier port.Notifier, cfg Config, logger *zap.Logger) *Runner {
	return &Runner{
		approvalRepo: approvalRepo,
		notifier:     notifier,
		cfg:          cfg,
		logger:       logger,
	}
}

// page size for scanning the register
const reminderPageSize = 200

// PendingApprovalsReminder notifies about requests stuck before a
// decision longer than the configured threshold.
func (r *Runner) PendingApprovalsReminder() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	r.logger.Info("Running pending approvals reminder job")

	cutoff := time.Now().Add(-r.cfg.ReminderThreshold)
	stale := 0
	var lines strings.Builder

	for _, state := range []string{entity.ApprovalStateRequestMade, entity.ApprovalStatePendingApproval} {
		for skip := 0; ; skip += reminderPageSize {
			requests, _, err := r.approvalRepo.Search(ctx, port.ApprovalFilter{
				State:     state,
				CreatedTo: &cutoff,
			}, skip, reminderPageSize)
			if err != nil {
				r.logger.Error("Failed to load pending approvals", zap.String("state", state), zap.Error(err))
				return
			}
			for _, req := range requests {
				stale++
				fmt.Fprintf(&lines, "%s (case %s, %s since %s)\n",
					req.ApprovalCode, req.OriginalCaseCode, req.State,
					req.CreatedAt.Format("2006-01-02"))
			}
			if len(requests) < reminderPageSize {
				break
			}
		}
	}

	if stale == 0 {
		r.logger.Info("No stale approval requests found")
		return
	}

	if r.cfg.ReminderRecipient == "" {
		r.logger.Info("Stale approval requests found but no reminder recipient configured",
			zap.Int("count", stale))
		return
	}

	err := r.notifier.Notify(ctx, port.Notification{
		ID:        uuid.NewString(),
		Recipient: r.cfg.ReminderRecipient,
		Subject:   fmt.Sprintf("%d approval requests awaiting decision", stale),
		Body:      "The following approval requests have been waiting longer than the configured threshold:\n\n" + lines.String(),
	})
	if err != nil {
		r.logger.Error("Failed to send pending approvals reminder", zap.Error(err))
		return
	}

	r.logger.Info("Pending approvals reminder sent", zap.Int("count", stale))
}
