package notification

import (
	"context"

	"go.uber.org/zap"

	"github.com/limepath/pathsys/internal/application/port"
)

// LogNotifier writes notifications to the log instead of delivering
// them. Used when no mail provider is configured.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a log-only notifier
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs the notification and reports success
func (l *LogNotifier) Notify(ctx context.Context, n port.Notification) error {
	l.logger.Info("Notification (log only)",
		zap.String("notification_id", n.ID),
		zap.String("recipient", n.Recipient),
		zap.String("subject", n.Subject),
		zap.String("body", n.Body))
	return nil
}

var _ port.Notifier = (*LogNotifier)(nil)
