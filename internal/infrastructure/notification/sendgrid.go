package notification

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	"github.com/limepath/pathsys/internal/application/port"
)

// SendGridNotifier delivers notifications by email through SendGrid
type SendGridNotifier struct {
	apiKey    string
	fromEmail string
	fromName  string
	logger    *zap.Logger
}

// NewSendGridNotifier creates a new SendGrid-backed notifier
func NewSendGridNotifier(apiKey, fromEmail, fromName string, logger *zap.Logger) *SendGridNotifier {
	return &SendGridNotifier{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
		logger:    logger,
	}
}

// Notify sends the notification as a plain-text email
func (s *SendGridNotifier) Notify(ctx context.Context, n port.Notification) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail(n.RecipientName, n.Recipient)
	message := mail.NewSingleEmail(from, n.Subject, recipient, n.Body, "")

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}

	s.logger.Info("Notification sent",
		zap.String("notification_id", n.ID),
		zap.String("recipient", n.Recipient),
		zap.String("subject", n.Subject))
	return nil
}

var _ port.Notifier = (*SendGridNotifier)(nil)
