package mailer

//go:generate mockgen -destination=../mocks/mock_mailer.go -package=mocks github.com/Ochessi/tasknest/internal/mailer Mailer

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Mailer dispatches account notifications. Implementations must be safe to
// fail: callers swallow errors so a mail outage never blocks auth flows.
type Mailer interface {
	SendPasswordReset(ctx context.Context, to, username, token string) error
}

// LogMailer writes outgoing mail to the log instead of a real backend.
// Deployments with an SMTP relay replace this behind the same interface.
type LogMailer struct {
	log  *zap.Logger
	from string
}

func NewLogMailer(log *zap.Logger, from string) *LogMailer {
	return &LogMailer{log: log, from: from}
}

func (m *LogMailer) SendPasswordReset(ctx context.Context, to, username, token string) error {
	body := fmt.Sprintf(
		"Hello %s,\n\nYou have requested a password reset for your TaskNest account.\n\n"+
			"Your password reset token is: %s\n\nThis token will expire in 1 hour.\n\n"+
			"If you did not request this password reset, please ignore this email.\n\n"+
			"Best regards,\nTaskNest Team\n",
		username, token)

	m.log.Info("sending password reset email",
		zap.String("from", m.from),
		zap.String("to", to),
		zap.String("subject", "TaskNest - Password Reset Request"),
		zap.String("body", body),
	)

	return nil
}
