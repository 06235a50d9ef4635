package mail

import (
	"context"

	"github.com/dmitrijs2005/keyguard/internal/logging"
)

// LogNotifier writes the message to the server log instead of sending it.
// The app falls back to it when no SMTP relay is configured, which keeps
// the reset flow usable in development.
type LogNotifier struct {
	logger logging.Logger
}

func NewLogNotifier(l logging.Logger) *LogNotifier {
	return &LogNotifier{logger: l.With("module", "mail")}
}

func (n *LogNotifier) Send(ctx context.Context, to, subject, body string) error {
	n.logger.Info(ctx, "mail delivery (log only)", "to", to, "subject", subject, "body", body)
	return nil
}
