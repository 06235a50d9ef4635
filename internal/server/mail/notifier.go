// Package mail delivers out-of-band messages to account addresses. The
// reset flow uses it to hand the single-use token to whoever controls the
// account's mailbox.
package mail

import (
	"context"
	"fmt"
)

// Reset message template. The token is appended to the fixed body text.
const (
	ResetSubject = "Reset your password"
	resetBody    = "You can reset your password with the provided token"
)

// ResetMessage renders the subject and body for a reset token delivery.
func ResetMessage(token string) (subject, body string) {
	return ResetSubject, fmt.Sprintf("%s %s", resetBody, token)
}

// Notifier delivers a message to an address out-of-band. Send is synchronous
// from the caller's perspective; a failure aborts the calling flow.
type Notifier interface {
	Send(ctx context.Context, to, subject, body string) error
}
