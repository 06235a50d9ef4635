// Package common defines shared constants and sentinel errors used across
// client and server layers of keyguard. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Protocol-level errors, reported to the client as failure responses.
	// The flow aborts but the connection may continue with the next command.
	ErrValidation        = errors.New("validation error")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrAuthFailed        = errors.New("authentication failed")
	ErrTwoFAFailed       = errors.New("2FA failed")
	ErrTokenMismatch     = errors.New("wrong token")

	// Infrastructure errors. Reported to the client as a generic failure;
	// they must not crash the server process or affect other connections.
	ErrStore = errors.New("storage error")
	ErrMail  = errors.New("mail delivery error")

	// ErrChannel terminates the current connection only.
	ErrChannel = errors.New("channel error")
)
