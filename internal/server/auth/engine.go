// Package auth implements the server side of the authentication protocol:
// command dispatch, the challenge-response password check, hardware-signed
// second-factor verification, enrollment and the password-reset flow.
//
// All cryptographic state of an attempt (challenge, token) lives on the
// stack of one connection worker and dies with the flow. The user store is
// the only state shared across connections.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/keyguard/internal/common"
	"github.com/dmitrijs2005/keyguard/internal/logging"
	"github.com/dmitrijs2005/keyguard/internal/protocol"
	"github.com/dmitrijs2005/keyguard/internal/server/mail"
	"github.com/dmitrijs2005/keyguard/internal/server/users"
)

// User-facing strings sent alongside protocol results.
const (
	MsgAuthSuccess     = "Authentication success"
	MsgAuthTo2FA       = "Proceeding with the 2FA"
	MsgUserRegistered  = "User registered"
	MsgEmailSent       = "An email was sent to your address"
	MsgTokenAccepted   = "Correct token"
	MsgPasswordUpdated = "Password updated"

	// MsgCannotProceed deliberately does not say why a reset was refused.
	MsgCannotProceed = "Cannot proceed"

	// MsgInternalError is the generic text for store and mail failures.
	// Internal detail never reaches the client.
	MsgInternalError = "Internal error"
)

// Engine sequences the protocol flows for one server. It holds no
// per-connection state, so a single Engine is shared by all connection
// workers.
type Engine struct {
	repo     users.Repository
	notifier mail.Notifier
	logger   logging.Logger

	// placeholderKey derives stable fake salts for unregistered emails.
	// If repeated attempts for the same address answered with a fresh
	// random salt each time, salt instability itself would reveal that
	// the address is unknown.
	placeholderKey []byte
}

func NewEngine(repo users.Repository, notifier mail.Notifier, logger logging.Logger) *Engine {
	return &Engine{
		repo:           repo,
		notifier:       notifier,
		logger:         logger.With("module", "auth"),
		placeholderKey: common.GenerateRandByteArray(32),
	}
}

// HandleConnection runs the per-connection command loop until the client
// exits or the channel fails. Protocol-level failures abort the current
// flow only; the loop then waits for the next command.
func (e *Engine) HandleConnection(ctx context.Context, ch *protocol.Channel) {
	for {
		cmd, err := protocol.Receive[protocol.CommandData](ch)
		if err != nil {
			e.logger.Debug(ctx, "connection closed", "reason", err.Error())
			return
		}

		var user *users.User
		switch cmd.Command {
		case protocol.CmdRegister:
			user, err = e.register(ctx, ch)
		case protocol.CmdAuthenticate:
			user, err = e.authenticate(ctx, ch)
		case protocol.CmdReset:
			user, err = e.resetPassword(ctx, ch)
		case protocol.CmdExit:
			e.logger.Debug(ctx, "client exited")
			return
		default:
			e.logger.Warn(ctx, "unknown command", "command", string(cmd.Command))
			return
		}

		if err != nil {
			if errors.Is(err, common.ErrChannel) {
				return
			}
			// The flow already reported the failure to the client.
			e.logger.Info(ctx, "flow aborted", "command", string(cmd.Command), "reason", err.Error())
			continue
		}

		if user != nil {
			if err := e.actionLoop(ctx, ch, user); err != nil {
				return
			}
		}
	}
}

// actionLoop serves the authenticated session until logout. A returned
// error means the channel is unusable and the connection must end.
func (e *Engine) actionLoop(ctx context.Context, ch *protocol.Channel, user *users.User) error {
	log := e.logger.With("email", user.Email)
	log.Info(ctx, "session started")

	for {
		act, err := protocol.Receive[protocol.ActionData](ch)
		if err != nil {
			return err
		}

		switch act.Action {
		case protocol.ActionSwitch2FA:
			if err := e.switchSecondFactor(ctx, ch, user); err != nil && errors.Is(err, common.ErrChannel) {
				return err
			}
		case protocol.ActionLogout:
			log.Info(ctx, "session ended")
			return nil
		default:
			return fmt.Errorf("%w: unknown action %q", common.ErrChannel, act.Action)
		}
	}
}

// switchSecondFactor flips the flag on the in-memory user and persists the
// change before confirming the new state.
func (e *Engine) switchSecondFactor(ctx context.Context, ch *protocol.Channel, user *users.User) error {
	user.TwoFactor = !user.TwoFactor

	if err := e.repo.Update(ctx, user); err != nil {
		user.TwoFactor = !user.TwoFactor
		e.logger.Error(ctx, "persisting 2FA switch", "email", user.Email, "error", err.Error())
		if err := ch.Send(protocol.SwitchResult{Success: false, Message: MsgInternalError, TwoFactor: user.TwoFactor}); err != nil {
			return err
		}
		return fmt.Errorf("%w: %v", common.ErrStore, err)
	}

	e.logger.Info(ctx, "2FA switched", "email", user.Email, "enabled", user.TwoFactor)
	return ch.Send(protocol.SwitchResult{Success: true, TwoFactor: user.TwoFactor})
}
