package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/keyguard/internal/common"
	"github.com/dmitrijs2005/keyguard/internal/cryptox"
	"github.com/dmitrijs2005/keyguard/internal/protocol"
	"github.com/dmitrijs2005/keyguard/internal/server/mail"
	"github.com/dmitrijs2005/keyguard/internal/server/users"
	"github.com/dmitrijs2005/keyguard/internal/validation"
	"github.com/google/uuid"
)

// newResetToken is a test seam for the token generator.
var newResetToken = uuid.NewString

// resetPassword runs the out-of-band password reset. The client must first
// prove possession of the enrolled hardware key against a fresh challenge;
// only then is a single-use token mailed to the account address. The stored
// credentials change in one final write after every check has passed, so an
// abort at any round leaves the account untouched.
func (e *Engine) resetPassword(ctx context.Context, ch *protocol.Channel) (*users.User, error) {
	emailData, err := protocol.Receive[protocol.EmailData](ch)
	if err != nil {
		return nil, err
	}

	e.logger.Info(ctx, "reset password process")

	user, lookupErr := e.lookupForReset(ctx, emailData.Email)
	if lookupErr != nil {
		// The refusal does not say whether the address was malformed,
		// unknown, or the store failed.
		if sendErr := ch.Send(protocol.Result{Success: false, Message: MsgCannotProceed}); sendErr != nil {
			return nil, sendErr
		}
		return nil, lookupErr
	}

	challenge := cryptox.GenerateChallenge()
	if err := ch.Send(protocol.Result{Success: true, Message: MsgAuthTo2FA}); err != nil {
		return nil, err
	}
	if err := ch.Send(protocol.ChallengeData{Challenge: challenge}); err != nil {
		return nil, err
	}

	if err := e.verifySecondFactor(ctx, ch, user, challenge); err != nil {
		return nil, err
	}

	token := newResetToken()
	subject, body := mail.ResetMessage(token)
	if err := e.notifier.Send(ctx, user.Email, subject, body); err != nil {
		e.logger.Error(ctx, "token delivery", "email", user.Email, "error", err.Error())
		if sendErr := ch.Send(protocol.Result{Success: false, Message: MsgInternalError}); sendErr != nil {
			return nil, sendErr
		}
		return nil, fmt.Errorf("%w: %v", common.ErrMail, err)
	}
	e.logger.Info(ctx, "reset token sent", "email", user.Email)
	if err := ch.Send(protocol.Result{Success: true, Message: MsgEmailSent}); err != nil {
		return nil, err
	}

	returned, err := protocol.Receive[protocol.TextData](ch)
	if err != nil {
		return nil, err
	}

	// One comparison per token: on mismatch the token dies with the flow.
	if validation.ResetToken(returned.Text) != nil || !cryptox.EqualConstantTime([]byte(token), []byte(returned.Text)) {
		e.logger.Info(ctx, "reset token mismatch", "email", user.Email)
		if sendErr := ch.Send(protocol.Result{Success: false, Message: common.ErrTokenMismatch.Error()}); sendErr != nil {
			return nil, sendErr
		}
		return nil, common.ErrTokenMismatch
	}
	if err := ch.Send(protocol.Result{Success: true, Message: MsgTokenAccepted}); err != nil {
		return nil, err
	}

	newPassword, err := protocol.Receive[protocol.TextData](ch)
	if err != nil {
		return nil, err
	}
	if err := validation.Password(newPassword.Text); err != nil {
		if sendErr := ch.Send(protocol.Result{Success: false, Message: err.Error()}); sendErr != nil {
			return nil, sendErr
		}
		return nil, err
	}

	updated := user.Clone()
	updated.Salt = cryptox.GenerateSalt()
	updated.PasswordHash = cryptox.HashPassword([]byte(newPassword.Text), updated.Salt)

	if err := e.repo.Update(ctx, updated); err != nil {
		e.logger.Error(ctx, "persisting new password", "email", user.Email, "error", err.Error())
		if sendErr := ch.Send(protocol.Result{Success: false, Message: MsgInternalError}); sendErr != nil {
			return nil, sendErr
		}
		return nil, fmt.Errorf("%w: %v", common.ErrStore, err)
	}

	e.logger.Info(ctx, "password updated", "email", user.Email)
	if err := ch.Send(protocol.Result{Success: true, Message: MsgPasswordUpdated}); err != nil {
		return nil, err
	}
	return updated, nil
}

func (e *Engine) lookupForReset(ctx context.Context, email string) (*users.User, error) {
	if err := validation.Email(email); err != nil {
		return nil, err
	}
	user, err := e.repo.Get(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrAuthFailed
		}
		e.logger.Error(ctx, "user lookup", "error", err.Error())
		return nil, fmt.Errorf("%w: %v", common.ErrStore, err)
	}
	return user, nil
}
