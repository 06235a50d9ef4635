package auth

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/keyguard/internal/common"
	"github.com/dmitrijs2005/keyguard/internal/cryptox"
	"github.com/dmitrijs2005/keyguard/internal/protocol"
	"github.com/dmitrijs2005/keyguard/internal/server/users"
	"github.com/dmitrijs2005/keyguard/internal/validation"
)

// authenticate runs the challenge-response password check and, when the
// account has it enabled, the hardware-key second factor over the same
// challenge.
//
// Whether or not the account exists, the flow walks through the same
// message sequence: a placeholder salt and hash are synthesized for unknown
// emails so that neither response shape nor timing reveals whether an
// address is registered. The single failure answer is identical for "wrong
// password" and "no such user".
func (e *Engine) authenticate(ctx context.Context, ch *protocol.Channel) (*users.User, error) {
	emailData, err := protocol.Receive[protocol.EmailData](ch)
	if err != nil {
		return nil, err
	}

	e.logger.Info(ctx, "authentication process")

	// A malformed email cannot be registered, so it takes the same
	// placeholder path as an unknown one. Reporting a validation error
	// here would distinguish the cases by message type.
	known := validation.Email(emailData.Email) == nil

	var user *users.User
	if known {
		user, err = e.repo.Get(ctx, emailData.Email)
		if err != nil {
			if !errors.Is(err, common.ErrNotFound) {
				// Store trouble is logged but the attempt proceeds on the
				// placeholder path and ends in the uniform failure answer.
				e.logger.Error(ctx, "user lookup", "error", err.Error())
			}
			known = false
		}
	}

	// The placeholder salt is a keyed derivation of the address, so the
	// same unknown email always answers with the same salt, exactly like
	// a registered account answers with its stored one. The placeholder
	// hash never leaves the server and only has to make the comparison
	// fail, so it can stay random.
	salt := cryptox.ComputeHMAC([]byte(emailData.Email), e.placeholderKey)[:cryptox.SaltSize]
	storedHash := common.GenerateRandByteArray(32)
	if known {
		salt = user.Salt
		storedHash = user.PasswordHash
	}

	challenge := cryptox.GenerateChallenge()
	if err := ch.Send(protocol.ChallengeData{Salt: salt, Challenge: challenge}); err != nil {
		return nil, err
	}

	proof, err := protocol.Receive[protocol.HMACData](ch)
	if err != nil {
		return nil, err
	}

	expected := cryptox.ComputeHMAC(challenge, storedHash)
	if !cryptox.EqualConstantTime(proof.HMAC, expected) || !known {
		e.logger.Info(ctx, "authentication failed")
		if sendErr := ch.Send(protocol.AuthResult{Success: false, Message: common.ErrAuthFailed.Error()}); sendErr != nil {
			return nil, sendErr
		}
		return nil, common.ErrAuthFailed
	}

	if !user.TwoFactor {
		e.logger.Info(ctx, "authentication success", "email", user.Email)
		if err := ch.Send(protocol.AuthResult{Success: true, Message: MsgAuthSuccess}); err != nil {
			return nil, err
		}
		return user, nil
	}

	// The second factor signs the challenge already issued for this
	// attempt, binding both factors to one exchange.
	if err := ch.Send(protocol.AuthResult{Success: true, Message: MsgAuthTo2FA, TwoFactor: true}); err != nil {
		return nil, err
	}

	if err := e.verifySecondFactor(ctx, ch, user, challenge); err != nil {
		return nil, err
	}

	e.logger.Info(ctx, "authentication success", "email", user.Email)
	if err := ch.Send(protocol.Result{Success: true, Message: MsgAuthSuccess}); err != nil {
		return nil, err
	}
	return user, nil
}
