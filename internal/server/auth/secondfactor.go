package auth

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/keyguard/internal/common"
	"github.com/dmitrijs2005/keyguard/internal/cryptox"
	"github.com/dmitrijs2005/keyguard/internal/protocol"
	"github.com/dmitrijs2005/keyguard/internal/server/users"
)

// verifySecondFactor receives the hardware key's signature and checks it
// over the given challenge with the public key captured at enrollment. A
// key supplied by the client at verification time is never trusted.
//
// On failure the client gets the 2FA failure response and the calling flow
// aborts; on success the caller sends its own confirmation.
func (e *Engine) verifySecondFactor(ctx context.Context, ch *protocol.Channel, user *users.User, challenge []byte) error {
	sig, err := protocol.Receive[protocol.SignatureData](ch)
	if err != nil {
		return err
	}

	if err := cryptox.VerifyChallenge(user.PublicKey, challenge, sig.Signature); err != nil {
		e.logger.Info(ctx, "second factor rejected", "email", user.Email)
		if sendErr := ch.Send(protocol.Result{Success: false, Message: common.ErrTwoFAFailed.Error()}); sendErr != nil {
			return sendErr
		}
		return fmt.Errorf("%w: %v", common.ErrTwoFAFailed, err)
	}

	e.logger.Debug(ctx, "second factor verified", "email", user.Email)
	return nil
}
