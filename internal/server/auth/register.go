package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/keyguard/internal/common"
	"github.com/dmitrijs2005/keyguard/internal/cryptox"
	"github.com/dmitrijs2005/keyguard/internal/protocol"
	"github.com/dmitrijs2005/keyguard/internal/server/users"
	"github.com/dmitrijs2005/keyguard/internal/validation"
)

// register runs the enrollment flow. The user record is persisted before
// the success response goes out, so a confirmed registration is always
// durable. Registration never overwrites an existing account. A confirmed
// registration opens a session for the new user.
func (e *Engine) register(ctx context.Context, ch *protocol.Channel) (*users.User, error) {
	reg, err := protocol.Receive[protocol.RegisterData](ch)
	if err != nil {
		return nil, err
	}

	e.logger.Info(ctx, "registration process")

	if err := validateRegistration(reg); err != nil {
		if sendErr := ch.Send(protocol.Result{Success: false, Message: err.Error()}); sendErr != nil {
			return nil, sendErr
		}
		return nil, err
	}

	salt := cryptox.GenerateSalt()
	user := &users.User{
		Email:        reg.Email,
		Salt:         salt,
		PasswordHash: cryptox.HashPassword([]byte(reg.Password), salt),
		TwoFactor:    true,
		PublicKey:    reg.PublicKey,
	}

	// Create is atomic per email: under two concurrent registrations for
	// the same address exactly one insert wins.
	if err := e.repo.Create(ctx, user); err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			e.logger.Info(ctx, "registration refused", "email", reg.Email, "reason", "already exists")
			if sendErr := ch.Send(protocol.Result{Success: false, Message: common.ErrUserAlreadyExists.Error()}); sendErr != nil {
				return nil, sendErr
			}
			return nil, common.ErrUserAlreadyExists
		}
		e.logger.Error(ctx, "inserting user", "email", reg.Email, "error", err.Error())
		if sendErr := ch.Send(protocol.Result{Success: false, Message: MsgInternalError}); sendErr != nil {
			return nil, sendErr
		}
		return nil, fmt.Errorf("%w: %v", common.ErrStore, err)
	}

	e.logger.Info(ctx, "user registered", "email", user.Email)
	if err := ch.Send(protocol.Result{Success: true, Message: MsgUserRegistered}); err != nil {
		return nil, err
	}
	return user, nil
}

func validateRegistration(reg protocol.RegisterData) error {
	if err := validation.Email(reg.Email); err != nil {
		return err
	}
	if err := validation.Password(reg.Password); err != nil {
		return err
	}
	return validation.PublicKey(reg.PublicKey)
}
