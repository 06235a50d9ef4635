// Package auth implements the client half of the authentication protocol.
// Each method mirrors one server flow round for round: the server dictates
// the message order and the client follows it.
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/keyguard/internal/client/keydevice"
	"github.com/dmitrijs2005/keyguard/internal/cryptox"
	"github.com/dmitrijs2005/keyguard/internal/protocol"
	"github.com/dmitrijs2005/keyguard/internal/validation"
)

// Service drives the client side of one connection. It owns no terminal
// I/O: prompts for the hardware key go through the prompt callback and
// token/password input is supplied by the caller.
type Service struct {
	ch            *protocol.Channel
	device        keydevice.Device
	deviceTimeout time.Duration
	prompt        func(string)
}

func NewService(ch *protocol.Channel, device keydevice.Device, deviceTimeout time.Duration, prompt func(string)) *Service {
	if prompt == nil {
		prompt = func(string) {}
	}
	return &Service{ch: ch, device: device, deviceTimeout: deviceTimeout, prompt: prompt}
}

// Register enrolls a new account: it generates a fresh key pair on the
// hardware key and sends the email, password and public key to the server.
func (s *Service) Register(ctx context.Context, email, password string) error {
	if err := validation.Email(email); err != nil {
		return err
	}
	if err := validation.Password(password); err != nil {
		return err
	}

	publicKey, err := keydevice.AwaitGenerate(ctx, s.device, s.prompt, s.deviceTimeout)
	if err != nil {
		return fmt.Errorf("enrolling hardware key: %w", err)
	}

	if err := s.ch.Send(protocol.CommandData{Command: protocol.CmdRegister}); err != nil {
		return err
	}
	if err := s.ch.Send(protocol.RegisterData{Email: email, Password: password, PublicKey: publicKey}); err != nil {
		return err
	}

	res, err := protocol.Receive[protocol.Result](s.ch)
	if err != nil {
		return err
	}
	if !res.Success {
		return fmt.Errorf("%s", res.Message)
	}
	return nil
}

// Authenticate proves password knowledge via the challenge-response HMAC
// and, when the server asks for it, the hardware-key signature. The
// password itself never leaves the process.
func (s *Service) Authenticate(ctx context.Context, email, password string) error {
	if err := s.ch.Send(protocol.CommandData{Command: protocol.CmdAuthenticate}); err != nil {
		return err
	}
	if err := s.ch.Send(protocol.EmailData{Email: email}); err != nil {
		return err
	}

	challenge, err := protocol.Receive[protocol.ChallengeData](s.ch)
	if err != nil {
		return err
	}

	clientHash := cryptox.HashPassword([]byte(password), challenge.Salt)
	proof := cryptox.ComputeHMAC(challenge.Challenge, clientHash)
	if err := s.ch.Send(protocol.HMACData{HMAC: proof}); err != nil {
		return err
	}

	res, err := protocol.Receive[protocol.AuthResult](s.ch)
	if err != nil {
		return err
	}
	if !res.Success {
		return fmt.Errorf("%s", res.Message)
	}
	if !res.TwoFactor {
		return nil
	}

	// Second factor requested: sign the same challenge.
	if err := s.signChallenge(ctx, challenge.Challenge); err != nil {
		return err
	}

	final, err := protocol.Receive[protocol.Result](s.ch)
	if err != nil {
		return err
	}
	if !final.Success {
		return fmt.Errorf("%s", final.Message)
	}
	return nil
}

// Reset rotates the account password. readToken and readNewPassword are
// called when the flow reaches the respective round, so the user is only
// asked for input the server is ready to accept.
func (s *Service) Reset(ctx context.Context, email string, readToken, readNewPassword func() (string, error)) error {
	if err := s.ch.Send(protocol.CommandData{Command: protocol.CmdReset}); err != nil {
		return err
	}
	if err := s.ch.Send(protocol.EmailData{Email: email}); err != nil {
		return err
	}

	res, err := protocol.Receive[protocol.Result](s.ch)
	if err != nil {
		return err
	}
	if !res.Success {
		return fmt.Errorf("%s", res.Message)
	}

	challenge, err := protocol.Receive[protocol.ChallengeData](s.ch)
	if err != nil {
		return err
	}
	if err := s.signChallenge(ctx, challenge.Challenge); err != nil {
		return err
	}

	sent, err := protocol.Receive[protocol.Result](s.ch)
	if err != nil {
		return err
	}
	if !sent.Success {
		return fmt.Errorf("%s", sent.Message)
	}

	token, err := readToken()
	if err != nil {
		return err
	}
	if err := s.ch.Send(protocol.TextData{Text: token}); err != nil {
		return err
	}
	accepted, err := protocol.Receive[protocol.Result](s.ch)
	if err != nil {
		return err
	}
	if !accepted.Success {
		return fmt.Errorf("%s", accepted.Message)
	}

	newPassword, err := readNewPassword()
	if err != nil {
		return err
	}
	if err := validation.Password(newPassword); err != nil {
		return err
	}
	if err := s.ch.Send(protocol.TextData{Text: newPassword}); err != nil {
		return err
	}

	final, err := protocol.Receive[protocol.Result](s.ch)
	if err != nil {
		return err
	}
	if !final.Success {
		return fmt.Errorf("%s", final.Message)
	}
	return nil
}

// SwitchSecondFactor toggles 2FA within an authenticated session and
// returns the new state.
func (s *Service) SwitchSecondFactor(ctx context.Context) (bool, error) {
	if err := s.ch.Send(protocol.ActionData{Action: protocol.ActionSwitch2FA}); err != nil {
		return false, err
	}

	res, err := protocol.Receive[protocol.SwitchResult](s.ch)
	if err != nil {
		return false, err
	}
	if !res.Success {
		return res.TwoFactor, fmt.Errorf("%s", res.Message)
	}
	return res.TwoFactor, nil
}

// Logout ends the authenticated session; the connection stays open for the
// next command.
func (s *Service) Logout(ctx context.Context) error {
	return s.ch.Send(protocol.ActionData{Action: protocol.ActionLogout})
}

// Exit tells the server to drop the connection.
func (s *Service) Exit(ctx context.Context) error {
	return s.ch.Send(protocol.CommandData{Command: protocol.CmdExit})
}

func (s *Service) signChallenge(ctx context.Context, challenge []byte) error {
	signature, err := keydevice.AwaitSign(ctx, s.device, challenge, s.prompt, s.deviceTimeout)
	if err != nil {
		return fmt.Errorf("signing challenge: %w", err)
	}
	return s.ch.Send(protocol.SignatureData{Signature: signature})
}
