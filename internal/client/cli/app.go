// Package cli implements the interactive KeyGuard client.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"os"

	"github.com/dmitrijs2005/keyguard/internal/client/auth"
	"github.com/dmitrijs2005/keyguard/internal/client/config"
	"github.com/dmitrijs2005/keyguard/internal/client/keydevice"
	"github.com/dmitrijs2005/keyguard/internal/common"
	"github.com/dmitrijs2005/keyguard/internal/protocol"
)

type App struct {
	config   *config.Config
	conn     net.Conn
	svc      *auth.Service
	reader   *bufio.Reader
	out      io.Writer
	email    string
	loggedIn bool
}

// NewApp dials the server and wires the protocol channel, the file-backed
// hardware key and the auth service together.
func NewApp(c *config.Config) (*App, error) {
	conn, err := net.Dial("tcp", c.ServerAddr)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", c.ServerAddr, err)
	}

	out := os.Stdout
	ch := protocol.NewChannel(conn, c.RoundTimeout)
	device := keydevice.NewFileKey(c.KeyFile)
	prompt := func(msg string) { fmt.Fprintln(out, msg) }
	svc := auth.NewService(ch, device, c.DeviceWaitTimeout, prompt)

	return &App{
		config: c,
		conn:   conn,
		svc:    svc,
		reader: bufio.NewReader(os.Stdin),
		out:    out,
	}, nil
}

func (a *App) isLoggedIn() bool {
	return a.loggedIn
}

func (a *App) status() string {
	if a.loggedIn {
		return a.email
	}
	return "not logged in"
}

// Run starts the REPL and closes the connection when it returns.
func (a *App) Run(ctx context.Context) {
	defer a.Close(ctx)
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Fprintln(a.out, "KeyGuard CLI (type 'help' for commands)")
	runREPL(ctx, a, a.status, scanner)
}

func (a *App) Close(ctx context.Context) {
	_ = a.svc.Exit(ctx)
	_ = a.conn.Close()
}

// Register enrolls a new account, asking for email and password and
// generating a key pair on the hardware key.
func (a *App) Register(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.svc.Register(ctx, email, string(password)); err != nil {
		fmt.Fprintln(a.out, err.Error())
		return err
	}

	// A confirmed registration opens a session for the new account.
	a.email = email
	a.loggedIn = true
	fmt.Fprintln(a.out, "User registered")
	return nil
}

// Login runs the challenge-response authentication, including the hardware
// key signature when the account has 2FA enabled.
func (a *App) Login(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.svc.Authenticate(ctx, email, string(password)); err != nil {
		fmt.Fprintln(a.out, err.Error())
		return err
	}

	a.email = email
	a.loggedIn = true
	fmt.Fprintln(a.out, "Authentication success")
	return nil
}

// Reset runs the out-of-band password reset flow. The token arrives by mail;
// the user is only asked for it once the server has sent it.
func (a *App) Reset(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	readToken := func() (string, error) {
		return GetSimpleText(a.reader, "Enter the token from the email", a.out)
	}
	readNewPassword := func() (string, error) {
		pw, err := GetPassword("Enter new password", a.out)
		if err != nil {
			return "", err
		}
		defer common.WipeByteArray(pw)
		return string(pw), nil
	}

	if err := a.svc.Reset(ctx, email, readToken, readNewPassword); err != nil {
		fmt.Fprintln(a.out, err.Error())
		return err
	}

	// A completed reset proves key possession and token receipt, so the
	// server opens a session without a separate login.
	a.email = email
	a.loggedIn = true
	fmt.Fprintln(a.out, "Password updated")
	return nil
}

// Switch2FA toggles the second factor for the current session's account.
func (a *App) Switch2FA(ctx context.Context) error {
	enabled, err := a.svc.SwitchSecondFactor(ctx)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return err
	}
	if enabled {
		fmt.Fprintln(a.out, "2FA is now enabled")
	} else {
		fmt.Fprintln(a.out, "2FA is now disabled")
	}
	return nil
}

// Logout ends the session but keeps the connection for the next command.
func (a *App) Logout(ctx context.Context) error {
	if err := a.svc.Logout(ctx); err != nil {
		fmt.Fprintln(a.out, err.Error())
		return err
	}
	a.email = ""
	a.loggedIn = false
	fmt.Fprintln(a.out, "Logged out")
	return nil
}
