package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Reset(ctx context.Context) error
	Switch2FA(ctx context.Context) error
	Logout(ctx context.Context) error
}

// runREPL starts a simple read-eval-print loop for the KeyGuard CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Commands while not logged in: register, login, reset, exit.
// Commands while logged in: switch2fa, logout, exit.
//
// The dispatch enforces the same split as the help text: the server side
// of the session expects commands outside a session and actions inside
// one, so an out-of-state entry must never reach the wire.
//
// Any errors returned by command handlers are ignored here; handlers print
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("kg> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: switch2fa, logout, exit")
			} else {
				printlnFn("Available commands: register, login, reset, exit")
			}

		case "register":
			if a.isLoggedIn() {
				printlnFn("Unknown command: " + cmd)
				continue
			}
			_ = a.Register(ctx)

		case "login":
			if a.isLoggedIn() {
				printlnFn("Unknown command: " + cmd)
				continue
			}
			_ = a.Login(ctx)

		case "reset":
			if a.isLoggedIn() {
				printlnFn("Unknown command: " + cmd)
				continue
			}
			_ = a.Reset(ctx)

		case "switch2fa":
			if !a.isLoggedIn() {
				printlnFn("Unknown command: " + cmd)
				continue
			}
			_ = a.Switch2FA(ctx)

		case "logout":
			if !a.isLoggedIn() {
				printlnFn("Unknown command: " + cmd)
				continue
			}
			_ = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command: " + cmd)
		}
	}
}
