// Package protocol defines the typed messages exchanged between client and
// server and the framed channel that carries them. Every client-initiated
// exchange starts with a Command; after a successful authentication the
// client drives the session with Actions.
package protocol

// Command selects the top-level flow for one exchange.
type Command string

const (
	CmdAuthenticate Command = "authenticate"
	CmdRegister     Command = "register"
	CmdReset        Command = "reset"
	CmdExit         Command = "exit"
)

// Action is available only inside an authenticated session.
type Action string

const (
	ActionSwitch2FA Action = "switch_2fa"
	ActionLogout    Action = "logout"
)

// Message is implemented by every payload that can cross the channel.
// Kind tags the payload on the wire so that a receiver can reject a
// message of an unexpected type before looking at its content.
type Message interface {
	Kind() string
}

// CommandData opens an exchange.
type CommandData struct {
	Command Command `json:"command"`
}

// ActionData drives the authenticated sub-loop.
type ActionData struct {
	Action Action `json:"action"`
}

// RegisterData is the registration payload: identity, initial password and
// the public half of the key pair freshly generated on the hardware key.
type RegisterData struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	PublicKey []byte `json:"public_key"`
}

// EmailData identifies the account an authentication or reset targets.
type EmailData struct {
	Email string `json:"email"`
}

// ChallengeData carries the per-attempt nonce and, for the password check,
// the salt the client needs to recompute the stored hash.
type ChallengeData struct {
	Salt      []byte `json:"salt"`
	Challenge []byte `json:"challenge"`
}

// HMACData is the client's proof of password knowledge:
// HMAC-SHA256(challenge, hash(password, salt)).
type HMACData struct {
	HMAC []byte `json:"hmac"`
}

// SignatureData is the hardware key's signature over the issued challenge.
type SignatureData struct {
	Signature []byte `json:"signature"`
}

// TextData carries an opaque string: the reset token typed back by the
// user, or the new password at the end of a reset.
type TextData struct {
	Text string `json:"text"`
}

// Result is the plain server response.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// AuthResult is the server response to the password check; TwoFactor tells
// the client whether a second-factor round follows.
type AuthResult struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	TwoFactor bool   `json:"two_factor"`
}

// SwitchResult reports the outcome of a second-factor toggle and, on
// success, the new state.
type SwitchResult struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	TwoFactor bool   `json:"two_factor"`
}

func (CommandData) Kind() string   { return "command" }
func (ActionData) Kind() string    { return "action" }
func (RegisterData) Kind() string  { return "register" }
func (EmailData) Kind() string     { return "email" }
func (ChallengeData) Kind() string { return "challenge" }
func (HMACData) Kind() string      { return "hmac" }
func (SignatureData) Kind() string { return "signature" }
func (TextData) Kind() string      { return "text" }
func (Result) Kind() string        { return "result" }
func (AuthResult) Kind() string    { return "auth_result" }
func (SwitchResult) Kind() string  { return "switch_result" }
