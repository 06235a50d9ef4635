package users

import "time"

// User is the identity record held by the server. PasswordHash is derived
// from the password and the per-user Salt; the raw password is never stored.
// PublicKey is the second-factor verification key captured at enrollment and
// is never replaced by anything the client sends later.
type User struct {
	Email        string
	Salt         []byte
	PasswordHash []byte
	TwoFactor    bool
	PublicKey    []byte
	CreatedAt    time.Time
}

// Clone returns a deep copy so a flow can stage changes without exposing a
// half-written record to concurrent readers.
func (u *User) Clone() *User {
	c := *u
	c.Salt = append([]byte(nil), u.Salt...)
	c.PasswordHash = append([]byte(nil), u.PasswordHash...)
	c.PublicKey = append([]byte(nil), u.PublicKey...)
	return &c
}
