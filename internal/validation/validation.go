// Package validation checks the shape of user-supplied identifiers before
// they reach storage or crypto code. Malformed input is rejected with
// common.ErrValidation and never touches the user store.
package validation

import (
	"fmt"
	"regexp"

	"github.com/dmitrijs2005/keyguard/internal/common"
)

var (
	emailRule = regexp.MustCompile(`^[a-zA-Z0-9_+&*-]+(\.[a-zA-Z0-9_+&*-]+)*@([a-zA-Z0-9_+&*-]+\.)+[a-zA-Z]{2,7}$`)
	tokenRule = regexp.MustCompile(`^[0-9a-fA-F]{8}-([0-9a-fA-F]{4}-){3}[0-9a-fA-F]{12}$`)
)

const (
	PasswordMinLen = 8
	PasswordMaxLen = 64
)

// Email verifies that s looks like a well-formed address.
func Email(s string) error {
	if !emailRule.MatchString(s) {
		return fmt.Errorf("%w: invalid email", common.ErrValidation)
	}
	return nil
}

// Password enforces the password policy. The policy is deliberately
// length-only: composition rules push users toward predictable patterns.
func Password(s string) error {
	if len(s) < PasswordMinLen || len(s) > PasswordMaxLen {
		return fmt.Errorf("%w: password must be %d-%d characters", common.ErrValidation, PasswordMinLen, PasswordMaxLen)
	}
	return nil
}

// ResetToken verifies that s has the shape of a hyphenated UUID, the form
// in which reset tokens are issued.
func ResetToken(s string) error {
	if !tokenRule.MatchString(s) {
		return fmt.Errorf("%w: invalid token", common.ErrValidation)
	}
	return nil
}

// PublicKey performs a cheap shape check on an enrollment public key before
// the expensive DER parse. An empty key can never verify anything.
func PublicKey(b []byte) error {
	if len(b) == 0 {
		return fmt.Errorf("%w: empty public key", common.ErrValidation)
	}
	return nil
}
