// Package keydevice abstracts the hardware security key on the client. The
// device holds the second-factor private key: it can mint a fresh key pair
// at enrollment and sign server challenges afterwards. Physical devices may
// be absent or waiting for a touch, so callers go through the Await helpers
// which retry with feedback instead of spinning forever.
package keydevice

import (
	"context"
	"errors"
)

// ErrNotPresent reports that no key device is currently reachable. The
// condition is transient: Await helpers retry after prompting the user.
var ErrNotPresent = errors.New("hardware key not present")

// Device is the signing capability of a hardware key.
type Device interface {
	// Generate creates a new key pair on the device and returns the PKIX
	// DER encoding of the public key for enrollment. Any previous key on
	// the device is replaced.
	Generate(ctx context.Context) ([]byte, error)

	// Sign produces a signature over SHA-256 of the challenge with the
	// device's private key. It returns ErrNotPresent when the device is
	// not reachable.
	Sign(ctx context.Context, challenge []byte) ([]byte, error)
}
