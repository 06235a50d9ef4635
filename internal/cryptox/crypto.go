// Package cryptox holds the cryptographic primitives of the authentication
// protocol: salted argon2id password hashing, challenge generation, keyed
// HMAC proofs and ECDSA P-256 signature handling for the hardware second
// factor. Protocol flows compose these; no protocol state lives here.
package cryptox

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/x509"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/keyguard/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	// SaltSize is the per-user random salt length in bytes.
	SaltSize = 16

	// ChallengeSize is the nonce length in bytes (128 bits).
	ChallengeSize = 16
)

// HashPassword derives a 32-byte verifier from password and salt using
// argon2id. The derivation is deterministic, so the client can compute the
// same value locally and prove knowledge of it without sending the password.
func HashPassword(password, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, 32)
}

// GenerateSalt returns a fresh random salt.
func GenerateSalt() []byte {
	return common.GenerateRandByteArray(SaltSize)
}

// GenerateChallenge returns a fresh single-use 128-bit nonce. Each
// authentication or reset attempt must draw its own.
func GenerateChallenge() []byte {
	return common.GenerateRandByteArray(ChallengeSize)
}

// ComputeHMAC returns HMAC-SHA256 of message keyed with key.
func ComputeHMAC(message, key []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(message)
	return mac.Sum(nil)
}

// EqualConstantTime compares two secret-derived values without leaking the
// position of the first differing byte through timing.
func EqualConstantTime(a, b []byte) bool {
	return hmac.Equal(a, b)
}

// GenerateKeyPair creates a new P-256 key pair, returning the private key
// and the PKIX DER encoding of the public half. The DER bytes are what gets
// enrolled on the server at registration.
func GenerateKeyPair() (*ecdsa.PrivateKey, []byte, error) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, nil, err
	}
	pub, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	if err != nil {
		return nil, nil, err
	}
	return priv, pub, nil
}

// SignChallenge produces an ASN.1 DER signature over SHA-256(challenge)
// with the given private key.
func SignChallenge(priv *ecdsa.PrivateKey, challenge []byte) ([]byte, error) {
	digest := sha256.Sum256(challenge)
	return ecdsa.SignASN1(rand.Reader, priv, digest[:])
}

// VerifyChallenge checks an ASN.1 DER signature over SHA-256(challenge)
// against a PKIX DER encoded P-256 public key. Any decode or verification
// failure yields a single generic error.
func VerifyChallenge(pubDER, challenge, signature []byte) error {
	key, err := x509.ParsePKIXPublicKey(pubDER)
	if err != nil {
		return fmt.Errorf("decoding public key: %w", err)
	}
	pub, ok := key.(*ecdsa.PublicKey)
	if !ok {
		return errors.New("enrolled key is not ECDSA")
	}
	digest := sha256.Sum256(challenge)
	if !ecdsa.VerifyASN1(pub, digest[:], signature) {
		return errors.New("signature verification failed")
	}
	return nil
}
