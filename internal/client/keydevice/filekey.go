package keydevice

import (
	"context"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"

	"github.com/dmitrijs2005/keyguard/internal/cryptox"
)

const pemBlockType = "EC PRIVATE KEY"

// FileKey is a software stand-in for a PIV-style hardware key. The private
// key lives in a PEM file; a missing file plays the role of an unplugged
// device, which exercises the same retry path real hardware would.
type FileKey struct {
	path string
}

func NewFileKey(path string) *FileKey {
	return &FileKey{path: path}
}

func (k *FileKey) Generate(ctx context.Context) ([]byte, error) {
	priv, pub, err := cryptox.GenerateKeyPair()
	if err != nil {
		return nil, err
	}

	der, err := x509.MarshalECPrivateKey(priv)
	if err != nil {
		return nil, err
	}
	block := pem.EncodeToMemory(&pem.Block{Type: pemBlockType, Bytes: der})

	if err := os.WriteFile(k.path, block, 0o600); err != nil {
		return nil, fmt.Errorf("storing key: %w", err)
	}
	return pub, nil
}

func (k *FileKey) Sign(ctx context.Context, challenge []byte) ([]byte, error) {
	raw, err := os.ReadFile(k.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotPresent
		}
		return nil, fmt.Errorf("reading key: %w", err)
	}

	block, _ := pem.Decode(raw)
	if block == nil || block.Type != pemBlockType {
		return nil, fmt.Errorf("key file %s is not a %s PEM", k.path, pemBlockType)
	}

	priv, err := x509.ParseECPrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parsing key: %w", err)
	}

	return cryptox.SignChallenge(priv, challenge)
}
