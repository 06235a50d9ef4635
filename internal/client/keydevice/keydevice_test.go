package keydevice

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/keyguard/internal/cryptox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileKey_GenerateAndSign(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key.pem")
	key := NewFileKey(path)
	ctx := context.Background()

	pub, err := key.Generate(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, pub)

	challenge := cryptox.GenerateChallenge()
	sig, err := key.Sign(ctx, challenge)
	require.NoError(t, err)

	assert.NoError(t, cryptox.VerifyChallenge(pub, challenge, sig))
}

func TestFileKey_GenerateReplacesKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key.pem")
	key := NewFileKey(path)
	ctx := context.Background()

	oldPub, err := key.Generate(ctx)
	require.NoError(t, err)
	newPub, err := key.Generate(ctx)
	require.NoError(t, err)
	require.NotEqual(t, oldPub, newPub)

	challenge := cryptox.GenerateChallenge()
	sig, err := key.Sign(ctx, challenge)
	require.NoError(t, err)

	assert.Error(t, cryptox.VerifyChallenge(oldPub, challenge, sig))
	assert.NoError(t, cryptox.VerifyChallenge(newPub, challenge, sig))
}

func TestFileKey_SignMissingFile(t *testing.T) {
	key := NewFileKey(filepath.Join(t.TempDir(), "absent.pem"))

	_, err := key.Sign(context.Background(), cryptox.GenerateChallenge())
	assert.ErrorIs(t, err, ErrNotPresent)
}

// flakyDevice is absent for the first misses calls, then delegates.
type flakyDevice struct {
	inner  Device
	misses int
}

func (d *flakyDevice) Generate(ctx context.Context) ([]byte, error) {
	if d.misses > 0 {
		d.misses--
		return nil, ErrNotPresent
	}
	return d.inner.Generate(ctx)
}

func (d *flakyDevice) Sign(ctx context.Context, challenge []byte) ([]byte, error) {
	if d.misses > 0 {
		d.misses--
		return nil, ErrNotPresent
	}
	return d.inner.Sign(ctx, challenge)
}

func TestAwaitSign_RetriesUntilPresent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key.pem")
	inner := NewFileKey(path)
	ctx := context.Background()

	pub, err := inner.Generate(ctx)
	require.NoError(t, err)

	dev := &flakyDevice{inner: inner, misses: 2}
	var prompts int

	challenge := cryptox.GenerateChallenge()
	sig, err := AwaitSign(ctx, dev, challenge, func(string) { prompts++ }, 30*time.Second)
	require.NoError(t, err)

	assert.NoError(t, cryptox.VerifyChallenge(pub, challenge, sig))
	assert.Equal(t, 2, prompts)
}

func TestAwaitSign_GivesUpOnTimeout(t *testing.T) {
	dev := NewFileKey(filepath.Join(t.TempDir(), "absent.pem"))

	start := time.Now()
	_, err := AwaitSign(context.Background(), dev, cryptox.GenerateChallenge(), func(string) {}, 10*time.Millisecond)
	require.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestAwaitSign_NonRetryableError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key.pem")
	require.NoError(t, writeGarbage(path))

	_, err := AwaitSign(context.Background(), NewFileKey(path), cryptox.GenerateChallenge(), func(string) {
		t.Fatal("must not prompt on a non-transient error")
	}, time.Second)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotPresent))
}

func TestAwaitGenerate_RetriesUntilPresent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key.pem")
	dev := &flakyDevice{inner: NewFileKey(path), misses: 1}
	ctx := context.Background()

	var prompts int
	pub, err := AwaitGenerate(ctx, dev, func(string) { prompts++ }, 30*time.Second)
	require.NoError(t, err)
	assert.NotEmpty(t, pub)
	assert.Equal(t, 1, prompts)
}

func writeGarbage(path string) error {
	return os.WriteFile(path, []byte("not a pem"), 0o600)
}
