package keydevice

import (
	"context"
	"errors"
	"time"

	"github.com/sethvargo/go-retry"
)

// pollInterval is how often an absent device is re-probed.
const pollInterval = 2 * time.Second

// AwaitSign asks the device to sign the challenge, retrying while the
// device is absent. Each miss invokes prompt so the user knows to insert
// the key. The wait is bounded by timeout and by ctx; it never turns into
// an unconditional loop.
func AwaitSign(ctx context.Context, d Device, challenge []byte, prompt func(string), timeout time.Duration) ([]byte, error) {
	var signature []byte

	b := retry.WithMaxDuration(timeout, retry.NewConstant(pollInterval))
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		sig, err := d.Sign(ctx, challenge)
		if err != nil {
			if errors.Is(err, ErrNotPresent) {
				prompt("No hardware key detected: please insert one...")
				return retry.RetryableError(err)
			}
			return err
		}
		signature = sig
		return nil
	})
	if err != nil {
		return nil, err
	}
	return signature, nil
}

// AwaitGenerate creates an enrollment key pair, retrying like AwaitSign
// while the device is absent.
func AwaitGenerate(ctx context.Context, d Device, prompt func(string), timeout time.Duration) ([]byte, error) {
	var public []byte

	b := retry.WithMaxDuration(timeout, retry.NewConstant(pollInterval))
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		pub, err := d.Generate(ctx)
		if err != nil {
			if errors.Is(err, ErrNotPresent) {
				prompt("No hardware key detected: please insert one...")
				return retry.RetryableError(err)
			}
			return err
		}
		public = pub
		return nil
	})
	if err != nil {
		return nil, err
	}
	return public, nil
}
