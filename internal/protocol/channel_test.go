package protocol

import (
	"net"
	"testing"
	"time"

	"github.com/dmitrijs2005/keyguard/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newChannelPair(t *testing.T) (*Channel, *Channel) {
	t.Helper()
	a, b := net.Pipe()
	t.Cleanup(func() {
		a.Close()
		b.Close()
	})
	return NewChannel(a, 0), NewChannel(b, 0)
}

func TestChannel_RoundTrip(t *testing.T) {
	client, server := newChannelPair(t)

	go func() {
		_ = client.Send(RegisterData{
			Email:     "alice@example.com",
			Password:  "P@ssw0rd1",
			PublicKey: []byte{0x30, 0x59},
		})
	}()

	got, err := Receive[RegisterData](server)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", got.Email)
	assert.Equal(t, "P@ssw0rd1", got.Password)
	assert.Equal(t, []byte{0x30, 0x59}, got.PublicKey)
}

func TestChannel_PreservesOrder(t *testing.T) {
	client, server := newChannelPair(t)

	go func() {
		_ = client.Send(CommandData{Command: CmdAuthenticate})
		_ = client.Send(EmailData{Email: "alice@example.com"})
	}()

	cmd, err := Receive[CommandData](server)
	require.NoError(t, err)
	assert.Equal(t, CmdAuthenticate, cmd.Command)

	email, err := Receive[EmailData](server)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", email.Email)
}

func TestChannel_KindMismatchIsChannelError(t *testing.T) {
	client, server := newChannelPair(t)

	go func() {
		_ = client.Send(EmailData{Email: "alice@example.com"})
	}()

	_, err := Receive[HMACData](server)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrChannel)
}

func TestChannel_ClosedPeer(t *testing.T) {
	client, server := newChannelPair(t)
	require.NoError(t, client.Close())

	_, err := Receive[CommandData](server)
	assert.ErrorIs(t, err, common.ErrChannel)
}

func TestChannel_ReceiveTimeout(t *testing.T) {
	a, b := net.Pipe()
	t.Cleanup(func() {
		a.Close()
		b.Close()
	})
	server := NewChannel(b, 20*time.Millisecond)

	start := time.Now()
	_, err := Receive[CommandData](server)
	assert.ErrorIs(t, err, common.ErrChannel)
	assert.Less(t, time.Since(start), time.Second)
}

func TestChannel_EmptyPayloadMessages(t *testing.T) {
	client, server := newChannelPair(t)

	go func() {
		_ = client.Send(ActionData{Action: ActionLogout})
	}()

	got, err := Receive[ActionData](server)
	require.NoError(t, err)
	assert.Equal(t, ActionLogout, got.Action)
}
