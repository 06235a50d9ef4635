package protocol

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/dmitrijs2005/keyguard/internal/common"
)

// maxFrameSize bounds a single message on the wire. The largest legitimate
// payload is a registration with a DER public key, well under 4 KiB.
const maxFrameSize = 64 * 1024

// Channel is an ordered, blocking carrier of typed messages over a single
// connection. Every send and receive is bounded by the round timeout so a
// stalled peer cannot hold a worker forever. A Channel is owned by exactly
// one connection worker and is not safe for concurrent use.
type Channel struct {
	conn    net.Conn
	timeout time.Duration
}

// NewChannel wraps conn. timeout bounds each send/receive round; zero
// disables deadlines (used by tests driving both ends of a net.Pipe).
func NewChannel(conn net.Conn, timeout time.Duration) *Channel {
	return &Channel{conn: conn, timeout: timeout}
}

// Close closes the underlying connection.
func (c *Channel) Close() error {
	return c.conn.Close()
}

type envelope struct {
	Kind    string          `json:"kind"`
	Payload json.RawMessage `json:"payload"`
}

// Send writes one message as a length-prefixed JSON frame.
func (c *Channel) Send(msg Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("%w: encoding %s: %v", common.ErrChannel, msg.Kind(), err)
	}
	frame, err := json.Marshal(envelope{Kind: msg.Kind(), Payload: payload})
	if err != nil {
		return fmt.Errorf("%w: encoding envelope: %v", common.ErrChannel, err)
	}
	if len(frame) > maxFrameSize {
		return fmt.Errorf("%w: frame too large (%d bytes)", common.ErrChannel, len(frame))
	}

	if c.timeout > 0 {
		if err := c.conn.SetWriteDeadline(time.Now().Add(c.timeout)); err != nil {
			return fmt.Errorf("%w: %v", common.ErrChannel, err)
		}
	}

	var length [4]byte
	binary.BigEndian.PutUint32(length[:], uint32(len(frame)))
	if _, err := c.conn.Write(length[:]); err != nil {
		return fmt.Errorf("%w: %v", common.ErrChannel, err)
	}
	if _, err := c.conn.Write(frame); err != nil {
		return fmt.Errorf("%w: %v", common.ErrChannel, err)
	}
	return nil
}

// readFrame reads one length-prefixed frame and decodes the envelope.
func (c *Channel) readFrame() (*envelope, error) {
	if c.timeout > 0 {
		if err := c.conn.SetReadDeadline(time.Now().Add(c.timeout)); err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrChannel, err)
		}
	}

	var length [4]byte
	if _, err := io.ReadFull(c.conn, length[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: connection closed", common.ErrChannel)
		}
		return nil, fmt.Errorf("%w: %v", common.ErrChannel, err)
	}
	size := binary.BigEndian.Uint32(length[:])
	if size == 0 || size > maxFrameSize {
		return nil, fmt.Errorf("%w: invalid frame size %d", common.ErrChannel, size)
	}

	frame := make([]byte, size)
	if _, err := io.ReadFull(c.conn, frame); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrChannel, err)
	}

	env := &envelope{}
	if err := json.Unmarshal(frame, env); err != nil {
		return nil, fmt.Errorf("%w: malformed frame: %v", common.ErrChannel, err)
	}
	return env, nil
}

// Receive reads exactly one message of type T. A message of any other kind
// is a protocol error: flows proceed in a fixed order and a client must not
// be able to skip a step.
func Receive[T Message](c *Channel) (T, error) {
	var msg T

	env, err := c.readFrame()
	if err != nil {
		return msg, err
	}
	if env.Kind != msg.Kind() {
		return msg, fmt.Errorf("%w: expected %q, got %q", common.ErrChannel, msg.Kind(), env.Kind)
	}
	if err := json.Unmarshal(env.Payload, &msg); err != nil {
		return msg, fmt.Errorf("%w: malformed %s payload: %v", common.ErrChannel, env.Kind, err)
	}
	return msg, nil
}
