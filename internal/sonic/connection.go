package sonic

import (
	"bufio"
	"fmt"
	"net"
	"time"

	"github.com/hyperjump/wyvern/internal/errs"
)

// Connection is a single dialed link to a sonic Server. It is not
// goroutine-safe: callers issuing concurrent requests pool Connections
// rather than sharing one.
type Connection[Req, Resp any] struct {
	conn net.Conn
	r    *bufio.Reader
}

// Create dials addr with no deadline on individual sends.
func Create[Req, Resp any](addr string) (*Connection[Req, Resp], error) {
	return CreateWithTimeout[Req, Resp](addr, 0)
}

// CreateWithTimeout dials addr with the given connect timeout. A zero
// timeout means no deadline.
func CreateWithTimeout[Req, Resp any](addr string, timeout time.Duration) (*Connection[Req, Resp], error) {
	var conn net.Conn
	var err error
	if timeout > 0 {
		conn, err = net.DialTimeout("tcp", addr, timeout)
	} else {
		conn, err = net.Dial("tcp", addr)
	}
	if err != nil {
		return nil, errs.Wrap(err, errs.Timeout, "dial sonic server at %s", addr)
	}
	return &Connection[Req, Resp]{conn: conn, r: bufio.NewReader(conn)}, nil
}

// Close closes the underlying socket.
func (c *Connection[Req, Resp]) Close() error {
	return c.conn.Close()
}

// Send issues req and blocks for the response with no deadline.
func (c *Connection[Req, Resp]) Send(req Req) (Resp, error) {
	return c.SendWithTimeout(req, 0)
}

// SendWithTimeout issues req and blocks for the response, failing with a
// Timeout error if none arrives within timeout. A zero timeout waits
// indefinitely.
func (c *Connection[Req, Resp]) SendWithTimeout(req Req, timeout time.Duration) (Resp, error) {
	var zero Resp

	if timeout > 0 {
		deadline := time.Now().Add(timeout)
		if err := c.conn.SetDeadline(deadline); err != nil {
			return zero, errs.Wrap(err, errs.IndexIO, "set sonic deadline")
		}
		defer c.conn.SetDeadline(time.Time{})
	}

	if err := writeFrame(c.conn, envelope[Req]{Body: req}); err != nil {
		return zero, err
	}

	var respEnv envelope[Resp]
	if err := readFrame(c.r, &respEnv); err != nil {
		return zero, err
	}
	if respEnv.Err != "" {
		// Not an *errs.Error: ResilientConnection checks errs.Is to decide
		// what to retry, and a remote handler's own error must not match.
		return zero, fmt.Errorf("remote sonic handler: %s", respEnv.Err)
	}
	return respEnv.Body, nil
}
