package sonic

import (
	"time"

	"github.com/hyperjump/wyvern/internal/errs"
)

// ResilientConnection retries a send across a fixed schedule of backoff
// delays, redialing on every attempt. It's for callers that would rather
// retry a flaky remote segment holder than fail a query outright.
type ResilientConnection[Req, Resp any] struct {
	addr    string
	timeout time.Duration
	retry   []time.Duration
}

// CreateResilientWithTimeout builds a ResilientConnection against addr.
// retry lists the backoff delay before each retry attempt in order; its
// length is the retry budget (zero retries if empty).
func CreateResilientWithTimeout[Req, Resp any](addr string, timeout time.Duration, retry []time.Duration) (*ResilientConnection[Req, Resp], error) {
	return &ResilientConnection[Req, Resp]{addr: addr, timeout: timeout, retry: retry}, nil
}

// SendWithTimeout dials, sends req, and retries on failure following the
// configured backoff schedule. The last error is returned if every attempt
// fails.
func (rc *ResilientConnection[Req, Resp]) SendWithTimeout(req Req, timeout time.Duration) (Resp, error) {
	var zero Resp
	var lastErr error

	attempts := append([]time.Duration{0}, rc.retry...)
	for _, delay := range attempts {
		if delay > 0 {
			time.Sleep(delay)
		}

		conn, err := CreateWithTimeout[Req, Resp](rc.addr, rc.timeout)
		if err != nil {
			lastErr = err
			continue
		}
		resp, err := conn.SendWithTimeout(req, timeout)
		_ = conn.Close()
		if err == nil {
			return resp, nil
		}
		lastErr = err

		// A malformed request or a remote-side application error will
		// never succeed on retry; only connection and timeout failures
		// are worth another attempt.
		if !errs.Is(err, errs.Timeout) && !errs.Is(err, errs.IndexIO) {
			return zero, err
		}
	}

	return zero, errs.Wrap(lastErr, errs.Timeout, "sonic send failed after %d attempts", len(attempts))
}
