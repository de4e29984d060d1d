// Package sonic implements the length-prefixed RPC transport used to
// distribute query and indexing requests between wyvern processes: a
// coordinator dispatching to remote segment holders, or an indexer feeding
// a running search node. Requests and responses are gob-encoded values
// framed behind a 4-byte big-endian length prefix.
package sonic

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"io"
	"net"

	"github.com/hyperjump/wyvern/internal/errs"
)

// maxFrameSize bounds a single frame's payload to guard against a
// corrupt or hostile length prefix driving an unbounded allocation.
const maxFrameSize = 64 << 20 // 64MiB

// ioKind classifies err as Timeout when it's a net timeout, IndexIO
// otherwise, so callers can branch on a deadline expiring mid-RPC.
func ioKind(err error) errs.Kind {
	if ne, ok := err.(net.Error); ok && ne.Timeout() {
		return errs.Timeout
	}
	return errs.IndexIO
}

// writeFrame gob-encodes v and writes it to w as a length-prefixed frame.
func writeFrame(w io.Writer, v any) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return errs.Wrap(err, errs.IndexIO, "encode frame")
	}

	var lenPrefix [4]byte
	binary.BigEndian.PutUint32(lenPrefix[:], uint32(buf.Len()))
	if _, err := w.Write(lenPrefix[:]); err != nil {
		return errs.Wrap(err, ioKind(err), "write frame length")
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return errs.Wrap(err, ioKind(err), "write frame body")
	}
	return nil
}

// readFrame reads one length-prefixed frame from r and gob-decodes it into v.
func readFrame(r *bufio.Reader, v any) error {
	var lenPrefix [4]byte
	if _, err := io.ReadFull(r, lenPrefix[:]); err != nil {
		return errs.Wrap(err, ioKind(err), "read frame length")
	}
	n := binary.BigEndian.Uint32(lenPrefix[:])
	if n > maxFrameSize {
		return errs.New(errs.IndexIO, "frame of %d bytes exceeds %d byte limit", n, maxFrameSize)
	}

	body := make([]byte, n)
	if _, err := io.ReadFull(r, body); err != nil {
		return errs.Wrap(err, ioKind(err), "read frame body")
	}
	if err := gob.NewDecoder(bytes.NewReader(body)).Decode(v); err != nil {
		return errs.Wrap(err, errs.IndexIO, "decode frame")
	}
	return nil
}
