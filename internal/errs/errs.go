// Package errs defines the core's error taxonomy: InvalidQuery, InvalidOptic,
// IndexIO, SegmentCorrupt, Timeout, and DocMissing.
package errs

import "fmt"

// Kind categorizes a core error so callers can branch on it without parsing
// messages.
type Kind string

const (
	// InvalidQuery marks a malformed query string: bad UTF-8, an unclosed
	// phrase, or an unknown field operator. No partial results are returned.
	InvalidQuery Kind = "invalid_query"
	// InvalidOptic marks an optic program that failed to parse or that
	// references an unknown location. The underlying query is not executed.
	InvalidOptic Kind = "invalid_optic"
	// IndexIO marks a disk error on segment read or write.
	IndexIO Kind = "index_io"
	// SegmentCorrupt marks a checksum or format mismatch on segment open.
	// Fatal for that segment only; the index opens in degraded mode.
	SegmentCorrupt Kind = "segment_corrupt"
	// Timeout marks an RPC-layer timeout.
	Timeout Kind = "timeout"
	// DocMissing marks a WebsitePointer referring to a deleted or merged-out
	// document. Callers filter these silently from results.
	DocMissing Kind = "doc_missing"
)

// Error wraps a Kind with a message and an optional cause, preserving the
// chain for errors.Is/errors.As.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

// New builds an Error with no cause.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds an Error that chains cause.
func Wrap(cause error, kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is reports whether err carries the given Kind anywhere in its chain.
func Is(err error, kind Kind) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			if e.Kind == kind {
				return true
			}
			err = e.Cause
			continue
		}
		break
	}
	return false
}
