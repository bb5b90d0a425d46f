package client

import (
	"errors"
)

// Kind classifies the ways a weather lookup can fail.
type Kind string

const (
	KindInvalidConfiguration Kind = "invalid_configuration"
	KindInvalidArgument      Kind = "invalid_argument"
	KindUnreachable          Kind = "unreachable"
	KindAPIRejected          Kind = "api_rejected"
	KindMalformedResponse    Kind = "malformed_response"
)

func (k Kind) String() string {
	return string(k)
}

// Error is returned by every failing client operation.
type Error struct {
	Kind    Kind
	Message string
	// StatusCode is set for KindAPIRejected.
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf reports the Kind of err, or "" when err did not come from this package.
func KindOf(err error) Kind {
	var clientErr *Error
	if errors.As(err, &clientErr) {
		return clientErr.Kind
	}
	return ""
}

// IsKind helps callers differentiate failures.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
