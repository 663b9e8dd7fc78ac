package service

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a service failure. The HTTP layer maps it to the
// envelope code.
type Kind int

const (
	KindUpstream Kind = iota
	KindValidation
	KindNotFound
	KindExpired
	KindUnauthorized
	KindConflict
	KindUnimplemented
	KindRateLimited
)

// Code returns the envelope code for k.
func (k Kind) Code() int {
	switch k {
	case KindValidation, KindConflict, KindUnimplemented:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindExpired:
		return http.StatusGone
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindExpired:
		return "expired"
	case KindUnauthorized:
		return "unauthorized"
	case KindConflict:
		return "conflict"
	case KindUnimplemented:
		return "unimplemented"
	case KindRateLimited:
		return "rate_limited"
	default:
		return "upstream"
	}
}

// Error is returned by every service operation. Msg is safe to show to
// clients; Err carries the underlying cause for logs.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf returns the Kind of err, or KindUpstream for errors that did not
// come from this package.
func KindOf(err error) Kind {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return KindUpstream
}

// Message returns the client-facing message for err, falling back to
// fallback for foreign errors.
func Message(err error, fallback string) string {
	var svcErr *Error
	if errors.As(err, &svcErr) && svcErr.Msg != "" {
		return svcErr.Msg
	}
	return fallback
}
