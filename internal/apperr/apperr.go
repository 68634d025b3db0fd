package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error into one of the caller-facing outcomes the HTTP
// layer knows how to map to a status code. Everything that is not one of the
// four expected kinds is Internal.
type Kind int

const (
	KindInternal Kind = iota
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindInvalidArgument
)

func (k Kind) String() string {
	switch k {
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindInvalidArgument:
		return "invalid_argument"
	default:
		return "internal"
	}
}

// Error is a classified error carrying enough context (the offending field or
// resource) to render a user-facing message.
type Error struct {
	Kind    Kind
	Message string
	wrapped error
}

func (e *Error) Error() string {
	if e.wrapped != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.wrapped)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.wrapped
}

// Unauthorized marks a missing, invalid, expired or revoked credential.
func Unauthorized(msg string) *Error {
	return &Error{Kind: KindUnauthorized, Message: msg}
}

// Forbidden marks an authenticated caller that is not entitled to the target
// resource.
func Forbidden(msg string) *Error {
	return &Error{Kind: KindForbidden, Message: msg}
}

// NotFound marks an absent resource, named so callers can say which one.
func NotFound(resource string) *Error {
	return &Error{Kind: KindNotFound, Message: resource + " not found"}
}

// Invalid marks malformed input.
func Invalid(msg string) *Error {
	return &Error{Kind: KindInvalidArgument, Message: msg}
}

// Invalidf is Invalid with formatting.
func Invalidf(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

// Internal wraps an unexpected error. It is surfaced generically so store
// details do not leak to clients.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "internal error", wrapped: err}
}

// KindOf returns the kind of err, or KindInternal when err is not classified.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsKind reports whether err is classified as kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
