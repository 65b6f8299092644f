// internal/pkg/apperror/apperror.go
package apperror

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure for callers and for HTTP status mapping
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindInvalidState
	KindUnauthenticated
	KindForbidden
	KindNotFound
)

// String returns the kind name used in logs
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindInvalidState:
		return "invalid_state"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	default:
		return "internal"
	}
}

// Error is a classified application error. Message is safe to show to clients.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Validation reports malformed or out-of-range input
func Validation(format string, args ...interface{}) *Error {
	return newf(KindValidation, format, args...)
}

// InvalidState reports an operation that is not allowed in the current state
func InvalidState(format string, args ...interface{}) *Error {
	return newf(KindInvalidState, format, args...)
}

// Unauthenticated reports missing or bad credentials
func Unauthenticated(format string, args ...interface{}) *Error {
	return newf(KindUnauthenticated, format, args...)
}

// Forbidden reports an authenticated caller lacking access
func Forbidden(format string, args ...interface{}) *Error {
	return newf(KindForbidden, format, args...)
}

// NotFound reports a missing resource
func NotFound(format string, args ...interface{}) *Error {
	return newf(KindNotFound, format, args...)
}

// Internal wraps an unexpected failure behind a generic message
func Internal(err error, message string) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or KindInternal
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// HTTPStatus maps an error to its response status code. A request deadline
// expiring anywhere below an internal error answers 503.
func HTTPStatus(err error) int {
	if timedOut(err) {
		return http.StatusServiceUnavailable
	}
	switch KindOf(err) {
	case KindValidation, KindInvalidState:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns text that may be returned to a client
func PublicMessage(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Kind != KindInternal {
		return appErr.Message
	}
	if timedOut(err) {
		return "Request timeout"
	}
	return "Something went wrong, try again later"
}

func timedOut(err error) bool {
	return KindOf(err) == KindInternal && errors.Is(err, context.DeadlineExceeded)
}
