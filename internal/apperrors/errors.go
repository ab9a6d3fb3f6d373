package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindUpstreamFailure Kind = iota
	KindValidationFailed
	KindNotFound
	KindUnauthenticated
	KindForbidden
	KindConflict
	KindDependencyExists
	KindPayloadTooLarge
)

func (k Kind) String() string {
	switch k {
	case KindValidationFailed:
		return "validation_failed"
	case KindNotFound:
		return "not_found"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindConflict:
		return "conflict"
	case KindDependencyExists:
		return "dependency_exists"
	case KindPayloadTooLarge:
		return "payload_too_large"
	default:
		return "upstream_failure"
	}
}

// Status maps an error kind to the HTTP status sent to clients.
func (k Kind) Status() int {
	switch k {
	case KindValidationFailed, KindConflict, KindDependencyExists, KindPayloadTooLarge:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Error is the client-facing error returned by services. Message is safe to
// show to callers; Err keeps the underlying cause for logging.
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

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func Validation(format string, args ...interface{}) *Error {
	return New(KindValidationFailed, fmt.Sprintf(format, args...))
}

func NotFound(message string) *Error {
	return New(KindNotFound, message)
}

func Unauthenticated(message string) *Error {
	return New(KindUnauthenticated, message)
}

func Forbidden(message string) *Error {
	return New(KindForbidden, message)
}

func Conflict(message string) *Error {
	return New(KindConflict, message)
}

func Upstream(message string, err error) *Error {
	return Wrap(KindUpstreamFailure, message, err)
}

// KindOf reports the kind of err. Errors that are not *Error are upstream failures.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUpstreamFailure
}

// PublicMessage returns the text shown to clients for err. Upstream failures
// keep their detail only outside production.
func PublicMessage(err error, production bool) string {
	var appErr *Error
	if !errors.As(err, &appErr) {
		if production {
			return "Server Error"
		}
		return err.Error()
	}
	if appErr.Kind == KindUpstreamFailure {
		if production {
			return "Server Error"
		}
		return appErr.Error()
	}
	return appErr.Message
}
