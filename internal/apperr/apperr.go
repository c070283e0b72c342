// Package apperr defines the typed errors the lifecycle services raise.
// NotFound and Blocked are deliberately distinct: callers render different
// UI for "this conversation no longer exists for you" vs "you are blocked".
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a service error.
type Kind int

const (
	KindUnknown Kind = iota
	// KindUnauthenticated: the action requires a signed-in actor.
	KindUnauthenticated
	// KindValidation: malformed or missing required input.
	KindValidation
	// KindNotFound: the referenced entity does not exist or is not visible
	// to the requester (a deleted chat reads as not found).
	KindNotFound
	// KindBlocked: a block flag on either side disallows the operation.
	KindBlocked
)

// Error is a typed service error. Services fail fast with one of these on
// the first violated precondition, before any mutation.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Unauthenticated(message string) *Error { return New(KindUnauthenticated, message) }

func Validation(message string) *Error { return New(KindValidation, message) }

func Validationf(format string, args ...any) *Error {
	return New(KindValidation, fmt.Sprintf(format, args...))
}

func NotFound(message string) *Error { return New(KindNotFound, message) }

func Blocked(message string) *Error { return New(KindBlocked, message) }

// KindOf extracts the kind from err, or KindUnknown for untyped errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsBlocked reports whether err carries KindBlocked.
func IsBlocked(err error) bool { return KindOf(err) == KindBlocked }

// IsNotFound reports whether err carries KindNotFound.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

// HTTPStatus maps an error to the status the HTTP layer responds with.
// Untyped errors are treated as internal.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindBlocked:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
