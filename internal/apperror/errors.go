// Package apperror defines the error kinds every API operation reports.
package apperror

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

type Kind string

const (
	KindUnauthorized   Kind = "UNAUTHORIZED"
	KindInvalidRequest Kind = "INVALID_REQUEST"
	KindNotFound       Kind = "NOT_FOUND"
	KindForbidden      Kind = "FORBIDDEN"
	KindConflict       Kind = "CONFLICT"
	KindInternal       Kind = "INTERNAL_ERROR"
)

// Error carries a Kind and a message safe to show to the caller. Err, when
// set, is the underlying cause and is never rendered to clients.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so errors.Is(err, apperror.ErrConflict)
// works without comparing messages.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Message == "" && t.Kind == e.Kind
}

// Kind sentinels for errors.Is.
var (
	ErrUnauthorized   = &Error{Kind: KindUnauthorized}
	ErrInvalidRequest = &Error{Kind: KindInvalidRequest}
	ErrNotFound       = &Error{Kind: KindNotFound}
	ErrForbidden      = &Error{Kind: KindForbidden}
	ErrConflict       = &Error{Kind: KindConflict}
	ErrInternal       = &Error{Kind: KindInternal}
)

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Unauthorized(message string) *Error   { return New(KindUnauthorized, message) }
func InvalidRequest(message string) *Error { return New(KindInvalidRequest, message) }
func NotFound(message string) *Error       { return New(KindNotFound, message) }
func Forbidden(message string) *Error      { return New(KindForbidden, message) }
func Conflict(message string) *Error       { return New(KindConflict, message) }

// Internal wraps an unexpected failure, recording a stack trace on the cause.
// An err that already carries a Kind is returned unchanged.
func Internal(err error, message string) error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if stderrors.As(err, &appErr) {
		return err
	}
	return &Error{Kind: KindInternal, Message: message, Err: errors.WithStack(err)}
}

// KindOf classifies err. Anything that is not an *Error is internal.
func KindOf(err error) Kind {
	var appErr *Error
	if stderrors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// MessageOf returns the client-safe message for err.
func MessageOf(err error) string {
	var appErr *Error
	if stderrors.As(err, &appErr) && appErr.Kind != KindInternal {
		return appErr.Message
	}
	return "An unexpected error occurred."
}

func HTTPStatus(kind Kind) int {
	switch kind {
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindInvalidRequest:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
