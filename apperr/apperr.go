// Package apperr defines the service error taxonomy. Every failure that
// crosses the HTTP boundary is one of these kinds, rendered as
// {"kind": ..., "message": ...} with the kind's status code.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindValidation   Kind = "validation"
	KindAuth         Kind = "auth"
	KindForbidden    Kind = "forbidden"
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindInvalidState Kind = "invalid_state"
	KindUpstream     Kind = "upstream"
)

type Error struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`

	// status overrides the kind's default code; zero means use the default.
	// Only invalid-state errors vary: a bad transition request is a 400, but
	// offering on an unapproved or sold property is a 403.
	status int
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) HTTPStatus() int {
	if e.status != 0 {
		return e.status
	}
	switch e.Kind {
	case KindValidation, KindInvalidState:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Is makes errors.Is match on kind, so callers can compare against a
// sentinel like apperr.NotFound("") without caring about the message.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func Auth(msg string) *Error {
	return &Error{Kind: KindAuth, Message: msg}
}

func Forbidden(msg string) *Error {
	return &Error{Kind: KindForbidden, Message: msg}
}

func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

func InvalidState(msg string) *Error {
	return &Error{Kind: KindInvalidState, Message: msg}
}

// InvalidStateForbidden is an invalid-state failure surfaced as a 403, used
// when the state gate doubles as an access refusal (unapproved or already
// sold properties accept no offers).
func InvalidStateForbidden(msg string) *Error {
	return &Error{Kind: KindInvalidState, Message: msg, status: http.StatusForbidden}
}

func Upstream(msg string) *Error {
	return &Error{Kind: KindUpstream, Message: msg}
}

// KindOf extracts the taxonomy kind from err, or "" for untyped errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
