package shared

import (
	"errors"
	"net/http"
)

// Kind classifies an error for the transport layer.
type Kind string

const (
	KindValidation Kind = "VALIDATION"
	KindNotFound   Kind = "NOT_FOUND"
	KindAuth       Kind = "UNAUTHORIZED"
	KindRateLimit  Kind = "RATE_LIMITED"
	KindConflict   Kind = "CONFLICT"
	KindInternal   Kind = "INTERNAL"
)

// Error is a domain-level error carrying its kind and a client-safe message.
// Err holds the underlying cause, if any; it is never shown to clients.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func NewValidation(msg string) *Error { return &Error{Kind: KindValidation, Message: msg} }
func NewNotFound(msg string) *Error   { return &Error{Kind: KindNotFound, Message: msg} }
func NewAuth(msg string) *Error       { return &Error{Kind: KindAuth, Message: msg} }
func NewRateLimit(msg string) *Error  { return &Error{Kind: KindRateLimit, Message: msg} }
func NewConflict(msg string) *Error   { return &Error{Kind: KindConflict, Message: msg} }

// Wrap marks err as an internal failure. The message is what gets logged.
func Wrap(err error, msg string) *Error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or
// KindInternal for anything else.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// HTTPStatus maps an error to its response status.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation, KindConflict:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindAuth:
		return http.StatusUnauthorized
	case KindRateLimit:
		return http.StatusTooManyRequests
	}
	return http.StatusInternalServerError
}

// PublicMessage is the text safe to send to clients. Internal failures never
// leak their cause.
func PublicMessage(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindInternal {
		return e.Message
	}
	return "internal server error"
}
