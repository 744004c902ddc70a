// Package apperr defines the error taxonomy shared by services and handlers.
// Services return these; handlers map them to HTTP status codes in one place.
package apperr

import (
	"errors"
	"net/http"

	"gorm.io/gorm"
)

type Kind int

const (
	KindValidation Kind = iota // malformed or missing input
	KindAuth                   // missing/invalid/expired credential or session
	KindForbidden              // authenticated but not authorized
	KindNotFound
	KindConflict // unique-constraint domain conflicts
	KindExternal // upstream collaborator failure
	KindInternal
)

// Error carries a classification and a client-safe message.
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

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func Validation(message string) *Error { return New(KindValidation, message) }
func Auth(message string) *Error       { return New(KindAuth, message) }
func Forbidden(message string) *Error  { return New(KindForbidden, message) }
func NotFound(message string) *Error   { return New(KindNotFound, message) }
func Conflict(message string) *Error   { return New(KindConflict, message) }

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == kind
}

// HTTPStatus maps any error to a status code and a client-safe message.
// Unclassified errors become opaque 500s; no internals leak to clients.
func HTTPStatus(err error) (int, string) {
	var ae *Error
	if errors.As(err, &ae) {
		switch ae.Kind {
		case KindValidation:
			return http.StatusBadRequest, ae.Message
		case KindAuth:
			return http.StatusUnauthorized, ae.Message
		case KindForbidden:
			return http.StatusForbidden, ae.Message
		case KindNotFound:
			return http.StatusNotFound, ae.Message
		case KindConflict:
			return http.StatusConflict, ae.Message
		case KindExternal:
			return http.StatusBadGateway, ae.Message
		default:
			return http.StatusInternalServerError, ae.Message
		}
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound, "record not found"
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return http.StatusConflict, "duplicate record"
	}

	return http.StatusInternalServerError, "internal server error"
}
