// Package errors defines the error taxonomy shared by the content store,
// the HTTP handlers and the failover client. Business errors (validation,
// not-found, conflict) carry a user-facing message and map onto an HTTP
// status; transport errors never reach the user and instead drive failover.
package errors

import (
	stderrors "errors"
	"net/http"
)

type Kind int

const (
	Unexpected Kind = iota
	Validation
	NotFound
	Conflict
	Transport
)

type Error struct {
	Kind    Kind
	Message string
	// Err holds the underlying cause for transport/unexpected errors.
	Err error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// StatusCode maps the kind onto the wire contract's status codes.
// Transport errors have no status of their own; they surface as 500
// only if they escape the failover path.
func (e *Error) StatusCode() int {
	switch e.Kind {
	case Validation:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func NewValidation(msg string) *Error { return &Error{Kind: Validation, Message: msg} }
func NewNotFound(msg string) *Error   { return &Error{Kind: NotFound, Message: msg} }
func NewConflict(msg string) *Error   { return &Error{Kind: Conflict, Message: msg} }

func NewTransport(msg string, cause error) *Error {
	return &Error{Kind: Transport, Message: msg, Err: cause}
}

// FromStatusCode classifies a structured error payload received over the
// wire, so the client raises the same kind the server stored it under.
func FromStatusCode(code int, msg string) *Error {
	switch code {
	case http.StatusBadRequest:
		return NewValidation(msg)
	case http.StatusNotFound:
		return NewNotFound(msg)
	case http.StatusConflict:
		return NewConflict(msg)
	default:
		return &Error{Kind: Unexpected, Message: msg}
	}
}

// KindOf returns the kind of err, or Unexpected if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return Unexpected
}

// IsBusiness reports whether err is a user-correctable business-rule error
// that must propagate verbatim and never be retried or masked.
func IsBusiness(err error) bool {
	switch KindOf(err) {
	case Validation, NotFound, Conflict:
		return true
	}
	return false
}

func IsTransport(err error) bool { return KindOf(err) == Transport }
