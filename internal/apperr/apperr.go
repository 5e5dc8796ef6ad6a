// Package apperr holds the typed failure every handler returns. The message is
// what clients see; the status code is what the error handler writes.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrMalformedID marks an identifier that cannot name any resource.
var ErrMalformedID = errors.New("malformed resource id")

type Error struct {
	Message    string
	StatusCode int
	Err        error
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

func New(status int, message string) *Error {
	return &Error{Message: message, StatusCode: status}
}

// Wrap keeps cause for logs while clients only see message.
func Wrap(status int, message string, cause error) *Error {
	return &Error{Message: message, StatusCode: status, Err: cause}
}

func BadRequest(message string) *Error {
	return New(http.StatusBadRequest, message)
}

func Unauthorized(message string) *Error {
	return New(http.StatusUnauthorized, message)
}

func Forbidden(message string) *Error {
	return New(http.StatusForbidden, message)
}

func NotFound(message string) *Error {
	return New(http.StatusNotFound, message)
}

func Internal(message string, cause error) *Error {
	return Wrap(http.StatusInternalServerError, message, cause)
}

// MalformedID wraps ErrMalformedID with the offending value.
func MalformedID(id string) error {
	return fmt.Errorf("%w: %q", ErrMalformedID, id)
}

// StatusOf reports the status carried by err, or 500.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) && e.StatusCode != 0 {
		return e.StatusCode
	}
	return http.StatusInternalServerError
}
