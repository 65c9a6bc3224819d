package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is an application error carrying the HTTP status it should map to.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
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

// Is lets errors.Is match any Error of the same class against its sentinel,
// regardless of the wrapped cause or the specific message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates a new Error.
func New(code int, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// Sentinels for the error classes the service distinguishes. Callers match
// with errors.Is; controllers map them to HTTP responses.
var (
	ErrValidation   = New(http.StatusBadRequest, "Validation error", nil)
	ErrNotFound     = New(http.StatusNotFound, "Not found", nil)
	ErrStoreWrite   = New(http.StatusInternalServerError, "Record store write failed", nil)
	ErrBlob         = New(http.StatusBadGateway, "Blob store operation failed", nil)
	ErrUnauthorized = New(http.StatusUnauthorized, "Unauthorized", nil)
	ErrForbidden    = New(http.StatusForbidden, "Forbidden", nil)
)

// Validation wraps a bad-input condition. Validation errors are raised
// before any I/O so no partial state exists when one is returned.
func Validation(format string, args ...interface{}) *Error {
	return New(http.StatusBadRequest, fmt.Sprintf(format, args...), nil)
}

// NotFound reports a missing record.
func NotFound(kind, id string) *Error {
	return New(http.StatusNotFound, fmt.Sprintf("%s %s not found", kind, id), nil)
}

// StoreWrite wraps a failed record create/update/delete.
func StoreWrite(op string, err error) *Error {
	return New(http.StatusInternalServerError, fmt.Sprintf("record store %s failed", op), err)
}

// Blob wraps a failed blob upload or delete.
func Blob(op string, err error) *Error {
	return New(http.StatusBadGateway, fmt.Sprintf("blob store %s failed", op), err)
}

// StatusOf returns the HTTP status for err, defaulting to 500.
func StatusOf(err error) int {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return http.StatusInternalServerError
}

// MessageOf returns the user-visible message for err. Internal causes are
// not leaked for non-application errors.
func MessageOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "Internal server error"
}
