package handler

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/querygate/binder"
)

// HTTPError carries the status and body fields of an error response.
type HTTPError struct {
	Status  int
	Message string
	Code    string // Code is a machine readable error code, e.g. a SQLSTATE.
	Detail  string
	Err     error
}

// NewHTTPError creates an HTTPError with the given status and message.
func NewHTTPError(status int, message string) *HTTPError {
	return &HTTPError{Status: status, Message: message}
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *HTTPError) Unwrap() error { return e.Err }

// WithCode returns a copy of e with the code set.
func (e *HTTPError) WithCode(code string) *HTTPError {
	c := *e
	c.Code = code
	return &c
}

// WithDetail returns a copy of e with the detail set.
func (e *HTTPError) WithDetail(detail string) *HTTPError {
	c := *e
	c.Detail = detail
	return &c
}

// Wrap returns a copy of e wrapping err.
func (e *HTTPError) Wrap(err error) *HTTPError {
	c := *e
	c.Err = err
	return &c
}

// Predefined errors used by the default classification.
var (
	ErrBadRequest          = NewHTTPError(http.StatusBadRequest, "Invalid request body")
	ErrNotFound            = NewHTTPError(http.StatusNotFound, "Not found")
	ErrInternalServerError = NewHTTPError(http.StatusInternalServerError, "Internal server error")
)

// classifyError maps err to an HTTPError. Binding failures become 400,
// anything unknown becomes a generic 500 so internal messages are not leaked.
func classifyError(err error) *HTTPError {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	if errors.Is(err, binder.ErrInvalidJSON) ||
		errors.Is(err, binder.ErrMissingContentType) ||
		errors.Is(err, binder.ErrUnsupportedMediaType) {
		return ErrBadRequest.Wrap(err)
	}

	return ErrInternalServerError.Wrap(err)
}
