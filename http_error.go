package httpcore

import (
	"fmt"
)

// HttpError represents an HTTP error with a status code and message.
type HttpError struct {
	Code    int    // HTTP status code
	Message string // Error message
	Err     error  // Original error, if any
}

// Error implements the error interface. An empty Message falls back to the
// status code's reason phrase (see status.go), so an HttpError built from
// just a code still produces a readable message.
func (e *HttpError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = StatusText(e.Code)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the wrapped error, if any.
func (e *HttpError) Unwrap() error {
	return e.Err
}

// NewHttpError creates a new HttpError with the given status code and message.
func NewHttpError(code int, message string) *HttpError {
	return &HttpError{
		Code:    code,
		Message: message,
	}
}

// NewHttpErrorWithError creates a new HttpError with the given status code, message, and error.
func NewHttpErrorWithError(code int, message string, err error) *HttpError {
	return &HttpError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
