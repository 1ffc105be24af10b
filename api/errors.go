package api

import (
	"errors"
	"fmt"
)

// ErrMalformedResponse marks a 2xx response whose body could not be decoded
// into the expected envelope.
var ErrMalformedResponse = errors.New("malformed response")

// Error describes a failed call to the remote API. StatusCode is 0 when no
// response was received.
type Error struct {
	Operation  string
	Method     string
	Endpoint   string
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s %s: HTTP %d: %s", e.Method, e.Endpoint, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s %s: %s", e.Method, e.Endpoint, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsStatus returns true if err (or any wrapped error) is an Error with the given status code.
func IsStatus(err error, code int) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == code
	}
	return false
}
