package apiclient

import (
	"fmt"
	"net/http"
)

// StatusError is returned for a non-2xx response.
type StatusError struct {
	Code   int
	Status string
	// Detail is the backend's {"detail": ...} message, if it sent one.
	Detail string
}

func (e *StatusError) Error() string {
	status := e.Status
	if status == "" {
		status = http.StatusText(e.Code)
	}
	if e.Detail != "" {
		return fmt.Sprintf("HTTP %d: %s", e.Code, e.Detail)
	}
	return fmt.Sprintf("HTTP %d: %s", e.Code, status)
}

// DecodeError is returned when a 2xx body is not the expected JSON.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("invalid response from %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// PayloadError is returned when a successful response reports its own
// failure in an "error" field.
type PayloadError struct {
	Path    string
	Message string
}

func (e *PayloadError) Error() string { return e.Message }
