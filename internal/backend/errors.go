package backend

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrTimeout is returned when a call exceeds the client's per-call timeout.
var ErrTimeout = errors.New("request timeout")

// TimeoutMessage is reported to callers for ErrTimeout.
const TimeoutMessage = "Request timeout - server took too long to respond"

// APIError is a non-2xx response from the backend.
type APIError struct {
	operation  string
	statusCode int
	message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: HTTP %d: %s", e.operation, e.statusCode, e.message)
}

func newAPIError(operation string, statusCode int, message string) *APIError {
	return &APIError{operation: operation, statusCode: statusCode, message: message}
}

// StatusCode returns the HTTP status code from the response.
func (e *APIError) StatusCode() int { return e.statusCode }

// Message returns the backend's error message, or "HTTP <code>" when it sent none.
func (e *APIError) Message() string { return e.message }

// Operation returns a short description of the call that failed.
func (e *APIError) Operation() string { return e.operation }

// IsNotFound reports whether err is an API error with HTTP 404 status.
func IsNotFound(err error) bool { return HasStatusCode(err, http.StatusNotFound) }

// HasStatusCode reports whether err is an API error whose HTTP status code matches.
func HasStatusCode(err error, code int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.statusCode == code
}

// Classify maps err to the status and message reported to callers:
// the HTTP status for API errors, 408 for timeouts, 0 for everything else.
func Classify(err error) (status int, message string) {
	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr):
		return apiErr.statusCode, apiErr.message
	case errors.Is(err, ErrTimeout):
		return http.StatusRequestTimeout, TimeoutMessage
	default:
		return 0, err.Error()
	}
}
