// Package result provides the response variant shared by every data source:
// a Result holds either data or a failure, never both.
package result

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Status codes with a meaning beyond plain HTTP.
const (
	// StatusNetwork marks a transport failure where no HTTP status was received.
	StatusNetwork = 0
	// StatusTimeout marks a request that exceeded its deadline.
	StatusTimeout = http.StatusRequestTimeout
	// StatusForbidden marks an operation the caller's tier may not use.
	StatusForbidden = http.StatusForbidden
)

// Failure describes why an operation produced no data.
type Failure struct {
	Message string `json:"error"`
	Status  int    `json:"status"`
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s (status %d)", f.Message, f.Status)
}

// Result is either a success carrying data or a failure carrying a status.
type Result[T any] struct {
	data    T
	failure *Failure
	status  int
}

// OK returns a 200 success.
func OK[T any](data T) Result[T] {
	return Result[T]{data: data, status: http.StatusOK}
}

// Fail returns a failure with the given status. msg is used verbatim.
func Fail[T any](status int, msg string) Result[T] {
	return Result[T]{failure: &Failure{Message: msg, Status: status}, status: status}
}

// Failf is Fail with a formatted message.
func Failf[T any](status int, format string, args ...any) Result[T] {
	return Fail[T](status, fmt.Sprintf(format, args...))
}

// Status returns the HTTP-equivalent status.
func (r Result[T]) Status() int { return r.status }

// OK reports whether r is a success.
func (r Result[T]) OK() bool { return r.failure == nil }

// Data returns the data and true on success, or the zero value and false.
func (r Result[T]) Data() (T, bool) {
	if r.failure != nil {
		var zero T
		return zero, false
	}
	return r.data, true
}

// Failure returns the failure and true when r failed.
func (r Result[T]) Failure() (Failure, bool) {
	if r.failure == nil {
		return Failure{}, false
	}
	return *r.failure, true
}

// Err returns the failure as an error, or nil on success.
func (r Result[T]) Err() error {
	if r.failure == nil {
		return nil
	}
	return *r.failure
}

type successJSON[T any] struct {
	Data   T   `json:"data"`
	Status int `json:"status"`
}

// MarshalJSON renders {data, status} or {error, status}.
func (r Result[T]) MarshalJSON() ([]byte, error) {
	if r.failure != nil {
		return json.Marshal(r.failure)
	}
	return json.Marshal(successJSON[T]{Data: r.data, Status: r.status})
}
