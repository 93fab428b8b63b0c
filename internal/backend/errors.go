package backend

import (
	"errors"
	"fmt"
)

// NetworkError means the transport could not reach the backend or the
// connection failed mid-request. The request may or may not have been
// processed server-side.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("backend unreachable during %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ClientError is a 4xx response: bad input, missing resource, or an invalid
// state transition attempt.
type ClientError struct {
	StatusCode int
	Detail     string
}

func (e *ClientError) Error() string {
	return fmt.Sprintf("backend rejected request (%d): %s", e.StatusCode, e.Detail)
}

// ServerError is a 5xx response from the backend.
type ServerError struct {
	StatusCode int
	Detail     string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("backend error (%d): %s", e.StatusCode, e.Detail)
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	var ce *ClientError
	return errors.As(err, &ce) && ce.StatusCode == 404
}
