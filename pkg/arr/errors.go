package arr

import (
	"errors"
	"fmt"
)

// Sentinel errors for the arr package.
var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized is returned when the API key is rejected.
	ErrUnauthorized = errors.New("invalid api key")

	// ErrUnavailable is returned when the backend cannot be reached or its
	// circuit breaker is open.
	ErrUnavailable = errors.New("backend unavailable")
)

// APIError is a non-2xx response from a Radarr or Sonarr instance.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("api error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("api error: status %d: %s", e.StatusCode, e.Body)
}

// Temporary reports whether the error is a server side failure worth
// counting against the circuit breaker.
func (e *APIError) Temporary() bool {
	return e.StatusCode >= 500
}
