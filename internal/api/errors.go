package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// APIError is a response the server answered with a 4xx/5xx status.
// Message is the server-provided message when the body carried one.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// ErrNetwork marks failures where no server response was received
// (connection refused, DNS, timeout).
var ErrNetwork = errors.New("network error")

// StatusCode returns the HTTP status of an *APIError, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// IsUnauthorized reports whether err is a 401 response.
func IsUnauthorized(err error) bool {
	return StatusCode(err) == http.StatusUnauthorized
}

// IsNetwork reports whether err is a transport-level failure.
func IsNetwork(err error) bool {
	return errors.Is(err, ErrNetwork)
}

// wrapNetwork converts transport errors into the network taxonomy,
// keeping timeouts distinguishable in the message.
func wrapNetwork(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: request timed out", ErrNetwork)
	}
	return fmt.Errorf("%w: %v", ErrNetwork, err)
}
