package detect

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions.
var (
	// ErrNotReady is returned when the service responds but its models
	// are not loaded yet.
	ErrNotReady = errors.New("detect: service not ready")

	// ErrEmptyFrame is returned when Detect is called with no image data.
	ErrEmptyFrame = errors.New("detect: empty frame")
)

// APIError represents an error response from the detection service.
type APIError struct {
	// StatusCode is the HTTP status code.
	StatusCode int

	// Message is the error message from the service.
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("detect: API error %d: %s", e.StatusCode, e.Message)
}

// IsRateLimited returns true if this is a rate limit error (HTTP 429).
func (e *APIError) IsRateLimited() bool {
	return e.StatusCode == 429
}

// IsServerError returns true if this is a server-side error (HTTP 5xx).
func (e *APIError) IsServerError() bool {
	return e.StatusCode >= 500 && e.StatusCode < 600
}

// IsRetryable returns true if the request should be retried.
func (e *APIError) IsRetryable() bool {
	return e.IsRateLimited() || e.IsServerError()
}

// WrapError wraps an error with detection client context.
func WrapError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("detect: %w", err)
}
