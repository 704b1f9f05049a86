package api

import (
	"fmt"
	"net/http"
)

// TransportError is returned when the backend answers the stream request
// with a non-2xx status or a content type other than text/event-stream.
type TransportError struct {
	StatusCode int
	Status     string
	Body       string
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("HTTP %d - %s: %s", e.StatusCode, e.Status, e.Body)
}

// Retryable reports whether reconnecting may succeed. Client errors other
// than 408 and 429 will fail the same way on every attempt.
func (e *TransportError) Retryable() bool {
	switch {
	case e.StatusCode == http.StatusRequestTimeout,
		e.StatusCode == http.StatusTooManyRequests:
		return true
	case e.StatusCode >= http.StatusInternalServerError:
		return true
	case e.StatusCode >= 200 && e.StatusCode < 300:
		// Wrong content type on a successful status.
		return true
	default:
		return false
	}
}

// NewTransportError builds a TransportError from the status line and body
// of a rejected response.
func NewTransportError(statusCode int, body string) *TransportError {
	return &TransportError{
		StatusCode: statusCode,
		Status:     http.StatusText(statusCode),
		Body:       body,
	}
}

// StreamError wraps a connection-level failure that outlived the reconnect
// budget.
type StreamError struct {
	Attempts int
	Err      error
}

// Error implements the error interface.
func (e *StreamError) Error() string {
	return fmt.Sprintf("stream failed after %d attempts: %v", e.Attempts, e.Err)
}

// Unwrap returns the underlying cause.
func (e *StreamError) Unwrap() error {
	return e.Err
}

// InvalidConfigurationError reports a configuration that does not permit a
// live call, such as an unsupported deployment variant.
type InvalidConfigurationError struct {
	Param   string
	Message string
}

// Error implements the error interface.
func (e *InvalidConfigurationError) Error() string {
	if e.Param != "" {
		return fmt.Sprintf("invalid configuration: %s (param: %s)", e.Message, e.Param)
	}
	return fmt.Sprintf("invalid configuration: %s", e.Message)
}

// NewInvalidVersionError creates the error returned when the deployment
// variant may not perform live calls.
func NewInvalidVersionError(v Variant) *InvalidConfigurationError {
	return &InvalidConfigurationError{
		Param:   "version",
		Message: fmt.Sprintf("invalid AI version %q", string(v)),
	}
}
