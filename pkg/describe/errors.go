package describe

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions.
var (
	// ErrNoAPIKey is returned when an API key is required but missing.
	ErrNoAPIKey = errors.New("describe: API key required")

	// ErrNoModel is returned when a model id is required but missing.
	ErrNoModel = errors.New("describe: model required")

	// ErrUnavailable is returned when no describers are available.
	ErrUnavailable = errors.New("describe: describer unavailable")
)

// APIError represents an error response from a describer API.
type APIError struct {
	// StatusCode is the HTTP status code.
	StatusCode int

	// Message is the error message from the API.
	Message string

	// Describer identifies which describer returned the error.
	Describer string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("describe [%s]: API error %d: %s",
		e.Describer, e.StatusCode, e.Message)
}

// IsRateLimited returns true if this is a rate limit error (HTTP 429).
func (e *APIError) IsRateLimited() bool {
	return e.StatusCode == 429
}

// IsServerError returns true if this is a server-side error (HTTP 5xx).
func (e *APIError) IsServerError() bool {
	return e.StatusCode >= 500 && e.StatusCode < 600
}

// DescriberError wraps an error with describer context.
type DescriberError struct {
	Describer string
	Err       error
}

// Error implements the error interface.
func (e *DescriberError) Error() string {
	return fmt.Sprintf("describe [%s]: %v", e.Describer, e.Err)
}

// Unwrap returns the underlying error.
func (e *DescriberError) Unwrap() error {
	return e.Err
}

// WrapError wraps an error with describer context.
func WrapError(describer string, err error) error {
	if err == nil {
		return nil
	}
	return &DescriberError{Describer: describer, Err: err}
}

// ChainError aggregates errors from all describers in a chain.
type ChainError struct {
	Errors []error
}

// Error implements the error interface.
func (e *ChainError) Error() string {
	if len(e.Errors) == 0 {
		return "describe chain: no errors recorded"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("describe chain: %v", e.Errors[0])
	}
	return fmt.Sprintf("describe chain: all %d describers failed, last error: %v",
		len(e.Errors), e.Errors[len(e.Errors)-1])
}

// Unwrap returns the last error in the chain.
func (e *ChainError) Unwrap() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e.Errors[len(e.Errors)-1]
}
