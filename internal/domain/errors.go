// Package domain contains the core domain models and types.
package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors forming the client's error taxonomy. When several
// conditions could apply, timeout takes precedence over connection
// failure, which takes precedence over generic service failure.
var (
	// ErrTimeout indicates the model call exceeded its configured bound.
	ErrTimeout = errors.New("AI request timed out")

	// ErrConnection indicates the AI endpoint could not be reached
	// (DNS failure, connection refused).
	ErrConnection = errors.New("AI service connection failed")

	// ErrService indicates any other transport or provider failure,
	// including non-2xx responses.
	ErrService = errors.New("AI service error")

	// ErrInvalidModel indicates a model identifier outside the allow-list.
	// Raised at construction time only.
	ErrInvalidModel = errors.New("invalid model identifier")

	// ErrInvalidConfig indicates invalid configuration.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// ValidationError wraps an error with the operation that failed.
type ValidationError struct {
	// Op is the operation that failed.
	Op string

	// Err is the underlying error. It always unwraps to one of the
	// taxonomy sentinels, and to the originating low-level cause where
	// one exists.
	Err error

	// Retryable indicates if the operation can be retried by the caller.
	Retryable bool
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// WrapError creates a new ValidationError with context.
func WrapError(op string, err error, retryable bool) *ValidationError {
	return &ValidationError{
		Op:        op,
		Err:       err,
		Retryable: retryable,
	}
}

// IsRetryable checks if an error is retryable.
func IsRetryable(err error) bool {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Retryable
	}
	return false
}
