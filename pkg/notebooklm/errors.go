package notebooklm

import (
	"errors"
	"fmt"
)

// ErrEngineUnavailable means no usable engine session is configured.
var ErrEngineUnavailable = errors.New("notebooklm engine not available - check auth configuration")

// RefreshFailedError is returned when the session refresh triggered by a
// retryable failure itself fails.
type RefreshFailedError struct {
	Cause      error
	RefreshErr error
}

func (e *RefreshFailedError) Error() string {
	return fmt.Sprintf("auth refresh failed during query retry: %v (refresh: %v)", e.Cause, e.RefreshErr)
}

func (e *RefreshFailedError) Unwrap() []error {
	return []error{e.Cause, e.RefreshErr}
}

// ExhaustedRetriesError is returned when every attempt failed and the last
// failure was still retryable. Last is reachable through errors.Is/As.
type ExhaustedRetriesError struct {
	Attempts int
	Last     error
}

func (e *ExhaustedRetriesError) Error() string {
	return fmt.Sprintf("query failed after %d attempts: %v", e.Attempts, e.Last)
}

func (e *ExhaustedRetriesError) Unwrap() error {
	return e.Last
}

// APIError is a non-2xx response from the engine bridge.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("notebooklm bridge returned status %d: %s", e.StatusCode, e.Message)
}
