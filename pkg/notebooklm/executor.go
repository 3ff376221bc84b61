package notebooklm

import (
	"context"
	"strings"
	"time"
)

const (
	DefaultMaxAttempts = 2
	DefaultRetryDelay  = 3 * time.Second
)

// Error message fragments that indicate a stale session rather than a bad
// question or a real outage.
var retryablePatterns = []string{
	"not available",
	"no result found for rpc",
	"chat request timed out",
	"session",
	"unauthorized",
	"unauthenticated",
}

// IsRetryable reports whether err looks like an expired or stale session.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, pattern := range retryablePatterns {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}

// SessionRefresher re-authenticates the engine session and publishes the
// new engine into the shared SessionHandle.
type SessionRefresher interface {
	Refresh(ctx context.Context) error
}

// Logger is the subset of the service logger the executor writes to.
type Logger interface {
	Info(module, message string, details map[string]interface{})
	Warn(module, message string, details map[string]interface{})
}

// Executor drives one question through the engine with a bounded number of
// attempts, refreshing the session once per retryable failure.
type Executor struct {
	handle      *SessionHandle
	refresher   SessionRefresher
	logger      Logger
	maxAttempts int
	retryDelay  time.Duration
}

type ExecutorOption func(*Executor)

func WithMaxAttempts(n int) ExecutorOption {
	return func(e *Executor) {
		if n >= 1 {
			e.maxAttempts = n
		}
	}
}

func WithRetryDelay(d time.Duration) ExecutorOption {
	return func(e *Executor) {
		if d >= 0 {
			e.retryDelay = d
		}
	}
}

func NewExecutor(handle *SessionHandle, refresher SessionRefresher, logger Logger, opts ...ExecutorOption) *Executor {
	e := &Executor{
		handle:      handle,
		refresher:   refresher,
		logger:      logger,
		maxAttempts: DefaultMaxAttempts,
		retryDelay:  DefaultRetryDelay,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Executor) MaxAttempts() int {
	return e.maxAttempts
}

// Execute asks question on engine. It returns the result and the number of
// attempts made. Non-retryable errors are returned unchanged; a retryable
// error on the final attempt is wrapped in ExhaustedRetriesError; a failed
// refresh aborts with RefreshFailedError.
func (e *Executor) Execute(ctx context.Context, engine Engine, notebookId, question string, conversationId *string) (*AskResult, int, error) {
	if engine == nil {
		return nil, 0, ErrEngineUnavailable
	}

	for attempt := 1; ; attempt++ {
		result, err := engine.Ask(ctx, notebookId, question, conversationId)
		if err == nil {
			return result, attempt, nil
		}

		if !IsRetryable(err) {
			return nil, attempt, err
		}
		if attempt >= e.maxAttempts {
			return nil, attempt, &ExhaustedRetriesError{Attempts: attempt, Last: err}
		}

		e.logger.Warn("executor", "Retryable engine failure, refreshing session", map[string]interface{}{
			"notebook_id": notebookId,
			"attempt":     attempt,
			"error":       err.Error(),
			"retry_in":    e.retryDelay.String(),
		})

		engine, err = e.refresh(ctx, err)
		if err != nil {
			return nil, attempt, err
		}

		if err := sleepCtx(ctx, e.retryDelay); err != nil {
			return nil, attempt, err
		}
	}
}

func (e *Executor) refresh(ctx context.Context, cause error) (Engine, error) {
	if e.refresher == nil {
		return nil, &RefreshFailedError{Cause: cause, RefreshErr: ErrEngineUnavailable}
	}
	if err := e.refresher.Refresh(ctx); err != nil {
		return nil, &RefreshFailedError{Cause: cause, RefreshErr: err}
	}
	engine := e.handle.Load()
	if engine == nil {
		return nil, &RefreshFailedError{Cause: cause, RefreshErr: ErrEngineUnavailable}
	}
	e.logger.Info("executor", "Session refreshed", nil)
	return engine, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
