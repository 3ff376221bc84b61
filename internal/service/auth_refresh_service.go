package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"notebooklm-be/internal/pkg/logger"
	"notebooklm-be/pkg/notebooklm"
)

const DefaultKeepaliveInterval = 20 * time.Minute

var ErrRefreshNotConfigured = errors.New("auth refresh is not configured")

// StateExtractor produces a fresh browser storage-state document.
// sshexec.Runner wrapped with the extraction command satisfies it.
type StateExtractor interface {
	Extract(ctx context.Context) ([]byte, error)
}

// EngineFactory builds an engine for a validated storage state.
type EngineFactory func(state *notebooklm.StorageState) notebooklm.Engine

type IAuthRefreshService interface {
	notebooklm.SessionRefresher
	// Apply validates raw storage state and swaps in a new engine built from it.
	Apply(raw []byte) (int, error)
	// Keepalive refreshes on an interval until ctx is done.
	Keepalive(ctx context.Context, initialDelay, interval time.Duration) error
	Configured() bool
}

type authRefreshService struct {
	handle    *notebooklm.SessionHandle
	extractor StateExtractor
	factory   EngineFactory
	logger    logger.ILogger

	mu         sync.Mutex
	generation atomic.Uint64
	lastError  error
	// lastAborted is set when the last refresh failed because its caller's
	// context ended.
	lastAborted bool
}

// NewAuthRefreshService wires the refresher. extractor may be nil when no
// browser host is configured; Refresh then always fails.
func NewAuthRefreshService(handle *notebooklm.SessionHandle, extractor StateExtractor, factory EngineFactory, logger logger.ILogger) IAuthRefreshService {
	return &authRefreshService{
		handle:    handle,
		extractor: extractor,
		factory:   factory,
		logger:    logger,
	}
}

func (s *authRefreshService) Configured() bool {
	return s.extractor != nil
}

func (s *authRefreshService) Apply(raw []byte) (int, error) {
	state, err := notebooklm.ParseStorageState(raw)
	if err != nil {
		return 0, err
	}

	s.handle.Swap(s.factory(state))
	return len(state.Cookies), nil
}

// Refresh extracts new cookies and publishes a new engine. Callers that
// queued behind an in-flight refresh reuse its outcome instead of running
// another one, unless that refresh ended because its own caller gave up.
func (s *authRefreshService) Refresh(ctx context.Context) error {
	if s.extractor == nil {
		return ErrRefreshNotConfigured
	}

	seen := s.generation.Load()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation.Load() != seen && !(s.lastAborted && ctx.Err() == nil) {
		return s.lastError
	}

	err := s.refreshLocked(ctx)
	s.lastError = err
	s.lastAborted = err != nil && ctx.Err() != nil
	s.generation.Add(1)
	return err
}

func (s *authRefreshService) refreshLocked(ctx context.Context) error {
	started := time.Now()
	raw, err := s.extractor.Extract(ctx)
	if err != nil {
		s.logger.Error("auth-refresh", "Cookie extraction failed", map[string]interface{}{
			"error": err.Error(),
		})
		return err
	}

	cookies, err := s.Apply(raw)
	if err != nil {
		s.logger.Error("auth-refresh", "Extracted auth state rejected", map[string]interface{}{
			"error": err.Error(),
		})
		return err
	}

	s.logger.Info("auth-refresh", "Session refreshed", map[string]interface{}{
		"cookies":  cookies,
		"duration": time.Since(started).String(),
	})
	return nil
}

func (s *authRefreshService) Keepalive(ctx context.Context, initialDelay, interval time.Duration) error {
	if s.extractor == nil {
		s.logger.Info("auth-refresh", "Keepalive disabled, no browser host configured", nil)
		return nil
	}

	if interval <= 0 {
		interval = DefaultKeepaliveInterval
	}
	if err := waitFor(ctx, initialDelay); err != nil {
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		s.logger.Info("auth-refresh", "Refreshing session proactively", nil)
		if err := s.Refresh(ctx); err != nil && ctx.Err() == nil {
			s.logger.Warn("auth-refresh", "Keepalive refresh failed, will retry next interval", map[string]interface{}{
				"error":    err.Error(),
				"interval": interval.String(),
			})
		}
	}
}

// CommandRunner is satisfied by sshexec.Runner.
type CommandRunner interface {
	Run(ctx context.Context, command string) ([]byte, error)
}

type sshStateExtractor struct {
	runner  CommandRunner
	command string
	timeout time.Duration
}

// NewSSHStateExtractor runs command on the browser host and returns its
// stdout as the storage-state document.
func NewSSHStateExtractor(runner CommandRunner, command string, timeout time.Duration) StateExtractor {
	return &sshStateExtractor{runner: runner, command: command, timeout: timeout}
}

func (e *sshStateExtractor) Extract(ctx context.Context) ([]byte, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	out, err := e.runner.Run(ctx, e.command)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("extraction timed out after %s: %w", e.timeout, err)
		}
		return nil, err
	}
	return bytes.TrimSpace(out), nil
}
