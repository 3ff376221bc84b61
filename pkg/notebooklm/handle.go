package notebooklm

import "sync/atomic"

// SessionHandle holds the process-wide engine session. Readers always observe
// either the previous or the replacement engine, never a partially built one:
// callers construct the replacement completely before publishing it with Swap.
type SessionHandle struct {
	current atomic.Pointer[engineBox]
}

// engineBox lets the handle store an interface value atomically.
type engineBox struct {
	engine Engine
}

func NewSessionHandle(engine Engine) *SessionHandle {
	h := &SessionHandle{}
	if engine != nil {
		h.Swap(engine)
	}
	return h
}

// Load returns the current engine, or nil when no session is configured.
func (h *SessionHandle) Load() Engine {
	box := h.current.Load()
	if box == nil {
		return nil
	}
	return box.engine
}

// Swap publishes engine as the current session and returns the previous one.
// A nil engine clears the handle.
func (h *SessionHandle) Swap(engine Engine) Engine {
	var next *engineBox
	if engine != nil {
		next = &engineBox{engine: engine}
	}
	prev := h.current.Swap(next)
	if prev == nil {
		return nil
	}
	return prev.engine
}
