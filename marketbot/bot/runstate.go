// marketbot/bot/runstate.go
package bot

import (
	"context"
	"sync"
)

// RunState is the single process-wide traversal state. It enforces the
// single-flight guarantee: at most one of the bulk loop and the unread
// loop may be active, and the one-shot unread operation has its own guard
// so the two modes can never interleave. The abort func is armed only while
// a reply request is in flight; Cancel fires it so the HTTP call dies
// together with the cooperative flag flip.
//
// A mutex is required here, unlike the single-threaded original: the cancel
// handler runs on an HTTP goroutine while the run loop owns another.
type RunState struct {
	mu               sync.Mutex
	cycling          bool
	processingSingle bool
	cancelled        bool
	abort            context.CancelFunc
}

func NewRunState() *RunState {
	return &RunState{}
}

// TryBeginCycle claims the traversal-loop guard. Returns false, with no
// side effects, when any run is already active.
func (s *RunState) TryBeginCycle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cycling || s.processingSingle {
		return false
	}
	s.cycling = true
	s.cancelled = false
	return true
}

func (s *RunState) EndCycle() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cycling = false
	s.abort = nil
}

// TryBeginSingle claims the one-shot unread guard.
func (s *RunState) TryBeginSingle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cycling || s.processingSingle {
		return false
	}
	s.processingSingle = true
	s.cancelled = false
	return true
}

func (s *RunState) EndSingle() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.processingSingle = false
	s.abort = nil
}

// Cancel flips the cooperative flag and aborts any in-flight reply request.
// Safe to call at any time, including when nothing is running.
func (s *RunState) Cancel() {
	s.mu.Lock()
	abort := s.abort
	s.abort = nil
	s.cancelled = true
	s.mu.Unlock()
	if abort != nil {
		abort()
	}
}

func (s *RunState) Cancelled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelled
}

func (s *RunState) IsCycling() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cycling
}

func (s *RunState) IsProcessingSingle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.processingSingle
}

// armAbort registers the cancel func of the in-flight reply request.
func (s *RunState) armAbort(cancel context.CancelFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.abort = cancel
}

func (s *RunState) disarmAbort() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.abort = nil
}
