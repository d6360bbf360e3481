// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package session implements the evaluator's per-expression lifecycle:
// a Session accepts byte chunks from a producer, runs the streaming
// parser on a dedicated worker goroutine, and exposes a single typed
// result once the worker finishes, errors, or is aborted.
package session

import (
	"sync"
	"sync/atomic"

	"calcstream.dev/calcstream/internal/chunkio"
	"calcstream.dev/calcstream/internal/evalcore"
	"calcstream.dev/calcstream/internal/value"
)

// State is a Session's lifecycle state.
type State int

const (
	Idle State = iota
	Running
	FinishedOk
	FinishedError
	Aborted
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Running:
		return "Running"
	case FinishedOk:
		return "FinishedOk"
	case FinishedError:
		return "FinishedError"
	case Aborted:
		return "Aborted"
	default:
		return "Unknown"
	}
}

// Session drives one expression evaluation at a time. Feed is called
// by the producer (the connection reader); the worker goroutine it
// starts on Start is the only consumer of the queue and the only
// writer of the result fields, so no locking is needed around them
// beyond the atomics used for cross-goroutine state observation.
type Session struct {
	mu sync.Mutex // guards state transitions and queue (re)creation

	queue   *chunkio.Queue
	running atomic.Bool
	done    atomic.Bool
	aborted atomic.Bool

	result    value.Value
	resultErr *evalcore.Error
	waitDone  chan struct{}
}

// New creates an idle Session.
func New() *Session {
	return &Session{queue: chunkio.New()}
}

// Start enqueues the first chunk and launches the worker. It fails
// with AlreadyRunning if a worker is already in flight, and with
// EmptyInput if chunk is empty — in the EmptyInput case, the session
// is left Finished with that error already set as its Result, rather
// than Running, since no worker had anything to evaluate.
func (s *Session) Start(chunk []byte) *evalcore.Error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running.Load() {
		return evalcore.NewError(evalcore.AlreadyRunning)
	}
	s.queue.Reset()
	if len(chunk) == 0 {
		err := evalcore.NewError(evalcore.EmptyInput)
		s.result = value.Value{}
		s.resultErr = err
		s.aborted.Store(false)
		s.done.Store(true)
		s.waitDone = nil
		return err
	}
	if err := s.queue.Push(chunk); err != nil {
		return evalcore.NewError(evalcore.EmptyInput)
	}
	s.running.Store(true)
	s.done.Store(false)
	s.aborted.Store(false)
	s.waitDone = make(chan struct{})
	go s.work()
	return nil
}

func (s *Session) work() {
	v, err := evalcore.Run(s.queue)
	s.result = v
	s.resultErr = err
	s.running.Store(false)
	s.done.Store(true)
	close(s.waitDone)
}

// Feed appends a chunk of input bytes. It fails with NotRunning if the
// session has not been started, and with EmptyInput if chunk is
// empty.
func (s *Session) Feed(chunk []byte) *evalcore.Error {
	if !s.running.Load() {
		return evalcore.NewError(evalcore.NotRunning)
	}
	if err := s.queue.Push(chunk); err != nil {
		if err == chunkio.ErrEmptyChunk {
			return evalcore.NewError(evalcore.EmptyInput)
		}
		return evalcore.NewError(evalcore.NotRunning)
	}
	return nil
}

// Abort cooperatively cancels a running worker. It is a no-op if the
// session is not running. The caller should still Wait for the worker
// to observe the Aborted outcome before reusing the session.
func (s *Session) Abort() {
	if s.running.Load() {
		s.aborted.Store(true)
		s.queue.SignalAbort()
	}
}

// Reset returns a finished or idle session to Idle so it can be
// started again. It fails with BusyReset if the worker is still
// running.
func (s *Session) Reset() *evalcore.Error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running.Load() {
		return evalcore.NewError(evalcore.BusyReset)
	}
	s.queue.Reset()
	s.done.Store(false)
	s.aborted.Store(false)
	s.resultErr = nil
	s.result = value.Value{}
	return nil
}

// Wait blocks until the current run finishes, errors, or is aborted.
// It returns immediately if no worker has ever run.
func (s *Session) Wait() {
	s.mu.Lock()
	ch := s.waitDone
	s.mu.Unlock()
	if ch == nil {
		return
	}
	<-ch
}

// Running reports whether a worker is currently evaluating.
func (s *Session) Running() bool {
	return s.running.Load()
}

// Finished reports whether the most recent run has completed (with a
// result, an error, or an abort).
func (s *Session) Finished() bool {
	return s.done.Load()
}

// Errored reports whether the most recent completed run ended in a
// classified error (which includes Aborted).
func (s *Session) Errored() bool {
	return s.done.Load() && s.resultErr != nil
}

// State reports the session's current lifecycle state.
func (s *Session) State() State {
	if s.running.Load() {
		return Running
	}
	if !s.done.Load() {
		return Idle
	}
	if s.aborted.Load() {
		return Aborted
	}
	if s.resultErr != nil {
		return FinishedError
	}
	return FinishedOk
}

// Result returns the evaluated value and/or classified error of the
// most recently completed run. It is only meaningful once Finished
// reports true.
func (s *Session) Result() (value.Value, *evalcore.Error) {
	return s.result, s.resultErr
}
