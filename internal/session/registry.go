// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package session

import (
	"sync"

	"github.com/google/uuid"
)

// Handle identifies a Session within a Registry. It is minted from a
// random UUID rather than a monotonic counter so handles stay
// unguessable across restarts and are safe to hand to untrusted
// transport peers.
type Handle string

// Registry is a thread-safe collection of live sessions keyed by
// Handle. One Registry is shared by every connection the server
// accepts.
type Registry struct {
	mu       sync.RWMutex
	sessions map[Handle]*Session
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[Handle]*Session)}
}

// Create mints a new Handle, registers a fresh Session under it, and
// returns both.
func (r *Registry) Create() (Handle, *Session) {
	h := Handle(uuid.New().String())
	s := New()
	r.mu.Lock()
	r.sessions[h] = s
	r.mu.Unlock()
	return h, s
}

// Get retrieves the Session registered under h, if any.
func (r *Registry) Get(h Handle) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[h]
	return s, ok
}

// Remove aborts (if running) and unregisters the session under h.
func (r *Registry) Remove(h Handle) {
	r.mu.Lock()
	s, ok := r.sessions[h]
	delete(r.sessions, h)
	r.mu.Unlock()
	if ok {
		s.Abort()
	}
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
