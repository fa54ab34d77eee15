package usecase

import (
	"context"
	"sync"

	"go-servicios-backend/internal/domain"
)

// Refresher lets the wizard signal a reconciler refresh without holding a
// reference to the session registry's internals.
type Refresher interface {
	Refresh(sessionID string)
}

// Sessions owns one Reconciler per browsing session, with explicit lifecycle:
// created on first contact, stopped on Drop or Close. It is also the delivery
// surface for identity-change events.
type Sessions struct {
	store   domain.ProfileStore
	markers domain.SessionStore

	ctx    context.Context
	cancel context.CancelFunc

	mu sync.Mutex
	m  map[string]*Reconciler
}

func NewSessions(store domain.ProfileStore, markers domain.SessionStore) *Sessions {
	ctx, cancel := context.WithCancel(context.Background())
	return &Sessions{
		store:   store,
		markers: markers,
		ctx:     ctx,
		cancel:  cancel,
		m:       make(map[string]*Reconciler),
	}
}

// Get returns the session's reconciler, creating and starting it on demand.
func (s *Sessions) Get(sessionID string) *Reconciler {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.m[sessionID]
	if !ok {
		r = NewReconciler(sessionID, s.store, s.markers)
		r.Start(s.ctx)
		s.m[sessionID] = r
	}
	return r
}

// Publish delivers an identity-change event to the session (nil = signed out).
func (s *Sessions) Publish(sessionID string, ident *domain.Identity) {
	s.Get(sessionID).OnIdentityChange(ident)
}

// Refresh re-runs reconciliation for the session if it exists.
func (s *Sessions) Refresh(sessionID string) {
	s.mu.Lock()
	r, ok := s.m[sessionID]
	s.mu.Unlock()
	if ok {
		r.Refresh()
	}
}

// Drop stops and forgets the session's reconciler.
func (s *Sessions) Drop(sessionID string) {
	s.mu.Lock()
	r, ok := s.m[sessionID]
	delete(s.m, sessionID)
	s.mu.Unlock()
	if ok {
		r.Stop()
	}
}

// Close stops every reconciler. Used at shutdown.
func (s *Sessions) Close() {
	s.cancel()
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, r := range s.m {
		r.Stop()
		delete(s.m, id)
	}
}
