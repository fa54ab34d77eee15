package session

import (
	"context"
	"time"

	"go-servicios-backend/internal/domain"

	gocache "github.com/patrickmn/go-cache"
)

type memoryStore struct {
	c   *gocache.Cache
	ttl time.Duration
}

// NewMemoryStore is the in-process fallback used when Redis is not configured.
// Markers survive page reloads but not backend restarts.
func NewMemoryStore(ttl time.Duration) domain.SessionStore {
	return &memoryStore{c: gocache.New(ttl, time.Minute), ttl: ttl}
}

func (s *memoryStore) SetPendingSwitch(_ context.Context, sessionID string) error {
	s.c.Set(switchKeyPrefix+sessionID, true, s.ttl)
	return nil
}

func (s *memoryStore) PendingSwitch(_ context.Context, sessionID string) (bool, error) {
	_, ok := s.c.Get(switchKeyPrefix + sessionID)
	return ok, nil
}

func (s *memoryStore) ClearPendingSwitch(_ context.Context, sessionID string) error {
	s.c.Delete(switchKeyPrefix + sessionID)
	return nil
}
