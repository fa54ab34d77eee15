package session

import (
	"context"
	"errors"
	"time"

	"go-servicios-backend/internal/domain"

	"github.com/redis/go-redis/v9"
)

const switchKeyPrefix = "session:pending-switch:"

type redisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore returns a SessionStore that keeps the pending-switch marker in
// Redis so it survives page reloads and backend restarts.
func NewRedisStore(client *redis.Client, ttl time.Duration) domain.SessionStore {
	return &redisStore{client: client, ttl: ttl}
}

func (s *redisStore) SetPendingSwitch(ctx context.Context, sessionID string) error {
	return s.client.Set(ctx, switchKeyPrefix+sessionID, "1", s.ttl).Err()
}

func (s *redisStore) PendingSwitch(ctx context.Context, sessionID string) (bool, error) {
	_, err := s.client.Get(ctx, switchKeyPrefix+sessionID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *redisStore) ClearPendingSwitch(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, switchKeyPrefix+sessionID).Err()
}
