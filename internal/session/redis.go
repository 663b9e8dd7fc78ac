package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"short-link/internal/cache"
	"short-link/internal/entities"
)

const redisKeyPrefix = "session:"

// RedisStore keeps sessions in Redis so several instances can share them.
type RedisStore struct {
	cache cache.Cache
	ttl   time.Duration
}

// NewRedisStore creates a store on top of c. A ttl of 0 stores keys without
// expiry.
func NewRedisStore(c cache.Cache, ttl time.Duration) *RedisStore {
	return &RedisStore{cache: c, ttl: ttl}
}

func (s *RedisStore) Create(ctx context.Context, user *entities.User) (string, error) {
	token, err := NewToken()
	if err != nil {
		return "", err
	}
	if err := s.cache.SetJSON(ctx, redisKeyPrefix+token, snapshot(user), s.ttl); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}
	return token, nil
}

func (s *RedisStore) Authenticate(ctx context.Context, token string) (*entities.User, error) {
	if token == "" {
		return nil, ErrNotFound
	}

	var user entities.User
	if err := s.cache.GetJSON(ctx, redisKeyPrefix+token, &user); err != nil {
		if errors.Is(err, cache.ErrMiss) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return &user, nil
}

func (s *RedisStore) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.cache.Delete(ctx, redisKeyPrefix+token); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
