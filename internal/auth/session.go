package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "auth:session:"

// ErrSessionNotFound is returned when a token does not resolve to a live
// session, either because it never existed or because it expired.
var ErrSessionNotFound = errors.New("session not found")

// SessionStore maps opaque session tokens to user ids. The identity a
// token resolves to is passed explicitly into each handler; nothing keeps
// ambient login state in-process.
type SessionStore interface {
	Issue(ctx context.Context, userID uint) (string, error)
	Resolve(ctx context.Context, token string) (uint, error)
	Revoke(ctx context.Context, token string) error
}

// RedisSessionStore keeps sessions in Redis with a fixed TTL.
type RedisSessionStore struct {
	redis redis.UniversalClient
	ttl   time.Duration
}

// NewRedisSessionStore builds a session store on the given client.
func NewRedisSessionStore(client redis.UniversalClient, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{redis: client, ttl: ttl}
}

// Issue creates a fresh token for the user and stores it with the TTL.
func (s *RedisSessionStore) Issue(ctx context.Context, userID uint) (string, error) {
	token := uuid.NewString()
	key := sessionKeyPrefix + token
	if err := s.redis.Set(ctx, key, strconv.FormatUint(uint64(userID), 10), s.ttl).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return token, nil
}

// Resolve returns the user id a token belongs to.
func (s *RedisSessionStore) Resolve(ctx context.Context, token string) (uint, error) {
	if token == "" {
		return 0, ErrSessionNotFound
	}
	value, err := s.redis.Get(ctx, sessionKeyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return 0, ErrSessionNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("load session: %w", err)
	}
	userID, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("decode session value: %w", err)
	}
	return uint(userID), nil
}

// Revoke drops the session. Revoking an unknown token is not an error.
func (s *RedisSessionStore) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.redis.Del(ctx, sessionKeyPrefix+token).Err(); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}
