package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RefreshTokenStore keeps opaque refresh tokens alive for their TTL and
// resolves them back to a user id.
type RefreshTokenStore interface {
	Save(ctx context.Context, token string, userID uint, ttl time.Duration) error
	Lookup(ctx context.Context, token string) (uint, error)
	Delete(ctx context.Context, token string) error
}

// RedisTokenStore backs refresh tokens with Redis, one key per token.
type RedisTokenStore struct {
	client *redis.Client
}

func NewRedisTokenStore(client *redis.Client) *RedisTokenStore {
	return &RedisTokenStore{client: client}
}

func (s *RedisTokenStore) Save(ctx context.Context, token string, userID uint, ttl time.Duration) error {
	return s.client.Set(ctx, tokenKey(token), userID, ttl).Err()
}

func (s *RedisTokenStore) Lookup(ctx context.Context, token string) (uint, error) {
	value, err := s.client.Get(ctx, tokenKey(token)).Result()
	if err == redis.Nil {
		return 0, ErrInvalidRefreshToken
	}
	if err != nil {
		return 0, err
	}

	userID, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		return 0, ErrInvalidRefreshToken
	}
	return uint(userID), nil
}

func (s *RedisTokenStore) Delete(ctx context.Context, token string) error {
	return s.client.Del(ctx, tokenKey(token)).Err()
}

func tokenKey(token string) string {
	return fmt.Sprintf("refresh:%s", token)
}
