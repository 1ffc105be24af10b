package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	redisutil "github.com/octabyte/zip-client/db/redis"
)

const redisKeyPrefix = "session:"

// RedisStore keeps one hash per session.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

var _ Store = (*RedisStore)(nil)

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) key(sid string) string {
	return redisKeyPrefix + sid
}

func (s *RedisStore) Get(ctx context.Context, sid, key string) (string, error) {
	value, found, err := redisutil.HGet(ctx, s.client, s.key(sid), key)
	if err != nil {
		return "", fmt.Errorf("session get %s: %w", key, err)
	}
	if !found {
		return "", ErrNotFound
	}
	return value, nil
}

func (s *RedisStore) Set(ctx context.Context, sid string, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	if err := redisutil.HSetWithTTL(ctx, s.client, s.key(sid), values, s.ttl); err != nil {
		return fmt.Errorf("session set: %w", err)
	}
	return nil
}

func (s *RedisStore) Touch(ctx context.Context, sid string) error {
	if s.ttl <= 0 {
		return nil
	}
	if err := redisutil.Expire(ctx, s.client, s.key(sid), s.ttl); err != nil {
		return fmt.Errorf("session touch: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, sid string, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := redisutil.HDel(ctx, s.client, s.key(sid), keys...); err != nil {
		return fmt.Errorf("session delete: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context, sid string) error {
	if err := redisutil.Del(ctx, s.client, s.key(sid)); err != nil {
		return fmt.Errorf("session clear: %w", err)
	}
	return nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return redisutil.Ping(ctx, s.client)
}
