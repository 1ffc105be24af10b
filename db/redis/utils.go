package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Del deletes keys from Redis.
func Del(ctx context.Context, client *redis.Client, keys ...string) error {
	return client.Del(ctx, keys...).Err()
}

// Exists checks if a key exists in Redis.
func Exists(ctx context.Context, client *redis.Client, key string) (bool, error) {
	exists, err := client.Exists(ctx, key).Result()
	return exists > 0, err
}

// HGet retrieves a field from a hash. found is false for a missing key or
// field.
func HGet(ctx context.Context, client *redis.Client, key, field string) (value string, found bool, err error) {
	value, err = client.HGet(ctx, key, field).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// HSetWithTTL writes all fields and refreshes the key's expiry in a single
// MULTI/EXEC, so readers see either none or all of the fields.
func HSetWithTTL(ctx context.Context, client *redis.Client, key string, fields map[string]string, ttl time.Duration) error {
	values := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		values[k] = v
	}

	_, err := client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, values)
		if ttl > 0 {
			pipe.Expire(ctx, key, ttl)
		}
		return nil
	})
	return err
}

// HDel deletes fields from a hash in Redis.
func HDel(ctx context.Context, client *redis.Client, key string, fields ...string) error {
	return client.HDel(ctx, key, fields...).Err()
}

// Expire sets an expiration time for a key in Redis. A missing key stays
// missing.
func Expire(ctx context.Context, client *redis.Client, key string, expiration time.Duration) error {
	return client.Expire(ctx, key, expiration).Err()
}
