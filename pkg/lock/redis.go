package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/TQS-Project-OLS/backend-sub001/pkg/domain"
)

// Locker guards a critical section keyed by an arbitrary string. Acquire
// fails with ConflictError when the key is already held.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error)
}

// RedisLocker implements Locker with a single SET NX per key. The returned
// release func deletes the key; the TTL bounds the hold time if the process
// dies mid-section.
type RedisLocker struct {
	client *redis.Client
	prefix string
}

// NewRedisLocker creates a RedisLocker using the given client.
func NewRedisLocker(client *redis.Client, prefix string) *RedisLocker {
	return &RedisLocker{client: client, prefix: prefix}
}

// Acquire takes the lock for key, returning a release func on success.
func (l *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	full := l.prefix + ":" + key

	ok, err := l.client.SetNX(ctx, full, "1", ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock %s: %w", full, err)
	}
	if !ok {
		return nil, domain.NewConflictError("resource is locked by a concurrent request")
	}

	release := func() {
		_ = l.client.Del(context.Background(), full).Err()
	}
	return release, nil
}

// NewClient creates a redis client from address and password.
func NewClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}
