package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"

	"example.com/storebunk/services/pos/config"
)

// RedisIdempotencyRegistry backs the idempotency registry with Redis so
// redeliveries of offline commands are deduplicated across process
// restarts. Keys carry a TTL; redelivery windows of offline terminals are
// bounded, so expired keys are acceptable.
type RedisIdempotencyRegistry struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisIdempotencyRegistry connects to Redis and returns the registry
func NewRedisIdempotencyRegistry(cfg config.RedisConfig) (*RedisIdempotencyRegistry, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test the connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := client.Ping(ctx).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to Redis")
	}

	return &RedisIdempotencyRegistry{
		client: client,
		ttl:    time.Duration(cfg.IdempotencyTTLHours) * time.Hour,
	}, nil
}

func commandKey(commandID string) string {
	return fmt.Sprintf("pos:command:%s", commandID)
}

// HasBeenProcessed reports whether the command has already been processed
func (r *RedisIdempotencyRegistry) HasBeenProcessed(ctx context.Context, commandID string) (bool, error) {
	count, err := r.client.Exists(ctx, commandKey(commandID)).Result()
	if err != nil {
		return false, errors.Wrap(err, "failed to check command in Redis")
	}
	return count > 0, nil
}

// MarkAsProcessed records the command as processed
func (r *RedisIdempotencyRegistry) MarkAsProcessed(ctx context.Context, commandID string) error {
	err := r.client.Set(ctx, commandKey(commandID), "1", r.ttl).Err()
	if err != nil {
		return errors.Wrap(err, "failed to mark command in Redis")
	}
	return nil
}

// Close closes the Redis connection
func (r *RedisIdempotencyRegistry) Close() error {
	if r.client == nil {
		return nil
	}

	return r.client.Close()
}
