package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shopfront/internal/config"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// redisPersistence implements Persistence on a Redis instance, one JSON
// value per key. Carts and wishlists expire after the configured TTL so
// abandoned state does not accumulate forever.
type redisPersistence struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewRedisPersistence connects to Redis and verifies the connection before
// returning the backend.
func NewRedisPersistence(ctx context.Context, cfg config.RedisConfig, logger zerolog.Logger) (Persistence, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}

	logger.Info().Str("addr", cfg.Addr).Msg("redis state backend connected")

	return &redisPersistence{
		client: client,
		ttl:    cfg.TTL,
		logger: logger.With().Str("component", "redis-persistence").Logger(),
	}, nil
}

func (r *redisPersistence) Load(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load state for %s: %w", key, err)
	}
	return data, nil
}

func (r *redisPersistence) Save(ctx context.Context, key string, data []byte) error {
	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save state for %s: %w", key, err)
	}
	return nil
}

func (r *redisPersistence) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete state for %s: %w", key, err)
	}
	return nil
}
