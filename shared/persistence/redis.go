package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/akbar-farajov/booking-system/shared/models"
	"github.com/go-redis/redis/v8"
)

// DefaultRedisTTL bounds how long an abandoned session is kept
const DefaultRedisTTL = 30 * 24 * time.Hour

// RedisStorage keeps encoded snapshots under one key per session
type RedisStorage struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStorage wraps a redis client. A zero ttl keeps keys forever.
func NewRedisStorage(client *redis.Client, ttl time.Duration) *RedisStorage {
	return &RedisStorage{client: client, ttl: ttl}
}

// NewRedisClient connects to the redis server at addr
func NewRedisClient(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   0,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

func redisKey(sessionID string) string {
	return StorageKey + ":" + sessionID
}

func (r *RedisStorage) Load(ctx context.Context, sessionID string) (models.BookingConfiguration, error) {
	data, err := r.client.Get(ctx, redisKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.BookingConfiguration{}, ErrNotFound
	}
	if err != nil {
		return models.BookingConfiguration{}, fmt.Errorf("failed to load booking snapshot: %w", err)
	}
	return Decode(data)
}

func (r *RedisStorage) Persist(ctx context.Context, sessionID string, b models.BookingConfiguration) error {
	data, err := Encode(b)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, redisKey(sessionID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store booking snapshot: %w", err)
	}
	return nil
}

func (r *RedisStorage) Clear(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, redisKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to clear booking snapshot: %w", err)
	}
	return nil
}
