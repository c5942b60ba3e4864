package presence

import (
	"context"
	"fmt"

	"safri360/internal/config"
	"safri360/internal/dispatch-service/core/ports"

	"github.com/go-redis/redis/v8"
)

const keyPrefix = "presence:"

// Store keeps presence flags in Redis as plain "Online"/"Offline" strings.
// Keys are written without expiry: presence is stale-positive, a client
// killed while online keeps its flag until the next explicit toggle.
type Store struct {
	client *redis.Client
}

func New(ctx context.Context, cfg *config.Redisconfig) (ports.IPresenceStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return &Store{client: client}, nil
}

func (s *Store) SetOnline(ctx context.Context, uid string) error {
	return s.client.Set(ctx, keyPrefix+uid, "Online", 0).Err()
}

func (s *Store) SetOffline(ctx context.Context, uid string) error {
	return s.client.Set(ctx, keyPrefix+uid, "Offline", 0).Err()
}

func (s *Store) IsOnline(ctx context.Context, uid string) (bool, error) {
	val, err := s.client.Get(ctx, keyPrefix+uid).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return val == "Online", nil
}

func (s *Store) CountOnline(ctx context.Context) (int64, error) {
	var count int64
	iter := s.client.Scan(ctx, 0, keyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		val, err := s.client.Get(ctx, iter.Val()).Result()
		if err == nil && val == "Online" {
			count++
		}
	}
	return count, iter.Err()
}

func (s *Store) Close() error {
	return s.client.Close()
}
