package presence

import (
	"context"
	"fmt"

	"safri360/internal/admin-service/core/ports"
	"safri360/internal/config"

	"github.com/go-redis/redis/v8"
)

const keyPrefix = "presence:"

// Counter reads the presence flags the dispatch service writes. Flags
// are plain "Online"/"Offline" strings with no expiry.
type Counter struct {
	client *redis.Client
}

func New(ctx context.Context, cfg *config.Redisconfig) (ports.IPresenceCounter, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return &Counter{client: client}, nil
}

func (c *Counter) CountOnline(ctx context.Context) (int64, error) {
	var count int64
	iter := c.client.Scan(ctx, 0, keyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		val, err := c.client.Get(ctx, iter.Val()).Result()
		if err == nil && val == "Online" {
			count++
		}
	}
	return count, iter.Err()
}

func (c *Counter) Close() error {
	return c.client.Close()
}
