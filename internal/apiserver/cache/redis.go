package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/amoylab/tenantly/internal/common/config"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient connects to the configured Redis and verifies it answers
func NewRedisClient(ctx context.Context, cfg config.CacheRedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}
	return client, nil
}
