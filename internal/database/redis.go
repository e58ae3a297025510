package database

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"contacts-admin/internal/config"
)

// NewRedis connects the client used for import progress.
func NewRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.GetRedisAddr(), err)
	}

	return client, nil
}
