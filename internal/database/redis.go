package database

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"

	"kanban-board-api/internal/config"
)

// NewRedis creates a redis client from configuration. The realtime hub
// uses it as a pub/sub bridge between processes; the service degrades
// to in-process fan-out when redis is absent.
func NewRedis(cfg config.RedisConfig) (*redis.Client, error) {
	var client *redis.Client

	if cfg.URL != "" {
		opts, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, err
		}
		client = redis.NewClient(opts)
	} else {
		client = redis.NewClient(&redis.Options{
			Addr:     "localhost:6379",
			Password: cfg.Password,
			DB:       cfg.DB,
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return client, nil
}
