package cmd

import (
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient creates a redis client from a URL, or nil when no URL is
// configured. A nil client disables the active-workflow cache.
func NewRedisClient(redisURL string, logger *slog.Logger) redis.Cmdable {
	if redisURL == "" {
		logger.Info("Redis not configured, active workflow snapshots will hit persistence directly")

		return nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		panic(fmt.Errorf("failed to parse redis URL: %w", err))
	}

	return redis.NewClient(opts)
}
